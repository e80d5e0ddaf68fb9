package publish

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spraakbanken/sparv/registry"
)

// InstalledMarker and UninstalledMarker are the two mutually exclusive
// markers spec.md section 3 describes ("mutually exclusive with the
// marker of the paired uninstaller").
const (
	InstalledMarker   = "publish.installed"
	UninstalledMarker = "publish.uninstalled"
)

// InstallOptions configures one registered install/uninstall pair.
// ExportPath identifies the exporter output this installer depends on
// (the same Identifier the exporter registered via registry.Export);
// ExportDir and PublishDir are resolved, absolute directories, since an
// installer's side effect operates on whole directory trees rather than
// the templated per-file export paths exporters render.
type InstallOptions struct {
	ExportPath string
	ExportDir  string
	PublishDir string
}

// NewInstall registers the installer half: it copies every file under
// ExportDir into PublishDir, then writes InstalledMarker and clears
// UninstalledMarker (spec.md section 4.3: "must write its own marker and
// should remove the paired marker").
func NewInstall(opts InstallOptions) registry.Function {
	return registry.Function{
		ID:          "publish:install",
		Role:        registry.RoleInstaller,
		Description: "Copies export output to the publish directory",
		Signature: registry.Signature{
			Inputs:  []registry.Descriptor{registry.ExportInput(opts.ExportPath)},
			Outputs: []registry.Descriptor{registry.Marker(InstalledMarker, true)},
		},
		Run: func(rc *registry.RunContext) error {
			if err := copyTree(opts.ExportDir, opts.PublishDir); err != nil {
				return fmt.Errorf("installing %s: %w", opts.ExportDir, err)
			}

			if err := rc.CorpusDir.RemoveMarker(UninstalledMarker); err != nil {
				return err
			}

			return rc.CorpusDir.WriteMarker(InstalledMarker, []byte(opts.PublishDir))
		},
	}
}

// NewUninstall registers the uninstaller half: it removes PublishDir
// itself, then writes UninstalledMarker and clears InstalledMarker.
func NewUninstall(opts InstallOptions) registry.Function {
	return registry.Function{
		ID:          "publish:uninstall",
		Role:        registry.RoleUninstaller,
		Description: "Removes published export output",
		Signature: registry.Signature{
			Outputs: []registry.Descriptor{registry.Marker(UninstalledMarker, true)},
		},
		Run: func(rc *registry.RunContext) error {
			if err := os.RemoveAll(opts.PublishDir); err != nil {
				return fmt.Errorf("uninstalling %s: %w", opts.PublishDir, err)
			}

			if err := rc.CorpusDir.RemoveMarker(InstalledMarker); err != nil {
				return err
			}

			return rc.CorpusDir.WriteMarker(UninstalledMarker, []byte(opts.PublishDir))
		},
	}
}

// copyTree copies every regular file under src into dst, preserving the
// relative directory structure.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Close()
}

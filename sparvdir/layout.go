package sparvdir

import (
	"os"
	"path/filepath"
)

// DataDirEnv is the environment variable overriding the global data
// directory (spec.md section 6).
const DataDirEnv = "SPARV_DATADIR"

// DataDir resolves the global Sparv data directory: SPARV_DATADIR if set,
// else "~/.sparv" (the teacher-idiom default of resolving under the
// user's home directory rather than a hardcoded system path).
func DataDir() (string, error) {
	if v := os.Getenv(DataDirEnv); v != "" {
		return v, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".sparv"), nil
}

// ConfigDefaultFile is the built-in defaults file under the data
// directory (spec.md section 6: "config/config_default.yaml").
func ConfigDefaultFile(dataDir string) string { return filepath.Join(dataDir, "config", "config_default.yaml") }

// PresetsDir is the preset library directory under the data directory.
func PresetsDir(dataDir string) string { return filepath.Join(dataDir, "config", "presets") }

// BinDir is the directory housing downloaded third-party binaries.
func BinDir(dataDir string) string { return filepath.Join(dataDir, "bin") }

// ModelsDir is the directory housing shared, read-only model files.
func ModelsDir(dataDir string) string { return filepath.Join(dataDir, "models") }

// Corpus groups the per-corpus paths of spec.md section 6.
type Corpus struct {
	Root string
}

// NewCorpus resolves a Corpus rooted at root (the corpus directory
// containing config.yaml).
func NewCorpus(root string) Corpus { return Corpus{Root: root} }

// SourceDir is the configured source directory, default "source/".
func (c Corpus) SourceDir(configured string) string {
	if configured == "" {
		configured = "source"
	}

	return filepath.Join(c.Root, configured)
}

// WorkDir is "sparv-workdir/", the per-file artifact and marker area.
func (c Corpus) WorkDir() string { return filepath.Join(c.Root, "sparv-workdir") }

// FileWorkDir is the work directory of one source file.
func (c Corpus) FileWorkDir(file string) string { return filepath.Join(c.WorkDir(), file) }

// CorpusWorkDir is the corpus-scoped data/marker area, reserved inside
// WorkDir so it never collides with a real (file-named) subdirectory.
func (c Corpus) CorpusWorkDir() string { return filepath.Join(c.WorkDir(), ".corpus") }

// ExportDir is "export/<module>/...", the final output area.
func (c Corpus) ExportDir(module string) string { return filepath.Join(c.Root, "export", module) }

// LogsDir is "logs/".
func (c Corpus) LogsDir() string { return filepath.Join(c.Root, "logs") }

// EnsureDirs creates the per-corpus directories needed before a run.
func (c Corpus) EnsureDirs() error {
	for _, dir := range []string{c.WorkDir(), c.CorpusWorkDir(), c.LogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return nil
}

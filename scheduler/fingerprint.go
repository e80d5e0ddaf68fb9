package scheduler

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spraakbanken/sparv/registry"
)

// modelFingerprint hashes the size+mtime of every Model/ModelOutput file
// fn declares, so a changed model on disk invalidates every task that
// reads it without needing to hash the (possibly large) model contents.
func modelFingerprint(fn registry.Function, modelDir string) []byte {
	var paths []string

	for _, d := range fn.Signature.Inputs {
		if d.Kind == registry.KindModel {
			paths = append(paths, filepath.Join(modelDir, d.Identifier))
		}
	}

	for _, d := range fn.Signature.Outputs {
		if d.Kind == registry.KindModelOutput {
			paths = append(paths, filepath.Join(modelDir, d.Identifier))
		}
	}

	sort.Strings(paths)

	h := sha256.New()

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(h, "missing:%s\n", p)
			continue
		}

		fmt.Fprintf(h, "%s:%d:%d\n", p, fi.Size(), fi.ModTime().UnixNano())
	}

	return h.Sum(nil)
}

// binaryFingerprint hashes the size+mtime of every Binary fn declares,
// resolved through binaryPaths (a version marker without shelling out to
// each tool, per spec.md section 4.5: "binary version markers").
func binaryFingerprint(fn registry.Function, binaryPaths map[string]string) []byte {
	var names []string

	for _, d := range fn.Signature.Inputs {
		if d.Kind == registry.KindBinary || d.Kind == registry.KindBinaryDir {
			names = append(names, d.Identifier)
		}
	}

	sort.Strings(names)

	h := sha256.New()

	for _, name := range names {
		path, ok := binaryPaths[name]
		if !ok {
			fmt.Fprintf(h, "unresolved:%s\n", name)
			continue
		}

		fi, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(h, "missing:%s\n", path)
			continue
		}

		fmt.Fprintf(h, "%s:%d:%d\n", path, fi.Size(), fi.ModTime().UnixNano())
	}

	return h.Sum(nil)
}

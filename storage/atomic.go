package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWrite writes data produced by fn to path through a temp file in the
// same directory, then renames it into place. This is the publication
// boundary spec.md section 5 requires: a dependent task started on another
// worker never observes partial output, because the rename is atomic.
func atomicWrite(path string, fn func(f *os.File) error) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if err := fn(tmp); err != nil {
		_ = tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("publishing %s: %w", path, err)
	}

	return nil
}

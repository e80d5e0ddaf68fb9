package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteMarker creates a completeness/installer marker under the work
// directory's reserved ".markers" area. signature is the input-hash
// signature (spec.md section 4.6) and is stored verbatim so the next run
// can compare it without recomputing downstream state.
func (wd *WorkDir) WriteMarker(name string, signature []byte) error {
	path := wd.markerFile(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating marker dir: %w", err)
	}

	return atomicWrite(path, func(f *os.File) error {
		_, err := f.Write(signature)
		return err
	})
}

// ReadMarker returns the signature stored by WriteMarker, or (nil, false)
// if no marker exists.
func (wd *WorkDir) ReadMarker(name string) ([]byte, bool) {
	b, err := os.ReadFile(wd.markerFile(name))
	if err != nil {
		return nil, false
	}

	return b, true
}

// HasMarker reports whether a marker exists, regardless of its signature.
func (wd *WorkDir) HasMarker(name string) bool {
	_, ok := wd.ReadMarker(name)
	return ok
}

// RemoveMarker deletes a marker, e.g. when its paired uninstaller runs
// (spec.md section 3: markers are "mutually exclusive with the marker of
// the paired uninstaller").
func (wd *WorkDir) RemoveMarker(name string) error {
	err := os.Remove(wd.markerFile(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing marker: %w", err)
	}

	return nil
}

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WorkDir is the on-disk area owned exclusively by one source file:
// "<workdir>/<file>/". Every span annotation gets a subdirectory holding a
// "span" file and one file per attribute; corpus-level data and
// completeness markers live in reserved subdirectories. Per spec.md section
// 3 ("Ownership"), no two WorkDirs may ever target the same path.
type WorkDir struct {
	Root  string
	Codec Codec
}

// NewWorkDir returns a WorkDir rooted at root, using codec for every file
// written or read through it. root is created on first write.
func NewWorkDir(root string, codec Codec) *WorkDir {
	if codec == nil {
		codec = gzipCodec{}
	}

	return &WorkDir{Root: root, Codec: codec}
}

func (wd *WorkDir) spanDir(spanName string) string {
	return filepath.Join(wd.Root, spanName)
}

func (wd *WorkDir) spanFile(spanName string) string {
	return filepath.Join(wd.spanDir(spanName), "span")
}

func (wd *WorkDir) attributeFile(spanName, attrName string) string {
	return filepath.Join(wd.spanDir(spanName), attrName)
}

func (wd *WorkDir) dataFile(name string) string {
	return filepath.Join(wd.Root, ".data", name)
}

func (wd *WorkDir) markerFile(name string) string {
	return filepath.Join(wd.Root, ".markers", name)
}

// WriteSpans writes spans for spanName, creating the span's subdirectory
// if needed, compressed through wd.Codec, published atomically.
func (wd *WorkDir) WriteSpans(spanName string, spans []Span) error {
	if err := ValidateMonotone(spans); err != nil {
		return err
	}

	dir := wd.spanDir(spanName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating span dir: %w", err)
	}

	return atomicWrite(wd.spanFile(spanName), func(f *os.File) error {
		cw, err := wd.Codec.NewWriter(f)
		if err != nil {
			return err
		}

		if err := EncodeSpans(cw, spans); err != nil {
			return err
		}

		return cw.Close()
	})
}

// ReadSpans reads back spans written by WriteSpans.
func (wd *WorkDir) ReadSpans(spanName string) ([]Span, error) {
	f, err := os.Open(wd.spanFile(spanName))
	if err != nil {
		return nil, fmt.Errorf("opening span file: %w", err)
	}
	defer f.Close()

	cr, err := wd.Codec.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	return DecodeSpans(cr)
}

// HasSpans reports whether a span file exists for spanName.
func (wd *WorkDir) HasSpans(spanName string) bool {
	_, err := os.Stat(wd.spanFile(spanName))
	return err == nil
}

// AttributeOptions controls attribute file encoding.
type AttributeOptions struct {
	AllowEmbeddedNewlines bool
}

// WriteAttribute writes one value per line under the given span's
// directory. len(values) must equal the span count maintained by the
// caller (spec.md universal invariant |A| == |S|); this layer does not
// itself know the span count and does not enforce it, and neither does
// the scheduler.
func (wd *WorkDir) WriteAttribute(spanName, attrName string, values []string, opts AttributeOptions) error {
	dir := wd.spanDir(spanName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating span dir: %w", err)
	}

	return atomicWrite(wd.attributeFile(spanName, attrName), func(f *os.File) error {
		cw, err := wd.Codec.NewWriter(f)
		if err != nil {
			return err
		}

		if err := EncodeAttributeValues(cw, values, opts.AllowEmbeddedNewlines); err != nil {
			return err
		}

		return cw.Close()
	})
}

// ReadAttribute reads back values written by WriteAttribute.
func (wd *WorkDir) ReadAttribute(spanName, attrName string, opts AttributeOptions) ([]string, error) {
	f, err := os.Open(wd.attributeFile(spanName, attrName))
	if err != nil {
		return nil, fmt.Errorf("opening attribute file: %w", err)
	}
	defer f.Close()

	cr, err := wd.Codec.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	return DecodeAttributeValues(cr, opts.AllowEmbeddedNewlines)
}

// WriteData writes arbitrary bytes under the per-file data area.
func (wd *WorkDir) WriteData(name string, data []byte) error {
	path := wd.dataFile(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	return atomicWrite(path, func(f *os.File) error {
		cw, err := wd.Codec.NewWriter(f)
		if err != nil {
			return err
		}

		if _, err := cw.Write(data); err != nil {
			return err
		}

		return cw.Close()
	})
}

// ReadData reads back bytes written by WriteData.
func (wd *WorkDir) ReadData(name string) ([]byte, error) {
	f, err := os.Open(wd.dataFile(name))
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	cr, err := wd.Codec.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	buf, err := io.ReadAll(cr)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	return buf, nil
}

// HasData reports whether a data file exists for name.
func (wd *WorkDir) HasData(name string) bool {
	_, err := os.Stat(wd.dataFile(name))
	return err == nil
}

package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spraakbanken/sparv/annotation"
	"github.com/spraakbanken/sparv/storage"
)

// AnnotationColumn is one resolved attribute/span annotation read back
// from a file's work directory, ready to render into a column-based or
// XML-tree export format.
type AnnotationColumn struct {
	// Name is the identifier as configured (export.annotations entry),
	// possibly renamed via the "X as Y" list syntax.
	Name string
	// Span is the base span this column's values attach to.
	Span string
	// Attribute is the attribute name, or "" for a pure span marker
	// column (one empty value per span occurrence).
	Attribute string
	Spans     []storage.Span
	Values    []string
}

// ReadColumns resolves export.annotations (already expanded by
// annotation.ExpandList against the available candidates) against wd,
// reading each span's spans and, where applicable, attribute values.
func ReadColumns(wd *storage.WorkDir, identifiers []string) ([]AnnotationColumn, error) {
	cols := make([]AnnotationColumn, 0, len(identifiers))

	spanCache := map[string][]storage.Span{}

	for _, id := range identifiers {
		p, err := annotation.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parsing export annotation %q: %w", id, err)
		}

		spans, ok := spanCache[p.BaseSpan]
		if !ok {
			spans, err = wd.ReadSpans(p.BaseSpan)
			if err != nil {
				return nil, fmt.Errorf("reading spans for %q: %w", p.BaseSpan, err)
			}

			spanCache[p.BaseSpan] = spans
		}

		col := AnnotationColumn{Name: id, Span: p.BaseSpan, Attribute: p.Attribute, Spans: spans}

		if p.Attribute != "" {
			values, err := wd.ReadAttribute(p.BaseSpan, p.Attribute, storage.AttributeOptions{})
			if err != nil {
				return nil, fmt.Errorf("reading attribute %q: %w", id, err)
			}

			col.Values = values
		}

		cols = append(cols, col)
	}

	return cols, nil
}

// writeExportFile writes data to the export path, creating parent
// directories as needed. Export output is a final artifact, not an
// intermediate span/attribute file, so it bypasses storage's
// atomic-rename/codec machinery and is written directly -- matching
// spec.md section 6's description of export output as plain files under
// export/<module>/.
func writeExportFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// expandTemplate substitutes {file} and {corpus} placeholders in an
// export path template (registry.Export's Identifier).
func expandTemplate(tmpl, file, corpus string) string {
	r := strings.NewReplacer("{file}", file, "{corpus}", corpus)
	return r.Replace(tmpl)
}

package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spraakbanken/sparv/annotation"
	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// SQLOptions configures one registered SQL-dump exporter instance.
type SQLOptions struct {
	Table      string   // destination table name
	Word       string   // token span identifier; its text is the surface form column
	Columns    []string // additional attribute identifiers, one per column
	ExportPath string   // corpus-scoped, no {file} placeholder
}

// NewSQL registers a corpus-scoped exporter emitting one INSERT statement
// per token across the whole corpus (spec.md section 1's "SQL dump"
// export), grounded on exporter.FrequencyList's corpus-scoped Task
// contract: the function receives every file's work directory through
// RunContext.Files/WorkDirFor rather than a single RunContext.WorkDir.
func NewSQL(opts SQLOptions) registry.Function {
	inputs := []registry.Descriptor{registry.Text(), registry.AllSourceFilenames(), registry.AnnotationAllFiles(opts.Word)}

	for _, id := range opts.Columns {
		inputs = append(inputs, registry.AnnotationAllFiles(id))
	}

	return registry.Function{
		ID:          "sql_export:dump",
		Role:        registry.RoleExporter,
		Description: "Dumps per-token annotations as SQL INSERT statements",
		Signature: registry.Signature{
			Inputs:  inputs,
			Outputs: []registry.Descriptor{registry.Export(opts.ExportPath)},
		},
		Run: func(rc *registry.RunContext) error {
			var sb strings.Builder

			columnNames := append([]string{"file", "position", "word"}, columnLabels(opts.Columns)...)
			fmt.Fprintf(&sb, "CREATE TABLE %s (%s);\n", opts.Table, strings.Join(columnNames, ", "))

			for _, file := range rc.Files {
				wd := rc.WorkDirFor(file)
				if wd == nil {
					continue
				}

				if err := writeSQLRows(&sb, wd, opts, file); err != nil {
					return fmt.Errorf("file %s: %w", file, err)
				}
			}

			return writeExportFile(opts.ExportPath, []byte(sb.String()))
		},
	}
}

// writeSQLRows appends one INSERT statement per token in file to sb,
// reading the token's surface form from its span's text offsets (spans
// carry no attribute values of their own) and its remaining columns from
// opts.Columns' attributes.
func writeSQLRows(sb *strings.Builder, wd *storage.WorkDir, opts SQLOptions, file string) error {
	text, err := importer.ReadText(wd)
	if err != nil {
		return err
	}

	tokenSpans, err := wd.ReadSpans(opts.Word)
	if err != nil {
		return fmt.Errorf("reading token spans: %w", err)
	}

	cols, err := ReadColumns(wd, opts.Columns)
	if err != nil {
		return err
	}

	runes := []rune(text)

	for i, sp := range tokenSpans {
		values := []string{sqlQuote(file), strconv.Itoa(i), sqlQuote(string(runes[sp.Start:sp.End]))}

		for _, col := range cols {
			if i < len(col.Values) {
				values = append(values, sqlQuote(col.Values[i]))
			} else {
				values = append(values, "NULL")
			}
		}

		fmt.Fprintf(sb, "INSERT INTO %s VALUES (%s);\n", opts.Table, strings.Join(values, ", "))
	}

	return nil
}

// sqlQuote wraps s in single quotes, doubling any embedded quote, the
// standard SQL string-literal escape.
func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// columnLabels derives a SQL column name from each attribute identifier's
// annotation.Attribute part, falling back to the full identifier with
// ":" replaced if it doesn't parse as span:attribute.
func columnLabels(identifiers []string) []string {
	out := make([]string, len(identifiers))

	for i, id := range identifiers {
		if p, err := annotation.Parse(id); err == nil && p.Attribute != "" {
			out[i] = p.Attribute
			continue
		}

		out[i] = strings.ReplaceAll(id, ":", "_")
	}

	return out
}

package exporter

import (
	"fmt"
	"strings"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// VRTOptions configures one registered VRT instance.
type VRTOptions struct {
	// TokenSpan is the span every column's values are keyed to, e.g.
	// "segment.token".
	TokenSpan string
	// SentenceSpan, if set, inserts a blank line between sentences
	// (the classic corpus-workbench "vertical" format convention).
	SentenceSpan string
	// Columns lists the per-token attribute identifiers to emit, in
	// column order.
	Columns    []string
	ExportPath string
}

// NewVRT registers an exporter for the corpus-workbench "vertical"
// format named in spec.md section 1: one token per line, tab-separated
// attribute columns, a blank line between sentences.
func NewVRT(opts VRTOptions) registry.Function {
	inputs := []registry.Descriptor{registry.Text(), registry.SourceFilename()}
	for _, id := range opts.Columns {
		inputs = append(inputs, registry.ExportInput(id))
	}

	if opts.SentenceSpan != "" {
		inputs = append(inputs, registry.Annotation(opts.SentenceSpan))
	}

	return registry.Function{
		ID:          "vrt_export:tokens",
		Role:        registry.RoleExporter,
		Description: "Renders per-token annotations as tab-separated corpus-workbench vertical text",
		Signature: registry.Signature{
			Inputs:  inputs,
			Outputs: []registry.Descriptor{registry.Export(opts.ExportPath)},
		},
		Run: func(rc *registry.RunContext) error {
			data, err := renderVRT(rc.WorkDir, opts)
			if err != nil {
				return err
			}

			path := expandTemplate(opts.ExportPath, rc.SourceFile, "")

			return writeExportFile(path, data)
		},
	}
}

func renderVRT(wd *storage.WorkDir, opts VRTOptions) ([]byte, error) {
	tokenSpans, err := wd.ReadSpans(opts.TokenSpan)
	if err != nil {
		return nil, fmt.Errorf("reading token spans: %w", err)
	}

	cols, err := ReadColumns(wd, opts.Columns)
	if err != nil {
		return nil, err
	}

	var sentenceSpans []storage.Span

	if opts.SentenceSpan != "" {
		sentenceSpans, err = wd.ReadSpans(opts.SentenceSpan)
		if err != nil {
			return nil, fmt.Errorf("reading sentence spans: %w", err)
		}
	}

	sentenceOf := map[int]int{}

	if len(sentenceSpans) > 0 {
		childrenOf, _ := storage.ParentChild(sentenceSpans, tokenSpans)
		for sIdx, tokIdxs := range childrenOf {
			for _, tIdx := range tokIdxs {
				sentenceOf[tIdx] = sIdx
			}
		}
	}

	var sb strings.Builder

	lastSentence := -1

	for i := range tokenSpans {
		if len(sentenceSpans) > 0 {
			s, ok := sentenceOf[i]
			if ok && s != lastSentence && lastSentence != -1 {
				sb.WriteByte('\n')
			}

			if ok {
				lastSentence = s
			}
		}

		values := make([]string, len(cols))
		for c, col := range cols {
			if i < len(col.Values) {
				values[c] = col.Values[i]
			} else {
				values[c] = storage.Undefined
			}
		}

		sb.WriteString(strings.Join(values, "\t"))
		sb.WriteByte('\n')
	}

	return []byte(sb.String()), nil
}

package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// CoNLLUOptions configures one registered CoNLLU instance. Every field
// names an attribute identifier under TokenSpan; the ten fixed CoNLL-U
// columns (ID, FORM, LEMMA, UPOS, XPOS, FEATS, HEAD, DEPREL, DEPS, MISC)
// are filled from these, "_" where unset, per the Universal Dependencies
// format named in spec.md section 1.
type CoNLLUOptions struct {
	TokenSpan    string
	SentenceSpan string
	Form         string
	Lemma        string
	UPOS         string
	XPOS         string
	Feats        string
	Head         string // attribute holding the 1-based index of the head token within its sentence, "0" for root
	Deprel       string
	ExportPath   string
}

const conlluEmpty = "_"

// NewCoNLLU registers an exporter for the Universal Dependencies
// CoNLL-U format named in spec.md section 1.
func NewCoNLLU(opts CoNLLUOptions) registry.Function {
	inputs := []registry.Descriptor{
		registry.Text(),
		registry.SourceFilename(),
		registry.Annotation(opts.SentenceSpan),
	}

	for _, id := range []string{opts.Form, opts.Lemma, opts.UPOS, opts.XPOS, opts.Feats, opts.Head, opts.Deprel} {
		if id != "" {
			inputs = append(inputs, registry.ExportInput(id))
		}
	}

	return registry.Function{
		ID:          "conllu_export:sentences",
		Role:        registry.RoleExporter,
		Description: "Renders token and dependency annotations as CoNLL-U",
		Signature: registry.Signature{
			Inputs:  inputs,
			Outputs: []registry.Descriptor{registry.Export(opts.ExportPath)},
		},
		Run: func(rc *registry.RunContext) error {
			data, err := renderCoNLLU(rc.WorkDir, opts)
			if err != nil {
				return err
			}

			path := expandTemplate(opts.ExportPath, rc.SourceFile, "")

			return writeExportFile(path, data)
		},
	}
}

func renderCoNLLU(wd *storage.WorkDir, opts CoNLLUOptions) ([]byte, error) {
	tokenSpans, err := wd.ReadSpans(opts.TokenSpan)
	if err != nil {
		return nil, fmt.Errorf("reading token spans: %w", err)
	}

	sentenceSpans, err := wd.ReadSpans(opts.SentenceSpan)
	if err != nil {
		return nil, fmt.Errorf("reading sentence spans: %w", err)
	}

	column := func(id string) []string {
		if id == "" {
			return nil
		}

		cols, err := ReadColumns(wd, []string{id})
		if err != nil || len(cols) == 0 {
			return nil
		}

		return cols[0].Values
	}

	forms := column(opts.Form)
	if forms == nil {
		text, err := importer.ReadText(wd)
		if err != nil {
			return nil, fmt.Errorf("reading text for FORM column: %w", err)
		}

		forms = tokenTextValues(text, tokenSpans)
	}

	lemmas := column(opts.Lemma)
	upos := column(opts.UPOS)
	xpos := column(opts.XPOS)
	feats := column(opts.Feats)
	heads := column(opts.Head)
	deprels := column(opts.Deprel)

	childrenOf, _ := storage.ParentChild(sentenceSpans, tokenSpans)

	var sb strings.Builder

	for sIdx := range sentenceSpans {
		tokIdxs := childrenOf[sIdx]

		for localID, tIdx := range tokIdxs {
			fields := []string{
				strconv.Itoa(localID + 1),
				valueOrEmpty(forms, tIdx),
				valueOrEmpty(lemmas, tIdx),
				valueOrEmpty(upos, tIdx),
				valueOrEmpty(xpos, tIdx),
				valueOrEmpty(feats, tIdx),
				valueOrEmpty(heads, tIdx),
				valueOrEmpty(deprels, tIdx),
				conlluEmpty,
				conlluEmpty,
			}

			sb.WriteString(strings.Join(fields, "\t"))
			sb.WriteByte('\n')
		}

		sb.WriteByte('\n')
	}

	return []byte(sb.String()), nil
}

// tokenTextValues slices text at each token span's rune offsets, the
// FORM column's fallback source when no explicit Form attribute is
// configured.
func tokenTextValues(text string, spans []storage.Span) []string {
	runes := []rune(text)
	out := make([]string, len(spans))

	for i, sp := range spans {
		out[i] = string(runes[sp.Start:sp.End])
	}

	return out
}

func valueOrEmpty(values []string, idx int) string {
	if idx < 0 || idx >= len(values) || values[idx] == storage.Undefined {
		return conlluEmpty
	}

	return values[idx]
}

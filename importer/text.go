package importer

import (
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// TextKey is the reserved data-annotation name under which the corpus
// text of one source file is stored (spec.md section 4.7: "Corpus text:
// UTF-8 string per file produced by the importer").
const TextKey = "@text"

// EncodingKey is the data annotation recording the source file's
// detected original encoding, per SPEC_FULL.md's data-model supplement.
const EncodingKey = "misc.encoding"

// WriteText stores corpus text for a source file. Every importer in this
// package calls it exactly once per invocation.
func WriteText(wd *storage.WorkDir, text string) error {
	return wd.WriteData(TextKey, []byte(text))
}

// ReadText reads back the corpus text written by WriteText. Annotators
// and exporters needing raw character data (tokenizers, span-to-text
// rendering) call this rather than re-parsing the source file.
func ReadText(wd *storage.WorkDir) (string, error) {
	b, err := wd.ReadData(TextKey)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// NewPlainText registers the trivial single-text-root importer of
// spec.md section 6: the entire source file becomes the corpus text and
// a single "text" span covering it.
func NewPlainText() registry.Function {
	return registry.Function{
		ID:          "text_import:parse",
		Role:        registry.RoleImporter,
		Description: "Imports a source file as plain text with a single root <text> span",
		Signature: registry.Signature{
			Outputs: []registry.Descriptor{
				registry.Output("text_import.text", "text"),
			},
		},
		Run: func(rc *registry.RunContext) error {
			raw, encoding, err := readSourceFile(rc.SourcePath)
			if err != nil {
				return err
			}

			text := normalizeToUTF8(raw, encoding)

			if err := WriteText(rc.WorkDir, text); err != nil {
				return err
			}

			if err := rc.WorkDir.WriteData(EncodingKey, []byte(encoding)); err != nil {
				return err
			}

			return rc.WorkDir.WriteSpans("text_import.text", []storage.Span{
				{Start: 0, End: uint64(len([]rune(text)))},
			})
		},
	}
}

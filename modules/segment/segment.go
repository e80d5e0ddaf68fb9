package segment

import (
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// NewToken registers the word/token boundary annotator, the "segment:token"
// function spec.md section 3's examples key every subsequent per-token
// annotation to.
func NewToken() registry.Function {
	return registry.Function{
		ID:          "segment:token",
		Role:        registry.RoleAnnotator,
		Description: "Splits corpus text into tokens along Unicode word boundaries",
		Signature: registry.Signature{
			Inputs:  []registry.Descriptor{registry.Text()},
			Outputs: []registry.Descriptor{registry.Output("segment.token", "token")},
		},
		Run: func(rc *registry.RunContext) error {
			text, err := importer.ReadText(rc.WorkDir)
			if err != nil {
				return err
			}

			return rc.WorkDir.WriteSpans("segment.token", wordSpans(text))
		},
	}
}

// NewSentence registers the sentence-boundary annotator.
func NewSentence() registry.Function {
	return registry.Function{
		ID:          "segment:sentence",
		Role:        registry.RoleAnnotator,
		Description: "Splits corpus text into sentences along Unicode sentence boundaries",
		Signature: registry.Signature{
			Inputs:  []registry.Descriptor{registry.Text()},
			Outputs: []registry.Descriptor{registry.Output("segment.sentence", "sentence")},
		},
		Run: func(rc *registry.RunContext) error {
			text, err := importer.ReadText(rc.WorkDir)
			if err != nil {
				return err
			}

			return rc.WorkDir.WriteSpans("segment.sentence", sentenceSpans(text))
		},
	}
}

// wordSpans walks text with a UAX #29 word-boundary segmenter and turns
// each non-whitespace segment into a character-offset span. Spans are
// character (rune) offsets per spec.md section 3, while the segmenter
// itself walks the UTF-8 byte encoding, so offsets are accumulated in
// runes as each segment is consumed rather than converted after the fact.
func wordSpans(text string) []storage.Span {
	seg := words.FromBytes([]byte(text))

	var spans []storage.Span

	var runeOffset uint64

	for seg.Next() {
		value := seg.Value()
		runeLen := uint64(utf8.RuneCount(value))

		if hasContent(value) {
			spans = append(spans, storage.Span{Start: runeOffset, End: runeOffset + runeLen})
		}

		runeOffset += runeLen
	}

	return spans
}

// sentenceSpans is wordSpans' sentence-boundary counterpart.
func sentenceSpans(text string) []storage.Span {
	seg := sentences.FromBytes([]byte(text))

	var spans []storage.Span

	var runeOffset uint64

	for seg.Next() {
		value := seg.Value()
		runeLen := uint64(utf8.RuneCount(value))

		if hasContent(value) {
			spans = append(spans, storage.Span{Start: runeOffset, End: runeOffset + runeLen})
		}

		runeOffset += runeLen
	}

	return spans
}

// hasContent reports whether a segmenter-reported segment is more than
// pure whitespace; UAX #29 reports the whitespace between words/sentences
// as its own segment, and spec.md section 3 spans describe content, not
// separators.
func hasContent(b []byte) bool {
	for _, r := range string(b) {
		if !unicode.IsSpace(r) {
			return true
		}
	}

	return false
}

package readability

import (
	"strconv"
	"unicode/utf8"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// AnnotateOptions configures one registered readability instance.
type AnnotateOptions struct {
	TokenSpan    string
	SentenceSpan string
}

// NewAnnotate registers an annotator producing "readability.lix" on
// opts.SentenceSpan: the LIX score, words-per-sentence plus the percentage
// of long words (more than six characters), rounded to the nearest
// integer, the classic Swedish-school readability metric.
func NewAnnotate(opts AnnotateOptions) registry.Function {
	return registry.Function{
		ID:          "readability:annotate",
		Role:        registry.RoleAnnotator,
		Description: "Computes the LIX readability score for each sentence",
		Signature: registry.Signature{
			Inputs: []registry.Descriptor{
				registry.Text(),
				registry.Annotation(opts.TokenSpan),
				registry.Annotation(opts.SentenceSpan),
			},
			Outputs: []registry.Descriptor{
				registry.Output(opts.SentenceSpan+":readability.lix", ""),
			},
		},
		Run: func(rc *registry.RunContext) error {
			text, err := importer.ReadText(rc.WorkDir)
			if err != nil {
				return err
			}

			tokenSpans, err := rc.WorkDir.ReadSpans(opts.TokenSpan)
			if err != nil {
				return err
			}

			sentenceSpans, err := rc.WorkDir.ReadSpans(opts.SentenceSpan)
			if err != nil {
				return err
			}

			childrenOf, _ := storage.ParentChild(sentenceSpans, tokenSpans)

			runes := []rune(text)

			scores := make([]string, len(sentenceSpans))

			for sIdx := range sentenceSpans {
				tokIdxs := childrenOf[sIdx]
				scores[sIdx] = strconv.Itoa(lix(runes, tokenSpans, tokIdxs))
			}

			return rc.WorkDir.WriteAttribute(opts.SentenceSpan, "readability.lix", scores, storage.AttributeOptions{})
		},
	}
}

// lix computes round(words + 100*longWords/words) over one sentence's
// token indices, 0 for an empty sentence.
func lix(runes []rune, tokenSpans []storage.Span, tokIdxs []int) int {
	words := len(tokIdxs)
	if words == 0 {
		return 0
	}

	var longWords int

	for _, idx := range tokIdxs {
		sp := tokenSpans[idx]
		if utf8.RuneCountInString(string(runes[sp.Start:sp.End])) > 6 {
			longWords++
		}
	}

	return words + (100*longWords+words/2)/words
}

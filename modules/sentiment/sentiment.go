package sentiment

import (
	"fmt"
	"strings"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
)

// DataName is the Data descriptor identifier this module writes.
const DataName = "sentiment.score"

// polarity is a small fixed Swedish wordlist; a production sentiment
// annotator would score against a real lexicon or model.
var polarity = map[string]int{
	"bra":     1,
	"snabb":   1,
	"fin":     1,
	"dålig":   -1,
	"långsam": -1,
	"trasig":  -1,
}

// AnnotateOptions configures one registered sentiment-summary instance.
type AnnotateOptions struct {
	TokenSpan string
}

// NewAnnotate registers a per-file annotator that scores the file's text
// against the built-in polarity wordlist and writes the
// positive/negative/neutral counts as a Data blob (spec.md section 4.3's
// Data descriptor: auxiliary per-file output that is not itself a
// span/attribute pair).
func NewAnnotate(opts AnnotateOptions) registry.Function {
	return registry.Function{
		ID:          "sentiment:annotate",
		Role:        registry.RoleAnnotator,
		Description: "Scores a file's tokens against a fixed polarity wordlist",
		Signature: registry.Signature{
			Inputs: []registry.Descriptor{
				registry.Text(),
				registry.Annotation(opts.TokenSpan),
			},
			Outputs: []registry.Descriptor{registry.Data(DataName, false)},
		},
		Run: func(rc *registry.RunContext) error {
			text, err := importer.ReadText(rc.WorkDir)
			if err != nil {
				return err
			}

			spans, err := rc.WorkDir.ReadSpans(opts.TokenSpan)
			if err != nil {
				return err
			}

			runes := []rune(text)

			var positive, negative, neutral int

			for _, sp := range spans {
				form := strings.ToLower(string(runes[sp.Start:sp.End]))

				switch {
				case polarity[form] > 0:
					positive++
				case polarity[form] < 0:
					negative++
				default:
					neutral++
				}
			}

			summary := fmt.Sprintf("positive\t%d\nnegative\t%d\nneutral\t%d\n", positive, negative, neutral)

			return rc.WorkDir.WriteData(DataName, []byte(summary))
		},
	}
}

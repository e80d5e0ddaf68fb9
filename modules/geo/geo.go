package geo

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
)

// DataName is the Data descriptor identifier this module writes.
const DataName = "geo.locations"

type place struct {
	lat, lon float64
}

// gazetteer is a small, fixed set of Swedish place names; a production
// geotagger would resolve against a real gazetteer service, well outside
// this module's concern.
var gazetteer = map[string]place{
	"stockholm": {59.3293, 18.0686},
	"göteborg":  {57.7089, 11.9746},
	"malmö":     {55.6050, 13.0038},
	"uppsala":   {59.8586, 17.6389},
}

// AnnotateOptions configures one registered geotagging instance.
type AnnotateOptions struct {
	TokenSpan string
}

// NewAnnotate registers a per-file annotator that scans opts.TokenSpan's
// tokens against the built-in gazetteer and writes every hit, one
// "token\tlat\tlon" line per match, as a Data blob (spec.md section 4.3's
// Data descriptor: auxiliary per-file output that is not itself a
// span/attribute pair).
func NewAnnotate(opts AnnotateOptions) registry.Function {
	return registry.Function{
		ID:          "geo:annotate",
		Role:        registry.RoleAnnotator,
		Description: "Looks up tokens in a small place-name gazetteer",
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

			var lines []string

			for _, sp := range spans {
				form := string(runes[sp.Start:sp.End])

				p, ok := gazetteer[strings.ToLower(form)]
				if !ok {
					continue
				}

				lines = append(lines, form+"\t"+
					strconv.FormatFloat(p.lat, 'f', 4, 64)+"\t"+
					strconv.FormatFloat(p.lon, 'f', 4, 64))
			}

			sort.Strings(lines)

			return rc.WorkDir.WriteData(DataName, []byte(strings.Join(lines, "\n")))
		},
	}
}

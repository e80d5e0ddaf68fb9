package exporter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spraakbanken/sparv/annotation"
	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// FrequencyListOptions configures one registered FrequencyList
// instance.
type FrequencyListOptions struct {
	Word       string // attribute identifier, or token span identifier whose text is used, for the surface form column
	Lemma      string // optional attribute identifier for the lemma column
	POS        string // optional attribute identifier for the part-of-speech column
	ExportPath string // corpus-scoped, no {file} placeholder
}

type freqKey struct {
	word, lemma, pos string
}

// NewFrequencyList registers a corpus-scoped exporter aggregating
// word/lemma/POS frequency counts across every source file (spec.md
// section 4.3's corpus-scoped exporter, exercised here for the
// frequency-list export named in spec.md section 1). Grounded on
// registry's corpus-scoped Task contract (graph.go's isCorpusScoped):
// the function receives every file's work directory through
// RunContext.Files/WorkDirFor rather than a single RunContext.WorkDir.
func NewFrequencyList(opts FrequencyListOptions) registry.Function {
	inputs := []registry.Descriptor{registry.AllSourceFilenames(), registry.AnnotationAllFiles(opts.Word)}

	for _, id := range []string{opts.Lemma, opts.POS} {
		if id != "" {
			inputs = append(inputs, registry.AnnotationAllFiles(id))
		}
	}

	return registry.Function{
		ID:          "freq_export:wordlist",
		Role:        registry.RoleExporter,
		Description: "Aggregates word/lemma/POS frequency counts across the whole corpus",
		Signature: registry.Signature{
			Inputs:  inputs,
			Outputs: []registry.Descriptor{registry.Export(opts.ExportPath)},
		},
		Run: func(rc *registry.RunContext) error {
			counts := map[freqKey]int{}
			var order []freqKey

			for _, file := range rc.Files {
				wd := rc.WorkDirFor(file)
				if wd == nil {
					continue
				}

				if err := accumulateFrequencies(wd, opts, counts, &order); err != nil {
					return fmt.Errorf("file %s: %w", file, err)
				}
			}

			data := renderFrequencyList(opts, counts, order)

			return writeExportFile(opts.ExportPath, data)
		},
	}
}

func accumulateFrequencies(wd *storage.WorkDir, opts FrequencyListOptions, counts map[freqKey]int, order *[]freqKey) error {
	wordParsed, err := annotation.Parse(opts.Word)
	if err != nil {
		return err
	}

	var words []string

	if wordParsed.Attribute == "" {
		text, err := importer.ReadText(wd)
		if err != nil {
			return err
		}

		spans, err := wd.ReadSpans(opts.Word)
		if err != nil {
			return fmt.Errorf("reading %s: %w", opts.Word, err)
		}

		words = tokenTextValues(text, spans)
	} else if words, err = wd.ReadAttribute(wordParsed.BaseSpan, wordParsed.Attribute, storage.AttributeOptions{}); err != nil {
		return fmt.Errorf("reading %s: %w", opts.Word, err)
	}

	lemmas := attributeOrBlank(wd, opts.Lemma, len(words))
	poses := attributeOrBlank(wd, opts.POS, len(words))

	for i, word := range words {
		key := freqKey{word: word, lemma: lemmas[i], pos: poses[i]}
		if _, ok := counts[key]; !ok {
			*order = append(*order, key)
		}

		counts[key]++
	}

	return nil
}

func attributeOrBlank(wd *storage.WorkDir, identifier string, n int) []string {
	out := make([]string, n)

	if identifier == "" {
		return out
	}

	p, err := annotation.Parse(identifier)
	if err != nil {
		return out
	}

	values, err := wd.ReadAttribute(p.BaseSpan, p.Attribute, storage.AttributeOptions{})
	if err != nil {
		return out
	}

	for i := range out {
		if i < len(values) {
			out[i] = values[i]
		}
	}

	return out
}

// renderFrequencyList writes one tab-separated row per distinct
// (word, lemma, pos) combination, sorted by descending count and then
// alphabetically for a stable tie order.
func renderFrequencyList(opts FrequencyListOptions, counts map[freqKey]int, order []freqKey) []byte {
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}

		return order[i].word < order[j].word
	})

	var sb strings.Builder

	header := []string{"word"}
	if opts.Lemma != "" {
		header = append(header, "lemma")
	}

	if opts.POS != "" {
		header = append(header, "pos")
	}

	header = append(header, "count")
	sb.WriteString(strings.Join(header, "\t"))
	sb.WriteByte('\n')

	for _, k := range order {
		row := []string{k.word}
		if opts.Lemma != "" {
			row = append(row, k.lemma)
		}

		if opts.POS != "" {
			row = append(row, k.pos)
		}

		row = append(row, strconv.Itoa(counts[k]))
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteByte('\n')
	}

	return []byte(sb.String())
}

package lexical

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// DefaultModelPath is the lexicon file's path under the shared model
// directory (spec.md section 4.8, "Model: ... shared across corpora").
const DefaultModelPath = "saldo/lexicon.yaml"

// Entry is one word form's lexicon record. A form can map to more than
// one Entry (homographs); the annotator keeps only the first, in lexicon
// order.
type Entry struct {
	Baseform string `yaml:"baseform"`
	Lemgram  string `yaml:"lemgram"`
	Compwf   string `yaml:"compwf"`
	Sense    string `yaml:"sense"`
}

// Lexicon maps a lowercased word form to its candidate entries.
type Lexicon map[string][]Entry

// seedEntries is the small, built-in word list the model builder expands
// into a lexicon file. A production lexicon is a multi-gigabyte external
// resource well outside this module's concern (spec.md section 1 names
// "lexicon-based lemmatization" as the annotator's job, not lexicon
// acquisition); this seed exists so the annotator has something concrete
// and deterministic to look up without a network fetch.
var seedEntries = Lexicon{
	"är":     {{Baseform: "vara", Lemgram: "vara..v.1", Sense: "vara..1"}},
	"var":    {{Baseform: "vara", Lemgram: "vara..v.1", Sense: "vara..1"}},
	"och":    {{Baseform: "och", Lemgram: "och..kn.1", Sense: "och..1"}},
	"att":    {{Baseform: "att", Lemgram: "att..ie.1", Sense: "att..1"}},
	"inte":   {{Baseform: "inte", Lemgram: "inte..ab.1", Sense: "inte..1"}},
	"hund":   {{Baseform: "hund", Lemgram: "hund..nn.1", Sense: "hund..1"}},
	"hunden": {{Baseform: "hund", Lemgram: "hund..nn.1", Sense: "hund..1"}},
	"hundar": {{Baseform: "hund", Lemgram: "hund..nn.1", Sense: "hund..1"}},
	"bil":    {{Baseform: "bil", Lemgram: "bil..nn.1", Sense: "bil..1"}},
	"bilen":  {{Baseform: "bil", Lemgram: "bil..nn.1", Sense: "bil..1"}},
	"bilbesiktning": {
		{Baseform: "bilbesiktning", Lemgram: "bil..nn.1+besiktning..nn.1", Compwf: "bil besiktning", Sense: "bilbesiktning..1"},
	},
}

// NewBuildModel registers the modelbuilder that materializes the lexicon
// file under modelPath (empty defaults to DefaultModelPath).
func NewBuildModel(modelPath string) registry.Function {
	if modelPath == "" {
		modelPath = DefaultModelPath
	}

	return registry.Function{
		ID:          "saldo:build_model",
		Role:        registry.RoleModelbuilder,
		Description: "Builds the SALDO-style lexicon model",
		Signature: registry.Signature{
			Outputs: []registry.Descriptor{registry.ModelOutput(modelPath)},
		},
		Params: map[string]registry.ParamSpec{
			"model_path": {
				Description: "lexicon file path under the shared model directory",
				Default:     modelPath,
			},
		},
		Run: func(rc *registry.RunContext) error {
			data, err := yaml.Marshal(seedEntries)
			if err != nil {
				return err
			}

			path := filepath.Join(rc.ModelDir, modelPath)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}

			return os.WriteFile(path, data, 0o644)
		},
	}
}

// AnnotateOptions configures one registered lexicon-lookup instance.
type AnnotateOptions struct {
	// TokenSpan is the span every lookup is keyed to, e.g. "segment.token".
	TokenSpan string
	// ModelPath is the lexicon file's path under the model directory;
	// empty defaults to DefaultModelPath.
	ModelPath string
}

// NewAnnotate registers the lexicon-lookup annotator producing
// "saldo.baseform"/"saldo.lemgram"/"saldo.compwf"/"saldo.sense" attributes
// on opts.TokenSpan, the morphological-analysis scenario of spec.md
// section 8 ("<token>:saldo.compwf").
func NewAnnotate(opts AnnotateOptions) registry.Function {
	modelPath := opts.ModelPath
	if modelPath == "" {
		modelPath = DefaultModelPath
	}

	return registry.Function{
		ID:          "saldo:annotate",
		Role:        registry.RoleAnnotator,
		Description: "Looks up each token's word form in the SALDO-style lexicon",
		Signature: registry.Signature{
			Inputs: []registry.Descriptor{
				registry.Text(),
				registry.Annotation(opts.TokenSpan),
				registry.Model(modelPath),
			},
			Outputs: []registry.Descriptor{
				registry.Output(opts.TokenSpan+":saldo.baseform", ""),
				registry.Output(opts.TokenSpan+":saldo.lemgram", ""),
				registry.Output(opts.TokenSpan+":saldo.compwf", ""),
				registry.Output(opts.TokenSpan+":saldo.sense", ""),
			},
		},
		Params: map[string]registry.ParamSpec{
			"model_path": {
				Description: "lexicon file path under the shared model directory",
				Default:     modelPath,
			},
		},
		Run: func(rc *registry.RunContext) error {
			lex, err := loadLexicon(filepath.Join(rc.ModelDir, modelPath))
			if err != nil {
				return err
			}

			text, err := importer.ReadText(rc.WorkDir)
			if err != nil {
				return err
			}

			spans, err := rc.WorkDir.ReadSpans(opts.TokenSpan)
			if err != nil {
				return err
			}

			runes := []rune(text)

			baseforms := make([]string, len(spans))
			lemgrams := make([]string, len(spans))
			compwfs := make([]string, len(spans))
			senses := make([]string, len(spans))

			for i, sp := range spans {
				form := strings.ToLower(string(runes[sp.Start:sp.End]))

				entries := lex[form]
				if len(entries) == 0 {
					baseforms[i] = storage.Undefined
					lemgrams[i] = storage.Undefined
					compwfs[i] = storage.Undefined
					senses[i] = storage.Undefined

					continue
				}

				e := entries[0]
				baseforms[i] = orUndefined(e.Baseform)
				lemgrams[i] = orUndefined(e.Lemgram)
				compwfs[i] = orUndefined(e.Compwf)
				senses[i] = orUndefined(e.Sense)
			}

			tokenSpan := opts.TokenSpan

			if err := rc.WorkDir.WriteAttribute(tokenSpan, "saldo.baseform", baseforms, storage.AttributeOptions{}); err != nil {
				return err
			}

			if err := rc.WorkDir.WriteAttribute(tokenSpan, "saldo.lemgram", lemgrams, storage.AttributeOptions{}); err != nil {
				return err
			}

			if err := rc.WorkDir.WriteAttribute(tokenSpan, "saldo.compwf", compwfs, storage.AttributeOptions{}); err != nil {
				return err
			}

			return rc.WorkDir.WriteAttribute(tokenSpan, "saldo.sense", senses, storage.AttributeOptions{})
		},
	}
}

func orUndefined(s string) string {
	if s == "" {
		return storage.Undefined
	}

	return s
}

func loadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, err
	}

	return lex, nil
}

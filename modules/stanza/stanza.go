package stanza

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spraakbanken/sparv/config"
	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/sparverr"
	"github.com/spraakbanken/sparv/storage"
)

// DefaultModelPath is the tagger model's path under the shared model
// directory.
const DefaultModelPath = "stanza/model.bin"

// BinaryName is the Binary descriptor identifier this module declares;
// a corpus without a "stanza" entry in its resolved binary paths cannot
// run the annotator (spec.md section 8 scenario 3, "a rule whose binary
// is unavailable is disabled rather than silently skipped").
const BinaryName = "stanza"

// NewBuildModel registers the modelbuilder that materializes the tagger
// model file under modelPath (empty defaults to DefaultModelPath). The
// "model" is a placeholder marker, not trained weights: spec.md section 1
// excludes reimplementing the tagger itself, so this only needs to exist
// and be fingerprinted, not be loadable by anything real.
func NewBuildModel(modelPath string) registry.Function {
	if modelPath == "" {
		modelPath = DefaultModelPath
	}

	return registry.Function{
		ID:          "stanza:build_model",
		Role:        registry.RoleModelbuilder,
		Description: "Builds the placeholder Stanza-style tagger model",
		Signature: registry.Signature{
			Outputs: []registry.Descriptor{registry.ModelOutput(modelPath)},
		},
		Params: map[string]registry.ParamSpec{
			"model_path": {
				Description: "tagger model path under the shared model directory",
				Default:     modelPath,
			},
		},
		Run: func(rc *registry.RunContext) error {
			path := filepath.Join(rc.ModelDir, modelPath)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}

			return os.WriteFile(path, []byte("stanza-model-v1\n"), 0o644)
		},
	}
}

// AnnotateOptions configures one registered tagger instance.
type AnnotateOptions struct {
	TokenSpan    string
	SentenceSpan string
	// ModelPath is the tagger model's path under the model directory;
	// empty defaults to DefaultModelPath.
	ModelPath string
}

// warmHandle is the value NewAnnotate's PreloadFunc returns; there is no
// real subprocess to keep alive, so it only records that warming ran.
type warmHandle struct{}

// NewAnnotate registers a per-token tagging/dependency-parsing stand-in
// producing "stanza.pos"/"stanza.baseform"/"stanza.dephead"/"stanza.deprel"
// attributes on opts.TokenSpan. It declares both a Binary and a Model
// input, exercising the descriptor kinds a real subprocess-backed,
// preloadable annotator would (spec.md section 4.3's Binary/Model/
// preloader contracts) without invoking any actual tool.
func NewAnnotate(opts AnnotateOptions) registry.Function {
	modelPath := opts.ModelPath
	if modelPath == "" {
		modelPath = DefaultModelPath
	}

	return registry.Function{
		ID:          "stanza:annotate",
		Role:        registry.RoleAnnotator,
		Description: "Tags each token's part of speech and a trivial left-to-right dependency chain",
		Signature: registry.Signature{
			Inputs: []registry.Descriptor{
				registry.Text(),
				registry.Annotation(opts.TokenSpan),
				registry.Annotation(opts.SentenceSpan),
				registry.Binary(BinaryName),
				registry.Model(modelPath),
			},
			Outputs: []registry.Descriptor{
				registry.Output(opts.TokenSpan+":stanza.pos", ""),
				registry.Output(opts.TokenSpan+":stanza.baseform", ""),
				registry.Output(opts.TokenSpan+":stanza.dephead", ""),
				registry.Output(opts.TokenSpan+":stanza.deprel", ""),
			},
		},
		Params: map[string]registry.ParamSpec{
			"model_path": {
				Description: "tagger model path under the shared model directory",
				Default:     modelPath,
			},
		},
		Preload: func(_ *config.Config) (any, error) {
			return warmHandle{}, nil
		},
		Run: func(rc *registry.RunContext) error {
			if _, ok := rc.BinaryPaths[BinaryName]; !ok {
				return sparverr.MissingPrereq("stanza:annotate", rc.SourceFile,
					fmt.Errorf("binary %q not configured", BinaryName))
			}

			if rc.ModelDir != "" {
				if _, err := os.Stat(filepath.Join(rc.ModelDir, modelPath)); err != nil {
					return sparverr.MissingPrereq("stanza:annotate", rc.SourceFile, err)
				}
			}

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

			pos := make([]string, len(tokenSpans))
			baseforms := make([]string, len(tokenSpans))
			dephead := make([]string, len(tokenSpans))
			deprel := make([]string, len(tokenSpans))

			for sIdx := range sentenceSpans {
				tokIdxs := childrenOf[sIdx]

				for localID, tIdx := range tokIdxs {
					form := string(runes[tokenSpans[tIdx].Start:tokenSpans[tIdx].End])

					pos[tIdx] = guessPOS(form)
					baseforms[tIdx] = strings.ToLower(form)

					if localID == 0 {
						dephead[tIdx] = "0"
						deprel[tIdx] = "root"

						continue
					}

					dephead[tIdx] = strconv.Itoa(localID)
					deprel[tIdx] = "dep"
				}
			}

			if err := rc.WorkDir.WriteAttribute(opts.TokenSpan, "stanza.pos", pos, storage.AttributeOptions{}); err != nil {
				return err
			}

			if err := rc.WorkDir.WriteAttribute(opts.TokenSpan, "stanza.baseform", baseforms, storage.AttributeOptions{}); err != nil {
				return err
			}

			if err := rc.WorkDir.WriteAttribute(opts.TokenSpan, "stanza.dephead", dephead, storage.AttributeOptions{}); err != nil {
				return err
			}

			return rc.WorkDir.WriteAttribute(opts.TokenSpan, "stanza.deprel", deprel, storage.AttributeOptions{})
		},
	}
}

// guessPOS is a deterministic, non-linguistic stand-in for a real
// part-of-speech tagger: capitalized forms are tagged PROPN, purely
// numeric forms NUM, everything else NOUN.
func guessPOS(form string) string {
	if form == "" {
		return storage.Undefined
	}

	if _, err := strconv.Atoi(form); err == nil {
		return "NUM"
	}

	r := []rune(form)[0]
	if strings.ToUpper(string(r)) == string(r) && strings.ToLower(string(r)) != string(r) {
		return "PROPN"
	}

	return "NOUN"
}

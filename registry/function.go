package registry

import (
	"context"

	"github.com/spraakbanken/sparv/config"
	"github.com/spraakbanken/sparv/storage"
)

// RunContext carries everything a Function's Run needs for one invocation:
// the resolved work directory (nil for corpus-scoped tasks, which instead
// use CorpusDir), concrete parameter values, and pipeline context such as
// language and source file name.
type RunContext struct {
	Context     context.Context
	WorkDir     *storage.WorkDir // nil for corpus-scoped tasks
	CorpusDir   *storage.WorkDir // corpus-level data/marker area
	SourceFile  string
	// SourcePath is the absolute path to the raw source file on disk,
	// set for importer invocations (spec.md section 6: "Source files").
	// Empty for ordinary annotators/exporters, which read prior output
	// through WorkDir instead.
	SourcePath string
	Language   string
	Params      map[string]any
	Wildcards   map[string]string // bound wildcard name -> concrete value
	Config      *config.Config
	ModelDir    string
	BinaryPaths map[string]string
	// Files lists every source file in the corpus, for corpus-scoped
	// functions declaring KindAnnotationAllFiles/KindAllSourceFilenames
	// inputs that must iterate every file themselves.
	Files []string
	// WorkDirFor resolves the per-file work directory for one of Files.
	// Set alongside Files; nil for functions that do not need it.
	WorkDirFor func(file string) *storage.WorkDir
}

// RunFunc executes one Function against a resolved RunContext.
type RunFunc func(rc *RunContext) error

// PreloadFunc prepares a long-lived, warm instance of a Function for reuse
// across files (spec.md section 4.8). It returns an opaque handle that
// preload.Server keeps alive; RunContext has no field for it, so Run does
// not receive the handle.
type PreloadFunc func(cfg *config.Config) (any, error)

// Function is one registered unit: importer, annotator, exporter,
// installer, uninstaller, or modelbuilder.
type Function struct {
	// ID is the fully-qualified function id, "module:name".
	ID          string
	Role        Role
	Description string
	// Language restricts this function to the listed ISO 639-3 codes;
	// empty means "all languages".
	Language []string
	// Order resolves ambiguity when multiple functions can produce the
	// same output: lower wins (spec.md section 4.3/4.4).
	Order int
	// Priority is a scheduling hint only. Neither function selection nor
	// the scheduler's dispatch order reads it.
	Priority  int
	Signature Signature
	Params    map[string]ParamSpec
	Run       RunFunc
	Preload   PreloadFunc
	// MaxConcurrent caps simultaneous invocations of this function
	// across the whole run (spec.md section 4.6, "max_concurrent: 1").
	// Zero means unbounded (subject to the global worker pool limit).
	MaxConcurrent int
}

// AppliesToLanguage reports whether f runs for the given ISO 639-3 code.
// An empty Language list means "all languages".
func (f Function) AppliesToLanguage(lang string) bool {
	if len(f.Language) == 0 {
		return true
	}

	for _, l := range f.Language {
		if l == lang {
			return true
		}
	}

	return false
}

// Outputs returns the identifier templates this function produces.
func (f Function) Outputs() []string {
	out := make([]string, 0, len(f.Signature.Outputs))

	for _, d := range f.Signature.Outputs {
		switch d.Kind {
		case KindOutput, KindData, KindMarker, KindModelOutput, KindExport:
			out = append(out, d.Identifier)
		}
	}

	return out
}

// Inputs returns the identifier templates this function consumes.
func (f Function) Inputs() []string {
	in := make([]string, 0, len(f.Signature.Inputs))

	for _, d := range f.Signature.Inputs {
		switch d.Kind {
		case KindAnnotation, KindAnnotationAllFiles, KindData, KindMarker, KindModel, KindExportInput:
			in = append(in, d.Identifier)
		}
	}

	return in
}

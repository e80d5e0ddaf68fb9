package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spraakbanken/sparv/annotation"
	"github.com/spraakbanken/sparv/config"
	"github.com/spraakbanken/sparv/graph"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/resolver"
	"github.com/spraakbanken/sparv/scheduler"
	"github.com/spraakbanken/sparv/sparverr"
	"github.com/spraakbanken/sparv/sparvdir"
	"github.com/spraakbanken/sparv/storage"
)

// Pipeline holds everything needed to build and run graphs for one
// corpus: its merged configuration, function registry, resolved class
// bindings, and source file list.
type Pipeline struct {
	Corpus   sparvdir.Corpus
	Config   *config.Config
	Registry *registry.Registry
	Bindings resolver.Bindings

	DataDir  string
	ModelDir string
	Files    []string
	Language string
	Name     string

	Importer registry.Function

	BinaryPaths map[string]string
	Preload     scheduler.Preloader
}

// Options configures Load.
type Options struct {
	// DataDir overrides the Sparv data directory; empty means
	// sparvdir.DataDir()'s default.
	DataDir string
}

// Load reads corpusDir's configuration, resolves class bindings, builds
// the function registry, and discovers its source files.
func Load(corpusDir string, opts Options) (*Pipeline, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		d, err := sparvdir.DataDir()
		if err != nil {
			return nil, err
		}

		dataDir = d
	}

	base := baseRegistry()

	cfg, err := config.Load(corpusDir,
		config.WithDefaultsFile(sparvdir.ConfigDefaultFile(dataDir)),
	)
	if err != nil {
		return nil, err
	}

	rawColumns := cfg.MustStringList("export.annotations")
	if len(rawColumns) == 0 {
		rawColumns = exportColumns
	}

	presetExpanded, err := config.ExpandPresets(rawColumns, config.BuiltinPresets())
	if err != nil {
		return nil, err
	}

	columns, err := annotation.ExpandList(presetExpanded, candidateIdentifiers(base))
	if err != nil {
		return nil, err
	}

	classDefaults := config.ClassBindingsOf(rawColumns, config.BuiltinPresets())
	cfg = cfg.WithClassDefaults(classDefaults)

	bindings, _, err := resolver.Resolve(base, cfg, columns)
	if err != nil {
		return nil, err
	}

	corpus := sparvdir.NewCorpus(corpusDir)
	if err := corpus.EnsureDirs(); err != nil {
		return nil, err
	}

	sourceDir := corpus.SourceDir(cfg.MustString("import.source_dir", ""))

	files, err := discoverSourceFiles(sourceDir)
	if err != nil {
		return nil, err
	}

	importerID := cfg.MustString("import.importer", "text_import:parse")

	importerFn, ok := base.Lookup(importerID)
	if !ok {
		return nil, sparverr.Configf("import.importer", "unknown importer %q", importerID)
	}

	rootSpan := "text_import.text"
	if strings.HasPrefix(importerID, "xml_import") {
		rootSpan = bindings["token"]
	}

	exportRoot := corpus.ExportDir("")
	publishDir := filepath.Join(dataDir, "publish", filepath.Base(corpusDir))

	if err := registerExporters(base, bindings, columns, rootSpan, exportRoot, publishDir); err != nil {
		return nil, err
	}

	binaryPaths, err := discoverBinaries(sparvdir.BinDir(dataDir))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Corpus:      corpus,
		Config:      cfg,
		Registry:    base,
		Bindings:    bindings,
		DataDir:     dataDir,
		ModelDir:    sparvdir.ModelsDir(dataDir),
		Files:       files,
		Language:    cfg.MustString("metadata.language", "swe"),
		Name:        cfg.MustString("metadata.name", filepath.Base(corpusDir)),
		Importer:    importerFn,
		BinaryPaths: binaryPaths,
	}

	return p, nil
}

// discoverBinaries lists dir's entries, mapping each file's base name
// (e.g. "stanza") to its absolute path -- the BinaryPaths a Binary/
// BinaryDir descriptor resolves against (spec.md section 4.5's "binary
// version markers"). A missing bin directory yields an empty, not an
// error, result: most corpora never download any third-party binaries.
func discoverBinaries(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}

		return nil, err
	}

	out := make(map[string]string, len(entries))

	for _, e := range entries {
		out[e.Name()] = filepath.Join(dir, e.Name())
	}

	return out, nil
}

// WorkDirFor returns the work directory for one source file.
func (p *Pipeline) WorkDirFor(file string) *storage.WorkDir {
	return storage.NewWorkDir(p.Corpus.FileWorkDir(file), nil)
}

// CorpusWorkDir returns the corpus-scoped data/marker work directory.
func (p *Pipeline) CorpusWorkDir() *storage.WorkDir {
	return storage.NewWorkDir(p.Corpus.CorpusWorkDir(), nil)
}

// DefaultTargets is every registered exporter's export path template,
// the "build everything this corpus can export" target set used when
// the caller names no explicit target.
func (p *Pipeline) DefaultTargets() []string {
	var out []string

	for _, f := range p.Registry.ByRole(registry.RoleExporter) {
		out = append(out, f.Outputs()...)
	}

	return out
}

// Schemas flattens every registered function's declared Params into
// config.Schema entries namespaced "<function-id>.<param>", for `sparv
// schema`'s JSON Schema output and (eventually) config.ValidateAgainst.
func (p *Pipeline) Schemas() []config.Schema {
	var out []config.Schema

	for _, fn := range p.Registry.All() {
		for name, spec := range fn.Params {
			out = append(out, config.Schema{
				Path:        fn.ID + "." + name,
				Description: spec.Description,
				Default:     spec.Default,
			})
		}
	}

	return out
}

// newScheduler builds a Scheduler sharing p's resolved configuration and
// work directories.
func (p *Pipeline) newScheduler() *scheduler.Scheduler {
	return &scheduler.Scheduler{
		WorkDirFor:  p.WorkDirFor,
		CorpusDir:   p.CorpusWorkDir(),
		Files:       p.Files,
		ModelDir:    p.ModelDir,
		BinaryPaths: p.BinaryPaths,
		Config:      p.Config,
		Language:    p.Language,
		Corpus:      p.Name,
		Preload:     p.Preload,
	}
}

// RunImport runs the configured importer to completion for every source
// file, ahead of any annotation/export graph (see the package doc for
// why this is a separate pass).
func (p *Pipeline) RunImport(ctx context.Context, opts scheduler.Options) (*scheduler.Report, error) {
	outputs := p.Importer.Outputs()
	if len(outputs) == 0 {
		return nil, sparverr.Configf("import.importer",
			"importer %q declares only wildcard outputs and cannot be targeted directly", p.Importer.ID)
	}

	g, err := graph.Build(p.Registry, p.Bindings, []string{outputs[0]}, p.Files)
	if err != nil {
		return nil, err
	}

	return p.newScheduler().Run(ctx, g, opts)
}

// RunModel builds every registered modelbuilder's output, ahead of any
// annotator whose Model input reads it from disk -- like Text/Source,
// registry.Model carries no graph dependency edge (see the package
// doc), so model construction is its own corpus-scoped pass too.
func (p *Pipeline) RunModel(ctx context.Context, opts scheduler.Options) (*scheduler.Report, error) {
	var targets []string

	for _, f := range p.Registry.ByRole(registry.RoleModelbuilder) {
		targets = append(targets, f.Outputs()...)
	}

	if len(targets) == 0 {
		return &scheduler.Report{}, nil
	}

	g, err := graph.Build(p.Registry, p.Bindings, targets, p.Files)
	if err != nil {
		return nil, err
	}

	return p.newScheduler().Run(ctx, g, opts)
}

// BuildGraph resolves targets (DefaultTargets() if empty) against p's
// registry and bindings.
func (p *Pipeline) BuildGraph(targets []string) (*graph.Graph, error) {
	if len(targets) == 0 {
		targets = p.DefaultTargets()
	}

	return graph.Build(p.Registry, p.Bindings, targets, p.Files)
}

// RunTargets builds and runs the graph for targets (DefaultTargets() if
// empty). Callers must have already called RunImport successfully.
func (p *Pipeline) RunTargets(ctx context.Context, targets []string, opts scheduler.Options) (*scheduler.Report, error) {
	g, err := p.BuildGraph(targets)
	if err != nil {
		return nil, err
	}

	return p.newScheduler().Run(ctx, g, opts)
}

// discoverSourceFiles walks dir, returning every regular file's path
// relative to dir, sorted, forward-slash separated (spec.md section 6,
// "Source files").
func discoverSourceFiles(dir string) ([]string, error) {
	var out []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}

			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		out = append(out, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

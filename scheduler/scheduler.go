package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/spraakbanken/sparv/config"
	"github.com/spraakbanken/sparv/graph"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/sparverr"
	"github.com/spraakbanken/sparv/storage"
)

// Preloader lets the scheduler hand a task off to a warm, long-lived
// instance instead of running it inline. A real implementation dials the
// preload socket and checks the fingerprint exchange of spec.md section
// 4.8; returning handled=false falls back to fn.Run(rc) in-process.
type Preloader interface {
	TryDispatch(fn registry.Function, rc *registry.RunContext) (handled bool, err error)
}

// Scheduler walks a [graph.Graph] per spec.md sections 4.6 and 5.
type Scheduler struct {
	// WorkDirFor returns the per-file work directory for a source file.
	WorkDirFor func(file string) *storage.WorkDir
	// CorpusDir is the corpus-level data/marker area for corpus-scoped
	// tasks.
	CorpusDir *storage.WorkDir
	// Files lists every source file in the corpus, handed to
	// corpus-scoped tasks via RunContext.Files.
	Files     []string
	ModelDir  string
	// BinaryPaths maps a declared Binary/BinaryDir identifier to its
	// resolved host path.
	BinaryPaths map[string]string
	Config      *config.Config
	Language    string
	Corpus      string
	// Preload is consulted before inline execution when set and
	// Options.SocketPath is non-empty.
	Preload Preloader
}

// Run executes g's tasks in dependency order under opts. Tasks with no
// unresolved dependency launch immediately; each completion releases its
// dependents' slots, so wall-clock is bounded by the critical path, not
// the sum of all tasks (spec.md section 5).
func (s *Scheduler) Run(ctx context.Context, g *graph.Graph, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tasks := g.Tasks()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rn := &runner{
		sched:      s,
		opts:       opts,
		ctx:        runCtx,
		cancel:     cancel,
		report:     &Report{Durations: map[string]time.Duration{}},
		indegree:   map[string]int{},
		dependents: map[string][]*graph.Task{},
		hashes:     map[string][32]byte{},
		failed:     map[string]bool{},
		sem:        map[string]chan struct{}{},
	}

	for _, t := range tasks {
		rn.indegree[t.ID] = len(t.Deps())

		for _, dep := range t.Deps() {
			rn.dependents[dep.ID] = append(rn.dependents[dep.ID], t)
		}

		if t.Function.MaxConcurrent > 0 {
			rn.sem[t.Function.ID] = make(chan struct{}, t.Function.MaxConcurrent)
		}
	}

	globalSem := make(chan struct{}, workers)

	var wg sync.WaitGroup

	var launch func(t *graph.Task)

	launch = func(t *graph.Task) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			globalSem <- struct{}{}
			defer func() { <-globalSem }()

			rn.execute(t)

			rn.mu.Lock()
			var ready []*graph.Task

			for _, dep := range rn.dependents[t.ID] {
				rn.indegree[dep.ID]--
				if rn.indegree[dep.ID] == 0 {
					ready = append(ready, dep)
				}
			}
			rn.mu.Unlock()

			for _, r := range ready {
				launch(r)
			}
		}()
	}

	for _, t := range tasks {
		if rn.indegree[t.ID] == 0 {
			launch(t)
		}
	}

	wg.Wait()

	return rn.report, nil
}

type runner struct {
	sched  *Scheduler
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	report     *Report
	indegree   map[string]int
	dependents map[string][]*graph.Task
	hashes     map[string][32]byte
	failed     map[string]bool // task ID -> this task (or an ancestor) failed
	sem        map[string]chan struct{}
}

func (rn *runner) execute(t *graph.Task) {
	select {
	case <-rn.ctx.Done():
		rn.recordSkip(t)

		return
	default:
	}

	rn.mu.Lock()
	ancestorFailed := rn.anyDepFailed(t)
	rn.mu.Unlock()

	if ancestorFailed {
		rn.mu.Lock()
		rn.failed[t.ID] = true
		rn.mu.Unlock()
		rn.recordSkip(t)

		return
	}

	if len(rn.opts.Files) > 0 && t.File != "" {
		selected := false
		for _, f := range rn.opts.Files {
			selected = selected || f == t.File
		}

		if !selected {
			rn.recordSkip(t)

			return
		}
	}

	hash := rn.computeHash(t)

	rn.mu.Lock()
	rn.hashes[t.ID] = hash
	rn.mu.Unlock()

	stale := rn.isStale(t, hash)

	if rn.opts.DryRun {
		rn.mu.Lock()
		if stale {
			rn.report.NotRun = append(rn.report.NotRun, t.ID)
		} else {
			rn.report.Skipped = append(rn.report.Skipped, t.ID)
		}
		rn.mu.Unlock()

		if stale {
			rn.emit(t, StatusNotRun)
		} else {
			rn.emit(t, StatusSkipped)
		}

		return
	}

	if !stale {
		rn.recordSkip(t)

		return
	}

	if sem, ok := rn.sem[t.Function.ID]; ok {
		sem <- struct{}{}
		defer func() { <-sem }()
	}

	rn.emit(t, StatusRunning)

	start := time.Now()
	err := rn.runOne(t, hash)
	elapsed := time.Since(start)

	rn.mu.Lock()
	if rn.opts.Stats {
		rn.report.Durations[t.ID] = elapsed
	}

	if err != nil {
		rn.report.Failed = append(rn.report.Failed, FailedTask{TaskID: t.ID, File: t.File, Rule: t.Function.ID, Err: err})
		rn.failed[t.ID] = true

		if !rn.opts.KeepGoing {
			rn.cancel()
		}
	} else {
		rn.report.Ran = append(rn.report.Ran, t.ID)
	}
	rn.mu.Unlock()

	if err != nil {
		rn.emit(t, StatusFailed)
	} else {
		rn.emit(t, StatusRan)
	}
}

func (rn *runner) recordSkip(t *graph.Task) {
	rn.mu.Lock()
	rn.report.Skipped = append(rn.report.Skipped, t.ID)
	rn.mu.Unlock()
	rn.emit(t, StatusSkipped)
}

// emit forwards a progress Event to Options.Progress, if set.
func (rn *runner) emit(t *graph.Task, status Status) {
	if rn.opts.Progress == nil {
		return
	}

	rn.opts.Progress(Event{TaskID: t.ID, File: t.File, Rule: t.Function.ID, Status: status})
}

func (rn *runner) anyDepFailed(t *graph.Task) bool {
	for _, dep := range t.Deps() {
		if rn.failed[dep.ID] {
			return true
		}
	}

	return false
}

// computeHash derives t's staleness hash from its declared parameters,
// model/binary fingerprints, and its dependencies' already-computed
// hashes (chained rather than re-reading dependency output bytes, so a
// changed upstream parameter propagates without a disk round-trip).
func (rn *runner) computeHash(t *graph.Task) [32]byte {
	rn.mu.Lock()

	inputHashes := make(map[string][]byte, len(t.Inputs))

	for _, in := range t.Inputs {
		for _, dep := range t.Deps() {
			for _, out := range dep.Outputs {
				if out != in {
					continue
				}

				if h, ok := rn.hashes[dep.ID]; ok {
					b := make([]byte, 32)
					copy(b, h[:])
					inputHashes[in] = b
				}
			}
		}
	}

	rn.mu.Unlock()

	params := paramsFor(t.Function, rn.sched.Config)
	mf := modelFingerprint(t.Function, rn.sched.ModelDir)
	bf := binaryFingerprint(t.Function, rn.sched.BinaryPaths)

	return t.Hash(inputHashes, params, mf, bf)
}

func paramsFor(fn registry.Function, cfg *config.Config) map[string]any {
	out := make(map[string]any, len(fn.Params))

	for name, spec := range fn.Params {
		if cfg != nil {
			if v, ok := cfg.Get(fn.ID + "." + name); ok {
				out[name] = v
				continue
			}
		}

		out[name] = spec.Default
	}

	return out
}

func (rn *runner) markerWorkDir(t *graph.Task) *storage.WorkDir {
	if t.File == "" {
		return rn.sched.CorpusDir
	}

	return rn.sched.WorkDirFor(t.File)
}

func (rn *runner) isStale(t *graph.Task, hash [32]byte) bool {
	if rn.opts.Force {
		return true
	}

	wd := rn.markerWorkDir(t)
	if wd == nil {
		return true
	}

	sig, ok := wd.ReadMarker(t.ID)
	if !ok {
		return true
	}

	if rn.opts.RerunIncomplete && len(sig) != len(hash) {
		return true
	}

	return !hashEqual(sig, hash)
}

func hashEqual(sig []byte, hash [32]byte) bool {
	if len(sig) != len(hash) {
		return false
	}

	for i := range hash {
		if sig[i] != hash[i] {
			return false
		}
	}

	return true
}

func (rn *runner) runOne(t *graph.Task, hash [32]byte) error {
	wd := rn.markerWorkDir(t)

	rc := &registry.RunContext{
		Context:     rn.ctx,
		WorkDir:     rn.sched.WorkDirFor(t.File),
		CorpusDir:   rn.sched.CorpusDir,
		SourceFile:  t.File,
		Language:    rn.sched.Language,
		Params:      paramsFor(t.Function, rn.sched.Config),
		Wildcards:   t.Wildcards,
		Config:      rn.sched.Config,
		ModelDir:    rn.sched.ModelDir,
		BinaryPaths: rn.sched.BinaryPaths,
	}

	if t.File == "" {
		rc.WorkDir = nil
		rc.Files = rn.sched.Files
		rc.WorkDirFor = rn.sched.WorkDirFor
	}

	var err error

	handled := false

	if rn.opts.SocketPath != "" && rn.sched.Preload != nil {
		handled, err = rn.sched.Preload.TryDispatch(t.Function, rc)
	}

	if !handled {
		if t.Function.Run == nil {
			return sparverr.TaskFailed(t.Function.ID, t.File, fmt.Errorf("function has no Run"))
		}

		err = t.Function.Run(rc)
	}

	if err != nil {
		return sparverr.TaskFailed(t.Function.ID, t.File, err)
	}

	if wd != nil {
		if merr := wd.WriteMarker(t.ID, hash[:]); merr != nil {
			return sparverr.Internalf("writing completeness marker for %s: %w", t.ID, merr)
		}
	}

	return nil
}

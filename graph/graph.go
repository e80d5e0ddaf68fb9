package graph

import (
	"sort"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/resolver"
	"github.com/spraakbanken/sparv/sparverr"
)

// Graph is the built dependency DAG: a set of [Task] values with wired
// edges, ready for a scheduler to walk.
type Graph struct {
	tasks map[string]*Task
	order []string // insertion order, for deterministic iteration
}

// Tasks returns every task in the graph, in a stable (insertion) order.
func (g *Graph) Tasks() []*Task {
	out := make([]*Task, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.tasks[id])
	}

	return out
}

// Task looks up a task by its stable ID.
func (g *Graph) Task(id string) (*Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

func (g *Graph) getOrCreate(fn registry.Function, file string, wildcards map[string]string) *Task {
	id := taskID(fn.ID, file)

	if t, ok := g.tasks[id]; ok {
		return t
	}

	t := &Task{ID: id, Function: fn, File: file, Wildcards: wildcards}
	g.tasks[id] = t
	g.order = append(g.order, id)

	return t
}

// isCorpusScoped reports whether fn's tasks combine all source files into
// one (spec.md section 4.3: exporters, installers, uninstallers, and
// modelbuilders are corpus-scoped; importers and annotators are per-file).
func isCorpusScoped(fn registry.Function) bool {
	switch fn.Role {
	case registry.RoleExporter, registry.RoleInstaller, registry.RoleUninstaller, registry.RoleModelbuilder:
		return true
	default:
		return false
	}
}

// findProducer resolves a concrete (post-binding) identifier to its unique
// producing function, either directly registered or via a wildcard
// template match. registry.ProducersOf already guarantees at most one
// producer per identifier at a given Order, and Order ties are rejected at
// Register time, so the first candidate (lowest Order) is the answer
// whenever a direct producer exists.
func findProducer(reg *registry.Registry, identifier string) (registry.Function, map[string]string, error) {
	if producers := reg.ProducersOf(identifier); len(producers) > 0 {
		return producers[0], nil, nil
	}

	for _, f := range reg.All() {
		for _, d := range f.Signature.Outputs {
			if len(wildcardNames(d.Identifier)) == 0 {
				continue
			}

			if bound, ok := matchWildcards(d.Identifier, identifier); ok {
				return f, bound, nil
			}
		}
	}

	return registry.Function{}, nil, sparverr.Registryf(identifier, "no function produces %q", identifier)
}

// resolvedInputIdentifiers computes fn's declared input identifiers with
// wildcard bindings substituted and any remaining class reference applied
// through bind.
func resolvedInputIdentifiers(fn registry.Function, wildcards map[string]string, bind resolver.Bindings) ([]string, error) {
	var out []string

	for _, d := range fn.Signature.Inputs {
		switch d.Kind {
		case registry.KindAnnotation, registry.KindAnnotationAllFiles, registry.KindData, registry.KindMarker, registry.KindExportInput:
			id := substituteWildcards(d.Identifier, wildcards)

			resolvedID, err := bind.Apply(id)
			if err != nil {
				return nil, err
			}

			out = append(out, resolvedID)
		}
	}

	return out, nil
}

// Build walks the registry per spec.md section 4.5: targets (plus their
// transitive inputs) are resolved to producing functions, file-scoped
// functions are expanded across files, and edges are wired from each
// task's inputs to their producer tasks. Cycles are reported as a
// Registry error naming the involved identifiers.
func Build(reg *registry.Registry, bind resolver.Bindings, targets []string, files []string) (*Graph, error) {
	g := &Graph{tasks: map[string]*Task{}}

	resolvedTargets, err := bind.ApplyAll(targets)
	if err != nil {
		return nil, err
	}

	producerAt := map[string]map[string]*Task{} // identifier -> file ("" for corpus) -> task

	var registerOutput = func(t *Task, id string) {
		if producerAt[id] == nil {
			producerAt[id] = map[string]*Task{}
		}

		producerAt[id][t.File] = t
	}

	visited := map[string]bool{}
	queue := append([]string(nil), resolvedTargets...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}

		visited[id] = true

		fn, wildcards, err := findProducer(reg, id)
		if err != nil {
			return nil, err
		}

		inputs, err := resolvedInputIdentifiers(fn, wildcards, bind)
		if err != nil {
			return nil, err
		}

		if isCorpusScoped(fn) {
			t := g.getOrCreate(fn, "", wildcards)
			t.addOutput(id)

			for _, in := range inputs {
				t.addInput(in)
				queue = append(queue, in)
			}

			registerOutput(t, id)

			continue
		}

		if len(files) == 0 {
			return nil, sparverr.Registryf(fn.ID, "per-file function %q requires a non-empty source file list", fn.ID)
		}

		for _, file := range files {
			t := g.getOrCreate(fn, file, wildcards)
			t.addOutput(id)

			for _, in := range inputs {
				t.addInput(in)
				queue = append(queue, in)
			}

			registerOutput(t, id)
		}
	}

	if err := wireEdges(g, producerAt, files); err != nil {
		return nil, err
	}

	if cycle := findCycle(g); cycle != nil {
		return nil, sparverr.Registryf("", "dependency cycle: %v", cycle)
	}

	return g, nil
}

// wireEdges connects each task to the producer(s) of its inputs. A
// file-scoped task depends on the same-file producer if one exists, else
// the corpus-scoped producer (e.g. a shared data annotation); a
// corpus-scoped task whose input is itself file-scoped depends on that
// input's producer task across every file (spec.md section 4.5, point 4:
// "exporter tasks that list all source files depend on every per-file
// producer").
func wireEdges(g *Graph, producerAt map[string]map[string]*Task, files []string) error {
	for _, t := range g.Tasks() {
		for _, in := range t.Inputs {
			byFile, ok := producerAt[in]
			if !ok {
				continue // external input (source text, model, binary, config) -- not a task dependency
			}

			if t.File != "" {
				if p, ok := byFile[t.File]; ok {
					addDep(t, p)
					continue
				}
				if p, ok := byFile[""]; ok {
					addDep(t, p)
				}

				continue
			}

			// Corpus-scoped task: depend on every file's producer if the
			// input is file-scoped, else on the single corpus producer.
			if p, ok := byFile[""]; ok {
				addDep(t, p)
				continue
			}

			for _, file := range files {
				if p, ok := byFile[file]; ok {
					addDep(t, p)
				}
			}
		}
	}

	return nil
}

func addDep(t, dep *Task) {
	if t == dep {
		return
	}

	for _, d := range t.deps {
		if d == dep {
			return
		}
	}

	t.deps = append(t.deps, dep)
}

// findCycle returns the identifier chain of a dependency cycle, or nil if
// the graph is acyclic. Recursive three-colour DFS.
func findCycle(g *Graph) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(g.order))
	for _, id := range g.order {
		color[id] = white
	}

	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = gray
		path = append(path, id)

		t := g.tasks[id]
		for _, dep := range t.deps {
			switch color[dep.ID] {
			case gray:
				return append(append([]string(nil), path...), dep.ID)
			case white:
				if cyc := visit(dep.ID); cyc != nil {
					return cyc
				}
			}
		}

		path = path[:len(path)-1]
		color[id] = black

		return nil
	}

	sorted := append([]string(nil), g.order...)
	sort.Strings(sorted)

	for _, id := range sorted {
		if color[id] == white {
			if cyc := visit(id); cyc != nil {
				return cyc
			}
		}
	}

	return nil
}

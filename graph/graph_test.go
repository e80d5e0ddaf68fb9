package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/graph"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/resolver"
)

func noopRun(*registry.RunContext) error { return nil }

func TestBuild_LinearChain(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.Function{
		ID:        "segment:token",
		Role:      registry.RoleAnnotator,
		Signature: registry.Signature{Outputs: []registry.Descriptor{registry.Output("segment.token", "token")}},
		Run:       noopRun,
	})
	reg.MustRegister(registry.Function{
		ID:   "stanza:pos",
		Role: registry.RoleAnnotator,
		Signature: registry.Signature{
			Inputs:  []registry.Descriptor{registry.Annotation("segment.token")},
			Outputs: []registry.Descriptor{registry.Output("stanza.pos", "")},
		},
		Run: noopRun,
	})

	g, err := graph.Build(reg, resolver.Bindings{}, []string{"stanza.pos"}, []string{"doc1.xml", "doc2.xml"})
	require.NoError(t, err)

	tasks := g.Tasks()
	assert.Len(t, tasks, 4) // 2 functions x 2 files

	tok1, ok := g.Task("segment:token@doc1.xml")
	require.True(t, ok)
	pos1, ok := g.Task("stanza:pos@doc1.xml")
	require.True(t, ok)

	require.Len(t, pos1.Deps(), 1)
	assert.Equal(t, tok1, pos1.Deps()[0])
}

func TestBuild_CorpusScopedDependsOnAllFiles(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.Function{
		ID:        "segment:token",
		Role:      registry.RoleAnnotator,
		Signature: registry.Signature{Outputs: []registry.Descriptor{registry.Output("segment.token", "token")}},
		Run:       noopRun,
	})
	reg.MustRegister(registry.Function{
		ID:   "csv:export",
		Role: registry.RoleExporter,
		Signature: registry.Signature{
			Inputs:  []registry.Descriptor{registry.AnnotationAllFiles("segment.token")},
			Outputs: []registry.Descriptor{registry.Export("export/csv/out.csv")},
		},
		Run: noopRun,
	})

	g, err := graph.Build(reg, resolver.Bindings{}, []string{"export/csv/out.csv"}, []string{"a.xml", "b.xml"})
	require.NoError(t, err)

	exp, ok := g.Task("csv:export")
	require.True(t, ok)
	assert.Len(t, exp.Deps(), 2)
}

func TestBuild_CycleDetected(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.Function{
		ID:   "a:a",
		Role: registry.RoleAnnotator,
		Signature: registry.Signature{
			Inputs:  []registry.Descriptor{registry.Annotation("b.b")},
			Outputs: []registry.Descriptor{registry.Output("a.a", "")},
		},
		Run: noopRun,
	})
	reg.MustRegister(registry.Function{
		ID:   "b:b",
		Role: registry.RoleAnnotator,
		Signature: registry.Signature{
			Inputs:  []registry.Descriptor{registry.Annotation("a.a")},
			Outputs: []registry.Descriptor{registry.Output("b.b", "")},
		},
		Run: noopRun,
	})

	_, err := graph.Build(reg, resolver.Bindings{}, []string{"a.a"}, []string{"doc.xml"})
	assert.Error(t, err)
}

func TestBuild_WildcardTemplateInstantiation(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.Function{
		ID:   "misc:upper",
		Role: registry.RoleAnnotator,
		Signature: registry.Signature{
			Inputs:  []registry.Descriptor{registry.Wildcard("base")},
			Outputs: []registry.Descriptor{registry.Output("misc.upper_{base}", "")},
		},
		Run: noopRun,
	})

	g, err := graph.Build(reg, resolver.Bindings{}, []string{"misc.upper_word"}, []string{"doc.xml"})
	require.NoError(t, err)

	task, ok := g.Task("misc:upper@doc.xml")
	require.True(t, ok)
	assert.Equal(t, "word", task.Wildcards["base"])
}

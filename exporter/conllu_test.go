package exporter

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
	"github.com/spraakbanken/sparv/stringtest"
)

func TestNewCoNLLU_RendersSentenceBlockWithTextFallback(t *testing.T) {
	wd := storage.NewWorkDir(t.TempDir(), nil)

	require.NoError(t, importer.WriteText(wd, "Två bor"))
	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 3},
		{Start: 4, End: 7},
	}))
	require.NoError(t, wd.WriteSpans("segment.sentence", []storage.Span{
		{Start: 0, End: 7},
	}))
	require.NoError(t, wd.WriteAttribute("segment.token", "upos",
		[]string{"PROPN", "VERB"}, storage.AttributeOptions{}))

	exportDir := t.TempDir()
	fn := NewCoNLLU(CoNLLUOptions{
		TokenSpan:    "segment.token",
		SentenceSpan: "segment.sentence",
		UPOS:         "segment.token:upos",
		ExportPath:   exportDir + "/{file}.conllu",
	})

	require.NoError(t, fn.Run(&registry.RunContext{WorkDir: wd, SourceFile: "doc1"}))

	got, err := os.ReadFile(exportDir + "/doc1.conllu")
	require.NoError(t, err)

	want := stringtest.JoinLF(
		strings.Join([]string{"1", "Två", "_", "PROPN", "_", "_", "_", "_", "_", "_"}, "\t"),
		strings.Join([]string{"2", "bor", "_", "VERB", "_", "_", "_", "_", "_", "_"}, "\t"),
		"",
	) + "\n"
	assert.Equal(t, want, string(got))
}

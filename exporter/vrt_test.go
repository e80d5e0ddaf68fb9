package exporter

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
	"github.com/spraakbanken/sparv/stringtest"
)

func TestNewVRT_RendersBlankLineBetweenSentences(t *testing.T) {
	wd := storage.NewWorkDir(t.TempDir(), nil)

	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 3},
		{Start: 4, End: 6},
		{Start: 7, End: 10},
		{Start: 11, End: 13},
	}))
	require.NoError(t, wd.WriteSpans("segment.sentence", []storage.Span{
		{Start: 0, End: 6},
		{Start: 7, End: 13},
	}))
	require.NoError(t, wd.WriteAttribute("segment.token", "pos",
		[]string{"NN", "VB", "NN", "VB"}, storage.AttributeOptions{}))

	exportDir := t.TempDir()
	fn := NewVRT(VRTOptions{
		TokenSpan:    "segment.token",
		SentenceSpan: "segment.sentence",
		Columns:      []string{"segment.token:pos"},
		ExportPath:   exportDir + "/{file}.vrt",
	})

	require.NoError(t, fn.Run(&registry.RunContext{WorkDir: wd, SourceFile: "doc1"}))

	got, err := os.ReadFile(exportDir + "/doc1.vrt")
	require.NoError(t, err)

	want := stringtest.JoinLF("NN", "VB", "", "NN", "VB") + "\n"
	assert.Equal(t, want, string(got))
}

func TestNewVRT_NoSentenceSpanOmitsBlankLines(t *testing.T) {
	wd := storage.NewWorkDir(t.TempDir(), nil)

	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 3},
		{Start: 4, End: 6},
	}))
	require.NoError(t, wd.WriteAttribute("segment.token", "pos",
		[]string{"NN", "VB"}, storage.AttributeOptions{}))

	exportDir := t.TempDir()
	fn := NewVRT(VRTOptions{
		TokenSpan:  "segment.token",
		Columns:    []string{"segment.token:pos"},
		ExportPath: exportDir + "/{file}.vrt",
	})

	require.NoError(t, fn.Run(&registry.RunContext{WorkDir: wd, SourceFile: "doc1"}))

	got, err := os.ReadFile(exportDir + "/doc1.vrt")
	require.NoError(t, err)

	want := stringtest.JoinLF("NN", "VB") + "\n"
	assert.Equal(t, want, string(got))
}

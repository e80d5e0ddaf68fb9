package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/modules/geo"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

func TestAnnotate_FindsGazetteerHits(t *testing.T) {
	wd := storage.NewWorkDir(t.TempDir(), nil)
	require.NoError(t, importer.WriteText(wd, "Stockholm är större än Uppsala."))
	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 9},   // Stockholm
		{Start: 10, End: 12}, // är
		{Start: 23, End: 30}, // Uppsala
	}))

	fn := geo.NewAnnotate(geo.AnnotateOptions{TokenSpan: "segment.token"})
	require.NoError(t, fn.Run(&registry.RunContext{WorkDir: wd}))

	data, err := wd.ReadData(geo.DataName)
	require.NoError(t, err)
	assert.Equal(t, "Stockholm\t59.3293\t18.0686\nUppsala\t59.8586\t17.6389", string(data))
}

func TestAnnotate_NoHitsWritesEmpty(t *testing.T) {
	wd := storage.NewWorkDir(t.TempDir(), nil)
	require.NoError(t, importer.WriteText(wd, "Hunden springer."))
	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 6},
		{Start: 7, End: 15},
	}))

	fn := geo.NewAnnotate(geo.AnnotateOptions{TokenSpan: "segment.token"})
	require.NoError(t, fn.Run(&registry.RunContext{WorkDir: wd}))

	data, err := wd.ReadData(geo.DataName)
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

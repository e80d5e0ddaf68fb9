package sentiment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/modules/sentiment"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

func TestAnnotate_CountsPolarity(t *testing.T) {
	wd := storage.NewWorkDir(t.TempDir(), nil)
	require.NoError(t, importer.WriteText(wd, "Hunden är bra men trasig och snabb."))
	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 6},   // Hunden
		{Start: 7, End: 9},   // är
		{Start: 10, End: 13}, // bra
		{Start: 14, End: 17}, // men
		{Start: 18, End: 24}, // trasig
		{Start: 25, End: 28}, // och
		{Start: 29, End: 34}, // snabb
	}))

	fn := sentiment.NewAnnotate(sentiment.AnnotateOptions{TokenSpan: "segment.token"})
	require.NoError(t, fn.Run(&registry.RunContext{WorkDir: wd}))

	data, err := wd.ReadData(sentiment.DataName)
	require.NoError(t, err)
	assert.Equal(t, "positive\t2\nnegative\t1\nneutral\t4\n", string(data))
}

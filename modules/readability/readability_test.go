package readability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/modules/readability"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

func TestAnnotate_ComputesLIX(t *testing.T) {
	wd := storage.NewWorkDir(t.TempDir(), nil)
	// Sentence: "Stockholm är huvudstaden." 3 words, 2 long (>6 runes): Stockholm(9), huvudstaden(11).
	require.NoError(t, importer.WriteText(wd, "Stockholm är huvudstaden."))
	require.NoError(t, wd.WriteSpans("segment.sentence", []storage.Span{{Start: 0, End: 25}}))
	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 9},   // Stockholm
		{Start: 10, End: 12}, // är
		{Start: 13, End: 24}, // huvudstaden
	}))

	fn := readability.NewAnnotate(readability.AnnotateOptions{TokenSpan: "segment.token", SentenceSpan: "segment.sentence"})
	require.NoError(t, fn.Run(&registry.RunContext{WorkDir: wd}))

	scores, err := wd.ReadAttribute("segment.sentence", "readability.lix", storage.AttributeOptions{})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	// words=3, longWords=2 -> 3 + (200+1)/3 = 3 + 67 = 70
	assert.Equal(t, "70", scores[0])
}

func TestAnnotate_EmptySentence(t *testing.T) {
	wd := storage.NewWorkDir(t.TempDir(), nil)
	require.NoError(t, importer.WriteText(wd, ""))
	require.NoError(t, wd.WriteSpans("segment.sentence", []storage.Span{{Start: 0, End: 0}}))
	require.NoError(t, wd.WriteSpans("segment.token", nil))

	fn := readability.NewAnnotate(readability.AnnotateOptions{TokenSpan: "segment.token", SentenceSpan: "segment.sentence"})
	require.NoError(t, fn.Run(&registry.RunContext{WorkDir: wd}))

	scores, err := wd.ReadAttribute("segment.sentence", "readability.lix", storage.AttributeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, scores)
}

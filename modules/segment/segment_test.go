package segment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/modules/segment"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

func runAnnotator(t *testing.T, fn registry.Function, text string) []storage.Span {
	t.Helper()

	wd := storage.NewWorkDir(t.TempDir(), nil)
	require.NoError(t, importer.WriteText(wd, text))

	rc := &registry.RunContext{Context: context.Background(), WorkDir: wd}
	require.NoError(t, fn.Run(rc))

	spans, err := wd.ReadSpans(fn.Signature.Outputs[0].Identifier)
	require.NoError(t, err)

	return spans
}

func TestNewToken_SplitsWords(t *testing.T) {
	spans := runAnnotator(t, segment.NewToken(), "Two words.")

	// "Two", "words", "." -- three content tokens, whitespace dropped.
	assert.Len(t, spans, 3)
	assert.Equal(t, storage.Span{Start: 0, End: 3}, spans[0])
}

func TestNewSentence_SplitsSentences(t *testing.T) {
	spans := runAnnotator(t, segment.NewSentence(), "One. Two.")

	assert.Len(t, spans, 2)
}

func TestNewToken_HandlesMultibyteRunes(t *testing.T) {
	// "café" has a multi-byte rune; rune offsets, not byte offsets, must
	// land on the following token's start.
	spans := runAnnotator(t, segment.NewToken(), "café au lait")

	require.NotEmpty(t, spans)
	assert.Equal(t, uint64(0), spans[0].Start)
	assert.Equal(t, uint64(4), spans[0].End) // c-a-f-é, 4 runes
}

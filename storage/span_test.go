package storage_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/storage"
)

func TestSpanRoundTrip(t *testing.T) {
	spans := []storage.Span{
		{Start: 0, End: 3},
		{Start: 3, End: 3, FracNum: 1, FracDen: 2},
		{Start: 3, End: 3, FracNum: 2, FracDen: 3},
		{Start: 3, End: 8},
	}

	var buf bytes.Buffer
	require.NoError(t, storage.EncodeSpans(&buf, spans))

	got, err := storage.DecodeSpans(&buf)
	require.NoError(t, err)
	assert.Equal(t, spans, got)
}

func TestSpanEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, storage.EncodeSpans(&buf, nil))

	got, err := storage.DecodeSpans(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateMonotone_RejectsOutOfOrder(t *testing.T) {
	spans := []storage.Span{{Start: 5, End: 6}, {Start: 1, End: 2}}
	err := storage.ValidateMonotone(spans)
	assert.ErrorIs(t, err, storage.ErrNotMonotone)
}

func TestValidateMonotone_RejectsStartAfterEnd(t *testing.T) {
	spans := []storage.Span{{Start: 6, End: 2}}
	err := storage.ValidateMonotone(spans)
	assert.ErrorIs(t, err, storage.ErrNotMonotone)
}

func TestDecodeSpans_RejectsOutOfOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, storage.EncodeSpans(&buf, []storage.Span{{Start: 5, End: 6}, {Start: 1, End: 2}}))

	_, err := storage.DecodeSpans(&buf)
	assert.ErrorIs(t, err, storage.ErrNotMonotone)
}

package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/storage"
)

func newTestWorkDir(t *testing.T) *storage.WorkDir {
	t.Helper()

	codec, err := storage.GetCodec("gzip")
	require.NoError(t, err)

	return storage.NewWorkDir(filepath.Join(t.TempDir(), "doc1"), codec)
}

func TestWorkDir_SpanRoundTrip(t *testing.T) {
	wd := newTestWorkDir(t)
	spans := []storage.Span{{Start: 0, End: 3}, {Start: 4, End: 8}}

	require.NoError(t, wd.WriteSpans("segment.token", spans))
	assert.True(t, wd.HasSpans("segment.token"))

	got, err := wd.ReadSpans("segment.token")
	require.NoError(t, err)
	assert.Equal(t, spans, got)
}

func TestWorkDir_AttributeRoundTrip(t *testing.T) {
	wd := newTestWorkDir(t)
	values := []string{"ett", "två"}

	require.NoError(t, wd.WriteAttribute("segment.token", "saldo.sense", values, storage.AttributeOptions{}))

	got, err := wd.ReadAttribute("segment.token", "saldo.sense", storage.AttributeOptions{})
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestWorkDir_DataRoundTrip(t *testing.T) {
	wd := newTestWorkDir(t)

	require.NoError(t, wd.WriteData("text", []byte("Ord, ord, ord.")))
	assert.True(t, wd.HasData("text"))

	got, err := wd.ReadData("text")
	require.NoError(t, err)
	assert.Equal(t, "Ord, ord, ord.", string(got))
}

func TestWorkDir_Marker(t *testing.T) {
	wd := newTestWorkDir(t)

	assert.False(t, wd.HasMarker("xml_export"))

	require.NoError(t, wd.WriteMarker("xml_export", []byte("sig1")))
	assert.True(t, wd.HasMarker("xml_export"))

	sig, ok := wd.ReadMarker("xml_export")
	require.True(t, ok)
	assert.Equal(t, []byte("sig1"), sig)

	require.NoError(t, wd.RemoveMarker("xml_export"))
	assert.False(t, wd.HasMarker("xml_export"))
}

func TestWorkDir_RerunIsNoop(t *testing.T) {
	wd := newTestWorkDir(t)
	spans := []storage.Span{{Start: 0, End: 1}}

	require.NoError(t, wd.WriteSpans("segment.token", spans))

	first, err := wd.ReadSpans("segment.token")
	require.NoError(t, err)

	require.NoError(t, wd.WriteSpans("segment.token", spans))

	second, err := wd.ReadSpans("segment.token")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

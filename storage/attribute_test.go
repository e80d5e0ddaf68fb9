package storage_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/storage"
)

func TestAttributeRoundTrip(t *testing.T) {
	values := []string{"ett", storage.Undefined, "tre"}

	var buf bytes.Buffer
	require.NoError(t, storage.EncodeAttributeValues(&buf, values, false))

	got, err := storage.DecodeAttributeValues(&buf, false)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestAttributeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, storage.EncodeAttributeValues(&buf, nil, false))

	got, err := storage.DecodeAttributeValues(&buf, false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAttribute_SingleUndefinedValueDistinctFromEmpty(t *testing.T) {
	var single bytes.Buffer
	require.NoError(t, storage.EncodeAttributeValues(&single, []string{storage.Undefined}, false))

	var zero bytes.Buffer
	require.NoError(t, storage.EncodeAttributeValues(&zero, nil, false))

	assert.NotEqual(t, zero.Bytes(), single.Bytes())

	got, err := storage.DecodeAttributeValues(&single, false)
	require.NoError(t, err)
	assert.Equal(t, []string{storage.Undefined}, got)
}

func TestAttribute_RejectsEmbeddedNewline(t *testing.T) {
	var buf bytes.Buffer
	err := storage.EncodeAttributeValues(&buf, []string{"a\nb"}, false)
	assert.ErrorIs(t, err, storage.ErrEmbeddedNewline)
}

func TestAttribute_AllowEmbeddedNewline(t *testing.T) {
	values := []string{"a\nb", `back\slash`}

	var buf bytes.Buffer
	require.NoError(t, storage.EncodeAttributeValues(&buf, values, true))

	got, err := storage.DecodeAttributeValues(&buf, true)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestSetValue_RoundTrip(t *testing.T) {
	encoded := storage.EncodeSetValue([]string{"a", "b", "c"}, '|', '|')
	assert.Equal(t, "|a|b|c|", encoded)
	assert.Equal(t, []string{"a", "b", "c"}, storage.DecodeSetValue(encoded, '|', '|'))
}

func TestSetValue_Empty(t *testing.T) {
	assert.Equal(t, "", storage.EncodeSetValue(nil, '|', '|'))
	assert.Nil(t, storage.DecodeSetValue("", '|', '|'))
}

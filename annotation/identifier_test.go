package annotation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/annotation"
)

func TestParse_PureSpan(t *testing.T) {
	p, err := annotation.Parse("segment.token")
	require.NoError(t, err)
	assert.Equal(t, "segment.token", p.BaseSpan)
	assert.Empty(t, p.Attribute)
	assert.False(t, p.IsClass())
	assert.False(t, p.Custom)
}

func TestParse_Attribute(t *testing.T) {
	p, err := annotation.Parse("segment.token:saldo.sense")
	require.NoError(t, err)
	assert.Equal(t, "segment.token", p.BaseSpan)
	assert.Equal(t, "saldo.sense", p.Attribute)
}

func TestParse_ClassSpan(t *testing.T) {
	p, err := annotation.Parse("<token>")
	require.NoError(t, err)
	assert.True(t, p.IsClass())
	assert.Equal(t, "token", p.Class)
	assert.Empty(t, p.ClassAttr)
}

func TestParse_ClassAttribute(t *testing.T) {
	p, err := annotation.Parse("<token:word>")
	require.NoError(t, err)
	assert.True(t, p.IsClass())
	assert.Equal(t, "token", p.Class)
	assert.Equal(t, "word", p.ClassAttr)
	assert.Empty(t, p.Attribute)
}

func TestParse_ClassWithAttribute(t *testing.T) {
	p, err := annotation.Parse("<token>:saldo.sense")
	require.NoError(t, err)
	assert.True(t, p.IsClass())
	assert.Equal(t, "token", p.Class)
	assert.Equal(t, "saldo.sense", p.Attribute)
}

func TestParse_Wildcard(t *testing.T) {
	p, err := annotation.Parse("segment.{wildcard}")
	require.NoError(t, err)
	assert.Equal(t, []string{"{wildcard}"}, p.Wildcards)
}

func TestParse_Custom(t *testing.T) {
	p, err := annotation.Parse("custom.myattr")
	require.NoError(t, err)
	assert.True(t, p.Custom)
}

func TestParse_InvalidChars(t *testing.T) {
	_, err := annotation.Parse("Segment.Token")
	assert.ErrorIs(t, err, annotation.ErrInvalidChars)
}

func TestParse_Empty(t *testing.T) {
	_, err := annotation.Parse("")
	assert.ErrorIs(t, err, annotation.ErrEmptyName)
}

func TestParse_UnbalancedClass(t *testing.T) {
	_, err := annotation.Parse("<token")
	assert.ErrorIs(t, err, annotation.ErrUnbalancedClass)
}

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spraakbanken/sparv/storage"
)

func TestParentChild(t *testing.T) {
	sentences := []storage.Span{
		{Start: 0, End: 10},
		{Start: 10, End: 20},
	}
	tokens := []storage.Span{
		{Start: 0, End: 3},
		{Start: 4, End: 7},
		{Start: 11, End: 14},
		{Start: 25, End: 28}, // orphan
	}

	childrenOf, orphans := storage.ParentChild(sentences, tokens)

	assert.Equal(t, []int{0, 1}, childrenOf[0])
	assert.Equal(t, []int{2}, childrenOf[1])
	assert.Equal(t, []int{3}, orphans)
}

func TestParentChild_NoOrphans(t *testing.T) {
	parents := []storage.Span{{Start: 0, End: 100}}
	children := []storage.Span{{Start: 1, End: 2}, {Start: 3, End: 4}}

	childrenOf, orphans := storage.ParentChild(parents, children)
	assert.Equal(t, []int{0, 1}, childrenOf[0])
	assert.Empty(t, orphans)
}

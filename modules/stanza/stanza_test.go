package stanza_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/modules/stanza"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/sparverr"
	"github.com/spraakbanken/sparv/storage"
)

func TestBuildModel_WritesModel(t *testing.T) {
	modelDir := t.TempDir()

	fn := stanza.NewBuildModel("")
	require.NoError(t, fn.Run(&registry.RunContext{ModelDir: modelDir}))

	assert.FileExists(t, filepath.Join(modelDir, stanza.DefaultModelPath))
}

func newTaggedWorkDir(t *testing.T) *storage.WorkDir {
	t.Helper()

	wd := storage.NewWorkDir(t.TempDir(), nil)
	require.NoError(t, importer.WriteText(wd, "Stockholm är fint. Den är bra."))
	require.NoError(t, wd.WriteSpans("segment.sentence", []storage.Span{
		{Start: 0, End: 18},
		{Start: 19, End: 30},
	}))
	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 9},   // Stockholm
		{Start: 10, End: 12}, // är
		{Start: 13, End: 17}, // fint
		{Start: 19, End: 22}, // Den
		{Start: 23, End: 25}, // är
		{Start: 26, End: 29}, // bra
	}))

	return wd
}

func TestAnnotate_MissingBinary(t *testing.T) {
	wd := newTaggedWorkDir(t)

	fn := stanza.NewAnnotate(stanza.AnnotateOptions{TokenSpan: "segment.token", SentenceSpan: "segment.sentence"})
	err := fn.Run(&registry.RunContext{WorkDir: wd, SourceFile: "doc1.txt"})

	require.Error(t, err)

	var sErr *sparverr.Error
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, sparverr.MissingPrerequisite, sErr.Kind)
}

func TestAnnotate_TagsWhenBinaryConfigured(t *testing.T) {
	wd := newTaggedWorkDir(t)

	modelDir := t.TempDir()
	require.NoError(t, stanza.NewBuildModel("").Run(&registry.RunContext{ModelDir: modelDir}))

	fn := stanza.NewAnnotate(stanza.AnnotateOptions{TokenSpan: "segment.token", SentenceSpan: "segment.sentence"})
	rc := &registry.RunContext{
		WorkDir:     wd,
		SourceFile:  "doc1.txt",
		ModelDir:    modelDir,
		BinaryPaths: map[string]string{stanza.BinaryName: "/usr/bin/stanza"},
	}
	require.NoError(t, fn.Run(rc))

	pos, err := wd.ReadAttribute("segment.token", "stanza.pos", storage.AttributeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"PROPN", "NOUN", "NOUN", "PROPN", "NOUN", "NOUN"}, pos)

	deprel, err := wd.ReadAttribute("segment.token", "stanza.deprel", storage.AttributeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "dep", "dep", "root", "dep", "dep"}, deprel)

	dephead, err := wd.ReadAttribute("segment.token", "stanza.dephead", storage.AttributeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "0", "1", "2"}, dephead)
}

package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "source.xml")

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestXMLImport_ElementsAndAttributes(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<text title="demo">
  <sentence id="1">A dog runs.</sentence>
  <sentence>A cat sleeps.</sentence>
</text>`

	path := writeTempFile(t, doc)

	fn := NewXML(XMLOptions{Namespace: "xml_import"})

	wd := storage.NewWorkDir(t.TempDir(), nil)

	rc := &registry.RunContext{
		WorkDir:    wd,
		SourcePath: path,
	}

	require.NoError(t, fn.Run(rc))

	text, err := ReadText(wd)
	require.NoError(t, err)
	assert.Contains(t, text, "A dog runs.")
	assert.Contains(t, text, "A cat sleeps.")

	spans, err := wd.ReadSpans("xml_import.sentence")
	require.NoError(t, err)
	assert.Len(t, spans, 2)

	ids, err := wd.ReadAttribute("xml_import.sentence", "id", storage.AttributeOptions{})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "1", ids[0])
	assert.Equal(t, storage.Undefined, ids[1])

	textSpans, err := wd.ReadSpans("xml_import.text")
	require.NoError(t, err)
	require.Len(t, textSpans, 1)

	titles, err := wd.ReadAttribute("xml_import.text", "title", storage.AttributeOptions{})
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "demo", titles[0])

	structure, err := wd.ReadData(StructureKey)
	require.NoError(t, err)
	assert.Contains(t, string(structure), "xml_import.sentence:id")
}

func TestXMLImport_HeaderElement(t *testing.T) {
	doc := `<corpus>
  <header><author>Jane</author></header>
  <text>Hello world.</text>
</corpus>`

	path := writeTempFile(t, doc)

	fn := NewXML(XMLOptions{Namespace: "xml_import", HeaderElement: "header"})

	wd := storage.NewWorkDir(t.TempDir(), nil)

	rc := &registry.RunContext{WorkDir: wd, SourcePath: path}

	require.NoError(t, fn.Run(rc))

	text, err := ReadText(wd)
	require.NoError(t, err)
	assert.NotContains(t, text, "Jane")
	assert.Contains(t, text, "Hello world.")

	val, err := wd.ReadData(HeaderPrefix + ".header")
	require.NoError(t, err)
	assert.Equal(t, "Jane", string(val))
}

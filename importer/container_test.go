package importer

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

func writeZip(t *testing.T, partName, partContent string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "source.zip")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)

	w, err := zw.Create(partName)
	require.NoError(t, err)

	_, err = w.Write([]byte(partContent))
	require.NoError(t, err)

	require.NoError(t, zw.Close())

	return path
}

func TestDocxImport_ParagraphsAndRuns(t *testing.T) {
	body := `<w:document xmlns:w="ns"><w:body>
  <w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>world.</w:t></w:r></w:p>
</w:body></w:document>`

	path := writeZip(t, docxBodyPath, body)

	fn := NewDocx()
	wd := storage.NewWorkDir(t.TempDir(), nil)
	rc := &registry.RunContext{WorkDir: wd, SourcePath: path}

	require.NoError(t, fn.Run(rc))

	text, err := ReadText(wd)
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", text)

	paragraphs, err := wd.ReadSpans("docx_import.p")
	require.NoError(t, err)
	assert.Len(t, paragraphs, 1)

	runs, err := wd.ReadSpans("docx_import.r")
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestOdtImport_ParagraphsAndSpans(t *testing.T) {
	body := `<office:document-content xmlns:office="ns" xmlns:text="ns">
<office:body><office:text>
  <text:p>A <text:span>bold</text:span> word.</text:p>
</office:text></office:body></office:document-content>`

	path := writeZip(t, odtBodyPath, body)

	fn := NewOdt()
	wd := storage.NewWorkDir(t.TempDir(), nil)
	rc := &registry.RunContext{WorkDir: wd, SourcePath: path}

	require.NoError(t, fn.Run(rc))

	text, err := ReadText(wd)
	require.NoError(t, err)
	assert.Equal(t, "\n  A bold word.\n", text)

	paragraphs, err := wd.ReadSpans("odt_import.p")
	require.NoError(t, err)
	assert.Len(t, paragraphs, 1)

	spans, err := wd.ReadSpans("odt_import.span")
	require.NoError(t, err)
	assert.Len(t, spans, 1)
}

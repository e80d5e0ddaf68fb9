package exporter

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

func TestNewSQL_RendersCreateAndInserts(t *testing.T) {
	dataDir := t.TempDir()

	wd := storage.NewWorkDir(dataDir+"/doc1", nil)
	require.NoError(t, importer.WriteText(wd, "Hunden springer."))
	require.NoError(t, wd.WriteSpans("segment.token", []storage.Span{
		{Start: 0, End: 6},
		{Start: 7, End: 15},
	}))
	require.NoError(t, wd.WriteAttribute("segment.token", "saldo.baseform",
		[]string{"hund", "springa"}, storage.AttributeOptions{}))

	exportPath := t.TempDir() + "/dump.sql"
	fn := NewSQL(SQLOptions{
		Table:      "tokens",
		Word:       "segment.token",
		Columns:    []string{"segment.token:saldo.baseform"},
		ExportPath: exportPath,
	})

	rc := &registry.RunContext{
		Files: []string{"doc1"},
		WorkDirFor: func(file string) *storage.WorkDir {
			return storage.NewWorkDir(dataDir+"/"+file, nil)
		},
	}
	require.NoError(t, fn.Run(rc))

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)

	got := string(data)
	assert.Contains(t, got, "CREATE TABLE tokens (file, position, word, saldo.baseform);")
	assert.Contains(t, got, "INSERT INTO tokens VALUES ('doc1', 0, 'Hunden', 'hund');")
	assert.Contains(t, got, "INSERT INTO tokens VALUES ('doc1', 1, 'springer', 'springa');")
}

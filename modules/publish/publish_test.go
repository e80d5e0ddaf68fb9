package publish_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/modules/publish"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

func TestInstallThenUninstall(t *testing.T) {
	root := t.TempDir()
	exportDir := filepath.Join(root, "export", "vrt")
	publishDir := filepath.Join(root, "published")

	require.NoError(t, os.MkdirAll(exportDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(exportDir, "doc1.vrt"), []byte("hi\n"), 0o644))

	corpusDir := storage.NewWorkDir(filepath.Join(root, "sparv-workdir", ".corpus"), nil)

	opts := publish.InstallOptions{ExportPath: "vrt_export:tokens", ExportDir: exportDir, PublishDir: publishDir}

	install := publish.NewInstall(opts)
	require.NoError(t, install.Run(&registry.RunContext{CorpusDir: corpusDir}))

	data, err := os.ReadFile(filepath.Join(publishDir, "doc1.vrt"))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(data))
	assert.True(t, corpusDir.HasMarker(publish.InstalledMarker))

	uninstall := publish.NewUninstall(opts)
	require.NoError(t, uninstall.Run(&registry.RunContext{CorpusDir: corpusDir}))

	_, err = os.Stat(publishDir)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, corpusDir.HasMarker(publish.InstalledMarker))
	assert.True(t, corpusDir.HasMarker(publish.UninstalledMarker))
}

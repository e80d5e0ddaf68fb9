package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/pipeline"
	"github.com/spraakbanken/sparv/scheduler"
)

func newTestPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	corpusDir := t.TempDir()
	dataDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(corpusDir, "source"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(corpusDir, "source", "doc1.txt"),
		[]byte("Hunden är snabb."),
		0o644,
	))
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "config.yaml"), []byte(
		"metadata:\n  name: test\n  language: swe\n"), 0o644))

	p, err := pipeline.Load(corpusDir, pipeline.Options{DataDir: dataDir})
	require.NoError(t, err)

	return p
}

func TestRunFlags_SchedulerOptions(t *testing.T) {
	f := runFlags{
		files:           []string{"a.txt", "b.txt"},
		workers:         4,
		dryRun:          true,
		force:           true,
		keepGoing:       true,
		rerunIncomplete: true,
		stats:           true,
		socket:          "/tmp/sparv.sock",
		forcePreloader:  true,
	}

	opts := f.schedulerOptions()

	assert.Equal(t, scheduler.Options{
		Workers:         4,
		DryRun:          true,
		Force:           true,
		KeepGoing:       true,
		RerunIncomplete: true,
		Stats:           true,
		SocketPath:      "/tmp/sparv.sock",
		ForcePreloader:  true,
		Files:           []string{"a.txt", "b.txt"},
	}, opts)
}

func TestRunFlags_Register(t *testing.T) {
	var f runFlags

	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)

	require.NoError(t, cmd.Flags().Parse([]string{
		"-f", "a.txt",
		"-j", "3",
		"-n",
		"--force",
		"--keep-going",
		"--rerun-incomplete",
		"--stats",
		"--socket", "/tmp/sock",
		"--force-preloader",
		"--no-tui",
	}))

	assert.Equal(t, []string{"a.txt"}, f.files)
	assert.Equal(t, 3, f.workers)
	assert.True(t, f.dryRun)
	assert.True(t, f.force)
	assert.True(t, f.keepGoing)
	assert.True(t, f.rerunIncomplete)
	assert.True(t, f.stats)
	assert.Equal(t, "/tmp/sock", f.socket)
	assert.True(t, f.forcePreloader)
	assert.True(t, f.noTUI)
}

func TestReportSummary(t *testing.T) {
	assert.Equal(t, "", reportSummary(nil))

	report := &scheduler.Report{
		Ran:     []string{"a", "b"},
		Skipped: []string{"c"},
		NotRun:  nil,
		Failed:  []scheduler.FailedTask{{TaskID: "d"}},
	}

	assert.Equal(t, "ran=2 skipped=1 not-run=0 failed=1", reportSummary(report))
}

func TestWithPreloader(t *testing.T) {
	p := newTestPipeline(t)

	var f runFlags
	f.withPreloader(p)
	assert.Nil(t, p.Preload)

	f.socket = "/tmp/sparv.sock"
	f.withPreloader(p)
	require.NotNil(t, p.Preload)
}

func TestInstallerAndUninstallerTargets(t *testing.T) {
	p := newTestPipeline(t)

	assert.Equal(t, []string{"publish.installed"}, installerTargets(p))
	assert.Equal(t, []string{"publish.uninstalled"}, uninstallerTargets(p))
}

func TestCorpusDir(t *testing.T) {
	assert.Equal(t, ".", corpusDir())
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spraakbanken/sparv/log"
	"github.com/spraakbanken/sparv/pipeline"
	"github.com/spraakbanken/sparv/preload"
	"github.com/spraakbanken/sparv/progress"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/scheduler"
)

// runFlags holds the flags shared by run/install/uninstall/run-rule
// (spec.md section 6's --file/-f, -j, --dry-run/-n, --force,
// --keep-going, --rerun-incomplete, --stats, --socket,
// --force-preloader).
type runFlags struct {
	files           []string
	workers         int
	dryRun          bool
	force           bool
	keepGoing       bool
	rerunIncomplete bool
	stats           bool
	socket          string
	forcePreloader  bool
	noTUI           bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&f.files, "file", "f", nil, "restrict to these source files (repeatable)")
	flags.IntVarP(&f.workers, "jobs", "j", 0, "number of concurrent workers (default: number of CPUs)")
	flags.BoolVarP(&f.dryRun, "dry-run", "n", false, "show what would run without running it")
	flags.BoolVar(&f.force, "force", false, "rerun every task regardless of staleness")
	flags.BoolVar(&f.keepGoing, "keep-going", false, "continue independent branches after a failure")
	flags.BoolVar(&f.rerunIncomplete, "rerun-incomplete", false, "rerun tasks whose marker is missing or stale")
	flags.BoolVar(&f.stats, "stats", false, "record per-task timing in the final report")
	flags.StringVar(&f.socket, "socket", "", "preloader Unix domain socket path")
	flags.BoolVar(&f.forcePreloader, "force-preloader", false, "fail a task instead of falling back inline when the preloader cannot serve it")
	flags.BoolVar(&f.noTUI, "no-tui", false, "print one log line per task instead of the live view")
}

func (f *runFlags) schedulerOptions() scheduler.Options {
	return scheduler.Options{
		Workers:         f.workers,
		DryRun:          f.dryRun,
		Force:           f.force,
		KeepGoing:       f.keepGoing,
		RerunIncomplete: f.rerunIncomplete,
		Stats:           f.stats,
		SocketPath:      f.socket,
		ForcePreloader:  f.forcePreloader,
		Files:           f.files,
	}
}

// corpusDir is the directory every sparv subcommand operates against:
// the current working directory, the same convention the original
// tool this CLI imitates uses (it is invoked from inside a corpus).
func corpusDir() string { return "." }

func (a *app) loadPipeline() (*pipeline.Pipeline, error) {
	return pipeline.Load(corpusDir(), pipeline.Options{DataDir: a.dataDir})
}

// withPreloader attaches a preload.Client to p when f.socket is set, so
// tasks dispatch to a running `sparv preload start` server
// before falling back to inline execution.
func (f *runFlags) withPreloader(p *pipeline.Pipeline) {
	if f.socket == "" {
		return
	}

	p.Preload = &preload.Client{
		SocketPath: f.socket,
		ModelDir:   p.ModelDir,
		Force:      f.forcePreloader,
	}
}

func reportSummary(report *scheduler.Report) string {
	if report == nil {
		return ""
	}

	return fmt.Sprintf("ran=%d skipped=%d not-run=%d failed=%d",
		len(report.Ran), len(report.Skipped), len(report.NotRun), len(report.Failed))
}

// runAnnotate builds and runs the graph for targets, reporting progress
// either through the bubbletea live view or one slog line per event
// when f.noTUI is set (e.g. for non-interactive/CI use). In TUI mode,
// slog output is routed through a log.Publisher rather than directly to
// stderr, and the live view renders it as its own scrolling pane --
// exactly the use log.Publisher's doc comment names -- instead of
// interleaving raw log lines with the redrawn frame.
func (a *app) runAnnotate(ctx context.Context, p *pipeline.Pipeline, targets []string, f *runFlags) (*scheduler.Report, error) {
	opts := f.schedulerOptions()

	if f.noTUI {
		handler, err := a.logConfig.NewHandler(os.Stderr)
		if err != nil {
			return nil, err
		}

		logger := slog.New(handler)
		opts.Progress = func(ev scheduler.Event) {
			logger.Info(ev.Status.String(), "task", ev.TaskID, "file", ev.File, "rule", ev.Rule)
		}

		return p.RunTargets(ctx, targets, opts)
	}

	publisher := log.NewPublisher()
	defer publisher.Close()

	handler, err := a.logConfig.NewHandler(publisher)
	if err != nil {
		return nil, err
	}

	logger := slog.New(handler)

	sub := publisher.Subscribe()
	defer sub.Close()

	report, events, closeEvents := progress.NewChannel(32)
	opts.Progress = func(ev scheduler.Event) {
		logger.Info(ev.Status.String(), "task", ev.TaskID, "file", ev.File, "rule", ev.Rule)
		report(ev)
	}

	type result struct {
		report *scheduler.Report
		err    error
	}

	resCh := make(chan result, 1)

	go func() {
		defer closeEvents()
		r, err := p.RunTargets(ctx, targets, opts)
		resCh <- result{r, err}
	}()

	if err := progress.Run(events, sub.C()); err != nil {
		return nil, err
	}

	res := <-resCh

	return res.report, res.err
}

func (a *app) newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run the annotation pipeline, building the given targets (or every exporter)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop, err := a.startProfiling()
			if err != nil {
				return err
			}
			defer stop()

			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			f.withPreloader(p)

			ctx := cmd.Context()

			if _, err := p.RunImport(ctx, f.schedulerOptions()); err != nil {
				return fmt.Errorf("import: %w", err)
			}

			if _, err := p.RunModel(ctx, f.schedulerOptions()); err != nil {
				return fmt.Errorf("build-models: %w", err)
			}

			report, runErr := a.runAnnotate(ctx, p, args, &f)

			fmt.Println(reportSummary(report))

			if runErr != nil {
				return runErr
			}

			if report != nil && !report.OK() {
				return fmt.Errorf("%d task(s) failed", len(report.Failed))
			}

			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func (a *app) newInstallCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "install [targets...]",
		Short: "Build and install exported files to their published destinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			f.withPreloader(p)

			ctx := cmd.Context()

			if _, err := p.RunImport(ctx, f.schedulerOptions()); err != nil {
				return err
			}

			if _, err := p.RunModel(ctx, f.schedulerOptions()); err != nil {
				return err
			}

			targets := args
			if len(targets) == 0 {
				targets = installerTargets(p)
			}

			report, err := a.runAnnotate(ctx, p, targets, &f)

			fmt.Println(reportSummary(report))

			if err != nil {
				return err
			}

			if report != nil && !report.OK() {
				return fmt.Errorf("%d task(s) failed", len(report.Failed))
			}

			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func (a *app) newUninstallCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "uninstall [targets...]",
		Short: "Remove previously installed files from their published destinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			f.withPreloader(p)

			targets := args
			if len(targets) == 0 {
				targets = uninstallerTargets(p)
			}

			report, err := a.runAnnotate(cmd.Context(), p, targets, &f)

			fmt.Println(reportSummary(report))

			if err != nil {
				return err
			}

			if report != nil && !report.OK() {
				return fmt.Errorf("%d task(s) failed", len(report.Failed))
			}

			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func installerTargets(p *pipeline.Pipeline) []string {
	var out []string

	for _, fn := range p.Registry.ByRole(registry.RoleInstaller) {
		out = append(out, fn.Outputs()...)
	}

	return out
}

func uninstallerTargets(p *pipeline.Pipeline) []string {
	var out []string

	for _, fn := range p.Registry.ByRole(registry.RoleUninstaller) {
		out = append(out, fn.Outputs()...)
	}

	return out
}

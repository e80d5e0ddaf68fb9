package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spraakbanken/sparv/registry"
)

func (a *app) newBuildModelsCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "build-models",
		Short: "Build every registered modelbuilder's output ahead of a run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			opts := f.schedulerOptions()

			report, runErr := p.RunModel(cmd.Context(), opts)

			fmt.Println(reportSummary(report))

			if runErr != nil {
				return runErr
			}

			if report != nil && !report.OK() {
				return fmt.Errorf("%d model(s) failed to build", len(report.Failed))
			}

			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func (a *app) newRunRuleCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run-rule <target>",
		Short: "Build one specific target identifier directly",
		Args:  cobra.ExactArgs(1),
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

func (a *app) newRunModuleCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run-module <module:function> [param=value...]",
		Short: "Run a single registered function once, outside the dependency graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			fn, ok := p.Registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("run-module: unknown function %q", args[0])
			}

			files := p.Files
			if len(f.files) > 0 {
				files = f.files
			}

			for _, file := range files {
				rc := &registry.RunContext{
					WorkDir:     p.WorkDirFor(file),
					CorpusDir:   p.CorpusWorkDir(),
					SourceFile:  file,
					Language:    p.Language,
					Config:      p.Config,
					ModelDir:    p.ModelDir,
					BinaryPaths: p.BinaryPaths,
					Files:       p.Files,
					WorkDirFor:  p.WorkDirFor,
				}

				if err := fn.Run(rc); err != nil {
					return fmt.Errorf("run-module: %s on %s: %w", fn.ID, file, err)
				}
			}

			return nil
		},
	}

	f.register(cmd)

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) newCleanCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the corpus's work directory (annotations and markers)",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			if err := os.RemoveAll(p.Corpus.WorkDir()); err != nil {
				return fmt.Errorf("clean: %w", err)
			}

			if all {
				if err := os.RemoveAll(p.Corpus.ExportDir("")); err != nil {
					return fmt.Errorf("clean: %w", err)
				}

				if err := os.RemoveAll(p.Corpus.LogsDir()); err != nil {
					return fmt.Errorf("clean: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "also remove export/ and logs/")

	return cmd
}

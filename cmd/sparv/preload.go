package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spraakbanken/sparv/preload"
)

func (a *app) newPreloadCmd() *cobra.Command {
	var socketPath string
	var controlFile string

	root := &cobra.Command{
		Use:   "preload",
		Short: "Manage a long-lived preloader process that keeps annotators warm between files",
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Warm the annotators named in the control file and serve them over a Unix socket",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			if controlFile == "" {
				controlFile = p.Corpus.Root + "/preload.yaml"
			}

			cf, err := preload.LoadControlFile(controlFile)
			if err != nil {
				return err
			}

			handler, err := a.logConfig.NewHandler(os.Stderr)
			if err != nil {
				return err
			}

			server, err := preload.NewServer(p.Registry, p.Config, cf, slog.New(handler))
			if err != nil {
				return err
			}

			if socketPath == "" {
				socketPath = defaultSocketPath(p.DataDir)
			}

			fmt.Printf("preload: serving on %s\n", socketPath)

			return server.Serve(socketPath)
		},
	}
	start.Flags().StringVar(&socketPath, "socket", "", "Unix domain socket path (default: <datadir>/preload.sock)")
	start.Flags().StringVar(&controlFile, "control-file", "", "preload control YAML file (default: <corpus>/preload.yaml)")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop a running preloader by removing its socket file",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			if socketPath == "" {
				socketPath = defaultSocketPath(p.DataDir)
			}

			if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("preload stop: %w", err)
			}

			return nil
		},
	}
	stop.Flags().StringVar(&socketPath, "socket", "", "Unix domain socket path (default: <datadir>/preload.sock)")

	root.AddCommand(start, stop)

	return root
}

func defaultSocketPath(dataDir string) string {
	return dataDir + "/preload.sock"
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/spraakbanken/sparv/config"
	"github.com/spraakbanken/sparv/sparvdir"
)

func (a *app) newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the corpus's discovered source files",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			for _, f := range p.Files {
				fmt.Println(f)
			}

			return nil
		},
	}
}

func (a *app) newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List every registered importer, annotator, exporter, installer, and modelbuilder",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			for _, fn := range p.Registry.All() {
				fmt.Printf("%-24s %-12s %s\n", fn.ID, fn.Role, fn.Description)
			}

			return nil
		},
	}
}

func (a *app) newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in annotation presets",
		RunE: func(_ *cobra.Command, _ []string) error {
			presets := config.BuiltinPresets()

			names := make([]string, 0, len(presets))
			for name := range presets {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				p := presets[name]
				fmt.Printf("%s:\n", name)

				for _, entry := range p.Entries {
					fmt.Printf("  %s\n", entry)
				}
			}

			return nil
		},
	}
}

func (a *app) newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List resolved annotation class bindings (e.g. <token> -> segment.token)",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			classes := make([]string, 0, len(p.Bindings))
			for class := range p.Bindings {
				classes = append(classes, class)
			}

			sort.Strings(classes)

			for _, class := range classes {
				fmt.Printf("<%s> = %s\n", class, p.Bindings[class])
			}

			return nil
		},
	}
}

func (a *app) newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the ISO 639-3 languages any registered function restricts itself to",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			seen := map[string]bool{}

			for _, fn := range p.Registry.All() {
				for _, lang := range fn.Language {
					seen[lang] = true
				}
			}

			langs := make([]string, 0, len(seen))
			for lang := range seen {
				langs = append(langs, lang)
			}

			sort.Strings(langs)

			for _, lang := range langs {
				fmt.Println(lang)
			}

			return nil
		},
	}
}

func (a *app) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "Print the corpus's resolved configuration, or one dotted path's value",
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Printf("metadata.name: %s\n", p.Name)
				fmt.Printf("metadata.language: %s\n", p.Language)
				fmt.Printf("import.source_dir: %s\n", p.Corpus.SourceDir(""))
				fmt.Printf("import.importer: %s\n", p.Importer.ID)

				return nil
			}

			v, ok := p.Config.Get(args[0])
			if !ok {
				return fmt.Errorf("config: %q is not set", args[0])
			}

			fmt.Printf("%v\n", v)

			return nil
		},
	}
}

func (a *app) newSchemaCmd() *cobra.Command {
	var jsonSchema bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print every registered function's input/output identifiers, or its declared parameters as JSON Schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			if jsonSchema {
				doc, err := json.MarshalIndent(config.SchemaSetToJSONSchema(p.Schemas()), "", "  ")
				if err != nil {
					return err
				}

				fmt.Println(string(doc))

				return nil
			}

			for _, fn := range p.Registry.All() {
				fmt.Printf("%s:\n", fn.ID)

				for _, id := range fn.Inputs() {
					fmt.Printf("  in  %s\n", id)
				}

				for _, id := range fn.Outputs() {
					fmt.Printf("  out %s\n", id)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonSchema, "json", false, "emit declared function parameters as a JSON Schema document")

	return cmd
}

func (a *app) newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the Sparv data directory skeleton (config, presets, models, bin)",
		RunE: func(_ *cobra.Command, _ []string) error {
			dataDir := a.dataDir
			if dataDir == "" {
				d, err := sparvdir.DataDir()
				if err != nil {
					return err
				}

				dataDir = d
			}

			dirs := []string{
				dataDir,
				sparvdir.PresetsDir(dataDir),
				sparvdir.BinDir(dataDir),
				sparvdir.ModelsDir(dataDir),
			}

			for _, dir := range dirs {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}

			defaultsFile := sparvdir.ConfigDefaultFile(dataDir)

			if _, err := os.Stat(defaultsFile); os.IsNotExist(err) {
				if err := os.WriteFile(defaultsFile, []byte("import:\n  importer: text_import:parse\n"), 0o644); err != nil {
					return err
				}
			}

			fmt.Printf("initialized Sparv data directory at %s\n", dataDir)

			return nil
		},
	}
}

func (a *app) newCreateFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-file <source-file>",
		Short: "Create an empty source file under the corpus's configured source directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := a.loadPipeline()
			if err != nil {
				return err
			}

			path := filepath.Join(p.Corpus.SourceDir(p.Config.MustString("import.source_dir", "")), args[0])

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("create-file: %s already exists", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}

			return os.WriteFile(path, nil, 0o644)
		},
	}
}

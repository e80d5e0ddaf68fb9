package pipeline

import (
	"strings"

	"github.com/spraakbanken/sparv/exporter"
	"github.com/spraakbanken/sparv/importer"
	"github.com/spraakbanken/sparv/modules/geo"
	"github.com/spraakbanken/sparv/modules/lexical"
	"github.com/spraakbanken/sparv/modules/publish"
	"github.com/spraakbanken/sparv/modules/readability"
	"github.com/spraakbanken/sparv/modules/segment"
	"github.com/spraakbanken/sparv/modules/sentiment"
	"github.com/spraakbanken/sparv/modules/stanza"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/resolver"
)

// baseRegistry registers every importer, annotator, and modelbuilder this
// distribution ships, independent of any corpus's configuration.
// Exporters and the publish install/uninstall pair are registered
// separately (registerExporters), once class bindings and export
// columns are resolved, since their signatures are parameterized by
// both.
func baseRegistry() *registry.Registry {
	reg := registry.New()

	reg.MustRegister(importer.NewPlainText())
	reg.MustRegister(importer.NewXML(importer.XMLOptions{Namespace: "xml_import"}))
	reg.MustRegister(importer.NewDocx())
	reg.MustRegister(importer.NewOdt())

	reg.MustRegister(segment.NewToken())
	reg.MustRegister(segment.NewSentence())

	reg.MustRegister(lexical.NewBuildModel(""))
	reg.MustRegister(lexical.NewAnnotate(lexical.AnnotateOptions{TokenSpan: "segment.token"}))

	reg.MustRegister(stanza.NewBuildModel(""))
	reg.MustRegister(stanza.NewAnnotate(stanza.AnnotateOptions{TokenSpan: "segment.token", SentenceSpan: "segment.sentence"}))

	reg.MustRegister(geo.NewAnnotate(geo.AnnotateOptions{TokenSpan: "segment.token"}))
	reg.MustRegister(sentiment.NewAnnotate(sentiment.AnnotateOptions{TokenSpan: "segment.token"}))
	reg.MustRegister(readability.NewAnnotate(readability.AnnotateOptions{TokenSpan: "segment.token", SentenceSpan: "segment.sentence"}))

	return reg
}

// candidateIdentifiers lists every concrete (non-template) output
// identifier reg's functions declare, for annotation.ExpandList's "..."
// expansion.
func candidateIdentifiers(reg *registry.Registry) []string {
	var out []string

	for _, f := range reg.All() {
		for _, id := range f.Outputs() {
			if strings.ContainsAny(id, "*{") {
				continue
			}

			out = append(out, id)
		}
	}

	return out
}

// exportColumns is the default export.annotations list before class
// resolution: the baseform/lemgram/compwf/sense attributes of the
// lexicon lookup plus the sentence span, mirroring
// config.BuiltinPresets's "SWE_DEFAULT.saldo"/"SWE_DEFAULT.sentence"
// presets.
var exportColumns = []string{
	"<token>:saldo.baseform",
	"<token>:saldo.lemgram",
	"<token>:saldo.compwf",
	"<token>:saldo.sense",
	"<sentence>",
}

// registerExporters adds the CSV, VRT, FormattedXML, FrequencyList,
// CoNLLU, CWB, and SQL exporters plus the publish install/uninstall pair to reg, using
// bindings to resolve the <token>/<sentence> class references in
// columns into concrete identifiers.
func registerExporters(reg *registry.Registry, bindings resolver.Bindings, columns []string, rootSpan, exportRoot, publishDir string) error {
	resolvedColumns, err := bindings.ApplyAll(columns)
	if err != nil {
		return err
	}

	tokenSpan := bindings["token"]
	sentenceSpan := bindings["sentence"]

	reg.MustRegister(exporter.NewCSV(exporter.CSVOptions{
		TokenSpan:  tokenSpan,
		Header:     append([]string{"token"}, stripAngles(columns)...),
		Columns:    resolvedColumns,
		ExportPath: exportRoot + "/csv/{file}.csv",
	}))

	reg.MustRegister(exporter.NewVRT(exporter.VRTOptions{
		TokenSpan:    tokenSpan,
		SentenceSpan: sentenceSpan,
		Columns:      resolvedColumns,
		ExportPath:   exportRoot + "/vrt/{file}.vrt",
	}))

	reg.MustRegister(exporter.NewFormattedXML(exporter.FormattedXMLOptions{
		RootSpan:    rootSpan,
		Annotations: resolvedColumns,
		ExportPath:  exportRoot + "/xml/{file}.xml",
	}))

	reg.MustRegister(exporter.NewFrequencyList(exporter.FrequencyListOptions{
		Word:       tokenSpan,
		Lemma:      firstOrEmpty(resolvedColumns, 0),
		ExportPath: exportRoot + "/frequency_list/stats.csv",
	}))

	reg.MustRegister(exporter.NewCoNLLU(exporter.CoNLLUOptions{
		TokenSpan:    tokenSpan,
		SentenceSpan: sentenceSpan,
		Lemma:        firstOrEmpty(resolvedColumns, 0),
		ExportPath:   exportRoot + "/conllu/{file}.conllu",
	}))

	reg.MustRegister(exporter.NewCWB(exporter.CWBOptions{
		TokenSpan:  tokenSpan,
		ExportPath: exportRoot + "/cwb/{file}.corpus",
	}))

	reg.MustRegister(exporter.NewSQL(exporter.SQLOptions{
		Table:      "tokens",
		Word:       tokenSpan,
		Columns:    resolvedColumns,
		ExportPath: exportRoot + "/sql/dump.sql",
	}))

	reg.MustRegister(publish.NewInstall(publish.InstallOptions{
		ExportPath: exportRoot + "/vrt/{file}.vrt",
		ExportDir:  exportRoot + "/vrt",
		PublishDir: publishDir,
	}))

	reg.MustRegister(publish.NewUninstall(publish.InstallOptions{
		ExportPath: exportRoot + "/vrt/{file}.vrt",
		ExportDir:  exportRoot + "/vrt",
		PublishDir: publishDir,
	}))

	return nil
}

func firstOrEmpty(s []string, i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}

	return s[i]
}

// stripAngles renders a class-bearing column identifier as a header
// label, dropping the "<name>" wrapper so "<token>:saldo.baseform"
// becomes "saldo.baseform".
func stripAngles(columns []string) []string {
	out := make([]string, len(columns))

	for i, c := range columns {
		if idx := strings.Index(c, ">:"); idx != -1 {
			out[i] = c[idx+2:]
			continue
		}

		out[i] = c
	}

	return out
}

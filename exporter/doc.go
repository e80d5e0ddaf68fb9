// Package exporter implements the export-format writers of spec.md
// section 6: units that read the annotation files a run has produced
// for one or more source files and render them into a final corpus
// format under the corpus's export directory.
//
// Every exporter here is a registry.Function with Role ==
// registry.RoleExporter; per-file exporters (FormattedXML, CSV, VRT,
// CoNLLU) declare registry.ExportInput descriptors for the annotations
// they read and registry.Export for the path template they write. CWB is
// also per-file, reading its token span through registry.Annotation.
// Corpus-scoped exporters (FrequencyList, SQL) additionally read
// registry.AllSourceFilenames and iterate every file's work directory
// themselves.
package exporter

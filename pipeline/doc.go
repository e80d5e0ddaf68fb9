// Package pipeline wires a corpus's configuration, function registry, and
// source files into runnable scheduler graphs.
//
// Import and model building each run as their own scheduler pass ahead
// of annotation and export: registry.Text/registry.Source/registry.Model
// descriptors document that a function needs corpus text, the raw source
// file, or a model file, but graph.Build does not turn them into
// dependency edges (only Annotation/Data/Marker/ExportInput kinds are;
// see graph.resolvedInputIdentifiers), so nothing in the annotation graph
// would otherwise force an importer or modelbuilder to finish before a
// reader of its output. RunImport/RunModel/RunTargets enforce that
// ordering as three sequential scheduler.Scheduler.Run calls over three
// different graphs instead.
package pipeline

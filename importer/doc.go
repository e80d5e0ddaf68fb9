// Package importer implements the source-file importers of spec.md
// section 6: units that read one raw source file, produce its corpus
// text (the UTF-8 string every span annotation offsets into), and write
// a span/attribute annotation for every structural element the source
// format carries (spec.md section 4.3, "Importer": "writes a
// source-structure record listing every annotation it creates from the
// source").
//
// Grounded on magicschema's AST-walking style (walkNode/walkMapping in
// magicschema/infer.go -- visit, accumulate, recurse) but walking
// encoding/xml's token stream instead of a YAML AST; no third-party XML
// parser appears anywhere in the retrieved example corpus, so
// encoding/xml is used directly (a justified stdlib choice -- see
// DESIGN.md).
package importer

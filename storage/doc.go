// Package storage implements the per-file work-directory codec layer:
// span files, attribute files, data files, completeness markers, and the
// parent/child span-containment helper.
//
// # Work Directory Layout
//
// Each source file owns a directory "<workdir>/<file>/". Within it, every
// span annotation gets a subdirectory "<span-name>/" containing a "span"
// file (the span records) and one file per attribute ("<module>.<attr>").
// Corpus-level data and completeness markers live directly under the
// per-file directory, in reserved ".data" and ".markers" subdirectories.
//
// # Span File Format (bit-exact)
//
// A sequence of fixed 24-byte records: start (uint64 LE), end (uint64 LE),
// fraction numerator (uint32 LE), fraction denominator (uint32 LE). The
// record count equals the number of spans; there is no header. Spans
// within one annotation must be non-strictly monotone by (start, end,
// fraction).
//
// # Attribute File Format
//
// One value per span, newline-separated. An empty line means "undefined".
// Newlines embedded in a value are rejected unless the annotation was
// opened with AllowEmbeddedNewlines. Multi-valued attributes use the
// affix/delimiter convention of [EncodeSetValue].
//
// # Compression
//
// Every span/attribute/data file is written through a [Codec], selected by
// corpus configuration (default: the "gzip" codec). Writers always publish
// atomically: write to a temp file in the same directory, then rename.
package storage

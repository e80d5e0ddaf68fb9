// Package readability registers a per-sentence LIX readability score
// annotator, the "readability" entry in spec.md section 1's
// linguistic-tool inventory. Unlike stanza/geo/sentiment, LIX is a fixed
// arithmetic formula (no external model or tool), so this module computes
// a real score rather than standing in for one.
package readability

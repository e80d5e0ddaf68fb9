// Package sentiment registers a per-file sentiment-summary stand-in: a
// tiny fixed polarity wordlist scored against a file's tokens, written as
// a Data blob alongside geo's per-file KindData use (spec.md section
// 4.3). Matches the "sentiment" entry in spec.md section 1's
// linguistic-tool inventory without reimplementing real sentiment
// analysis (excluded by that section's Non-goals).
package sentiment

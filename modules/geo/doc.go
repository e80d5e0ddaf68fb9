// Package geo registers a per-file geotagging stand-in: a toy gazetteer
// lookup over each token, writing its hits as a Data blob rather than a
// per-token attribute. It exists to exercise the KindData descriptor
// contract end-to-end (spec.md section 4.3), matching the "geo" entry in
// spec.md section 1's linguistic-tool inventory without reimplementing
// real geotagging (excluded by that section's Non-goals).
package geo

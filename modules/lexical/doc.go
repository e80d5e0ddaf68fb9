// Package lexical registers a SALDO-style morphological lexicon lookup:
// a modelbuilder that materializes a lexicon file under the shared model
// directory, and an annotator that looks up each token's word form in it,
// producing baseform/lemgram/compound-analysis/sense attributes (spec.md
// section 1's "lexicon-based lemmatization/analysis" annotator module,
// section 8 scenario 4's "<token>:saldo.compwf" example).
package lexical

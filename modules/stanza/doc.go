// Package stanza registers a subprocess/preloadable-shaped annotator
// stand-in for the third-party tagging/parsing tools spec.md section 1
// lists ("tokenize, ssplit, pos, lemma, ner, parse, depparse"), grounded
// on the corenlp-golang client's Annotator naming scheme. It exists to
// exercise the Binary/Model/preloader descriptor contracts end-to-end,
// not to tag or parse correctly: spec.md section 1's Non-goals explicitly
// exclude "executing a rewrite of the third-party linguistic tools".
package stanza

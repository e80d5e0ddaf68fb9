// Package sparvdir resolves the on-disk layout named in spec.md section
// 6 ("Persisted state"): per-corpus work directories, export output
// directories, and logs; and the global Sparv data directory (models,
// binaries, built-in config/presets), overridable via the SPARV_DATADIR
// environment variable.
package sparvdir

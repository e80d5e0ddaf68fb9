// Package scheduler implements the per-file DAG walk of spec.md section
// 4.6 and the concurrency/resource model of spec.md section 5: a bounded
// worker pool drains a [graph.Graph]'s tasks in dependency order,
// consulting completeness markers to skip unchanged work, respecting
// per-function concurrency caps, and honoring dry-run, force, and
// keep-going semantics.
//
// Grounded on the worker-pool/result-channel shape documented for
// standardbeagle/lci's FileProcessor in the retrieved example corpus
// (fixed goroutine count pulling work off a channel, fanning completions
// into a results channel the driver loop drains), adapted here to a
// dependency-aware ready queue rather than a flat file list, and to
// per-function semaphores rather than a single global one.
package scheduler

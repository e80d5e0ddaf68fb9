// Package graph builds the dependency DAG described in spec.md section
// 4.5: given a registry, resolved class bindings, a requested target set,
// and the importer-reported file list, it determines which rule
// instances must run, scopes each to zero or more source files, and wires
// the edges a [scheduler.Scheduler] walks.
//
// Grounded on the teacher's Config.Registry constructor-by-name lookup
// (registry.ProducersOf already returns candidates sorted by Order, with
// same-order collisions rejected at Register time -- see registry.go),
// generalized here to a full dependency walk: wanted outputs are resolved
// to their unique producing [registry.Function], that function's own
// declared inputs are pushed back onto the work queue, and the resulting
// task set is wired into a DAG with cycle detection.
package graph

// Package resolver implements class and wildcard resolution, spec.md
// section 4.4: expanding every "<class>" reference in the user's wanted
// annotation list against the registry's declared class-tagged outputs,
// inferring bindings when only one candidate exists, and instantiating
// wildcard-bearing rule templates lazily against concrete bindings that
// actually appear.
//
// Grounded on the teacher's mergeAnnotations ("first element has highest
// priority") and mergeSchemaFields ("first non-zero wins, else fall
// through") merge shapes in magicschema/annotation.go, generalized here
// from merging schema fragments to selecting a class's bound identifier
// among several candidate producers.
package resolver

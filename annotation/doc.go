// Package annotation implements the annotation-identifier algebra: parsing
// names into their span/attribute/class/wildcard parts, and evaluating the
// `not`/`as`/`...` directives used in annotation lists (export.annotations,
// preset bodies, class overrides) against a full candidate set.
//
// # Identifier Grammar
//
// An identifier is either:
//
//   - a literal span: "module.name"
//   - a literal attribute: "module.name:module.attr"
//   - a class span: "<name>"
//   - a class attribute: "<name:attr>", itself a single class token (the
//     colon here is inside the angle brackets and does not separate a
//     base span from an attribute)
//   - any of the above followed by ":module.attr" to attach an attribute
//     to a class span, e.g. "<token>:saldo.sense"
//
// Names beginning with "custom." mark user-local definitions. Wildcards are
// "{placeholder}" substrings appearing anywhere in the identifier.
//
// # List Algebra
//
// [ExpandList] evaluates one annotation list (in declaration order) against
// a candidate set: plain entries include by name, "not X" excludes X, "X as
// Y" renames X to Y on output, and "..." expands to every candidate not
// already listed or excluded. A list made only of negations is rejected --
// spec.md requires at least one positive entry (an inclusion or "...")
// before exclusions are meaningful.
package annotation

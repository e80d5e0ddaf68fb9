// Package config implements the layered corpus configuration described in
// spec.md section 4.2: a corpus config.yaml, a chain of parent configs,
// built-in defaults, and function-declared defaults, merged high-to-low
// priority and addressed by dotted path.
//
// Loading and merging is grounded on the teacher's magicschema config
// machinery: goccy/go-yaml for parsing (the same library magicschema uses
// for comment-aware AST walking), and mergeSchemaFields's "first non-zero
// wins" priority-merge shape, generalized from merging JSON Schema
// fragments to merging arbitrary YAML-decoded value trees.
package config

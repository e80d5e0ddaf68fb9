package resolver

import (
	"fmt"
	"strings"

	"github.com/spraakbanken/sparv/annotation"
	"github.com/spraakbanken/sparv/sparverr"
)

// Bindings maps a class key ("token", "sentence", "token:word", ...) to the
// concrete annotation identifier the resolver chose for it (spec.md
// section 3, "Class binding").
type Bindings map[string]string

// classKey returns the class key a Parsed identifier's class reference
// binds under: "name" for a pure class span, "name:attr" for a
// "<name:attr>" class attribute token.
func classKey(p annotation.Parsed) string {
	if p.ClassAttr != "" {
		return p.Class + ":" + p.ClassAttr
	}

	return p.Class
}

// Apply substitutes identifier's class reference (if any) with its bound
// concrete identifier. A "<token>" pure class span resolves directly to
// its binding; a "<token:word>" class-attribute token also resolves
// directly, since the class itself names a concrete attribute; a
// "<token>:misc.foo" form resolves the class span and reattaches the
// literal attribute suffix. Non-class identifiers pass through unchanged.
func (b Bindings) Apply(identifier string) (string, error) {
	p, err := annotation.Parse(identifier)
	if err != nil {
		return "", err
	}

	if !p.IsClass() {
		return identifier, nil
	}

	key := classKey(p)

	bound, ok := b[key]
	if !ok {
		return "", sparverr.Configf(identifier, "unresolved class <%s>", key)
	}

	if p.ClassAttr != "" || p.Attribute == "" {
		return bound, nil
	}

	return bound + ":" + p.Attribute, nil
}

// ApplyAll applies Apply across a list of identifiers.
func (b Bindings) ApplyAll(identifiers []string) ([]string, error) {
	out := make([]string, 0, len(identifiers))

	for _, id := range identifiers {
		resolved, err := b.Apply(id)
		if err != nil {
			return nil, err
		}

		out = append(out, resolved)
	}

	return out, nil
}

// String renders bindings for diagnostics/CLI output, sorted by class key.
func (b Bindings) String() string {
	var sb strings.Builder

	for _, k := range sortedKeys(b) {
		fmt.Fprintf(&sb, "<%s> = %s\n", k, b[k])
	}

	return sb.String()
}

func sortedKeys(b Bindings) []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}

	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}

	return keys
}

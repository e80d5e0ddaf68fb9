package annotation

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by this package, matched with [errors.Is].
var (
	ErrEmptyName       = errors.New("empty annotation name")
	ErrInvalidChars    = errors.New("annotation name contains characters outside the accepted set")
	ErrUnbalancedClass = errors.New("unbalanced class brackets")
	ErrNegationOnly    = errors.New("annotation list contains only negations")
	ErrRenameCollision = errors.New("renaming collides with another annotation")
)

// acceptedChars is the charset from spec.md section 4.1: lowercase ASCII
// letters, digits, and the listed punctuation. Keywords "not " and " as "
// are list-level syntax, checked separately in ExpandList.
func acceptedChars(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	}

	switch r {
	case '_', '.', ':', '<', '>', '+', '{', '}', '-', '/':
		return true
	}

	return false
}

// ValidateName reports whether name uses only the accepted character set.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	for _, r := range name {
		if !acceptedChars(r) {
			return fmt.Errorf("%w: %q (rune %q)", ErrInvalidChars, name, r)
		}
	}

	return nil
}

// Parsed is the decomposition of one annotation identifier.
type Parsed struct {
	// Name is the identifier as given, unchanged.
	Name string
	// BaseSpan is the span this attribute attaches to. For a pure span
	// annotation this equals Name (minus any attribute suffix is moot,
	// since there is none).
	BaseSpan string
	// Attribute is the attribute name, or "" for a pure span.
	Attribute string
	// Class is non-empty when BaseSpan is a class reference ("<name>" or
	// "<name:attr>"); it holds the text inside the brackets.
	Class string
	// ClassAttr is the attribute half of a "<name:attr>" class token.
	ClassAttr string
	// Wildcards lists every "{placeholder}" substring found in Name, in
	// order of appearance.
	Wildcards []string
	// Custom is true when BaseSpan begins with "custom.".
	Custom bool
}

// IsClass reports whether the base span is a class reference.
func (p Parsed) IsClass() bool { return p.Class != "" }

// HasAttribute reports whether the identifier names an attribute rather
// than a pure span.
func (p Parsed) HasAttribute() bool { return p.Attribute != "" }

// Parse splits identifier into its base span / attribute / class /
// wildcard parts.
func Parse(identifier string) (Parsed, error) {
	if err := ValidateName(identifier); err != nil {
		return Parsed{}, err
	}

	split, err := topLevelColonSplit(identifier)
	if err != nil {
		return Parsed{}, err
	}

	base, attr := split[0], split[1]

	p := Parsed{
		Name:      identifier,
		BaseSpan:  base,
		Attribute: attr,
		Wildcards: findWildcards(identifier),
	}

	if strings.HasPrefix(base, "<") && strings.HasSuffix(base, ">") {
		inner := base[1 : len(base)-1]

		classSplit, cErr := topLevelColonSplit(inner)
		if cErr != nil {
			return Parsed{}, cErr
		}

		p.Class = classSplit[0]
		p.ClassAttr = classSplit[1]
	}

	p.Custom = strings.HasPrefix(base, "custom.") || strings.HasPrefix(p.Class, "custom.")

	return p, nil
}

// topLevelColonSplit splits s on the first ':' that is not nested inside
// '<' '>' brackets, returning [left, right]. right is "" if no such colon
// exists.
func topLevelColonSplit(s string) ([2]string, error) {
	depth := 0

	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return [2]string{}, ErrUnbalancedClass
			}
		case ':':
			if depth == 0 {
				return [2]string{s[:i], s[i+1:]}, nil
			}
		}
	}

	if depth != 0 {
		return [2]string{}, ErrUnbalancedClass
	}

	return [2]string{s, ""}, nil
}

// findWildcards returns every "{...}" substring in s, in order.
func findWildcards(s string) []string {
	var out []string

	for {
		start := strings.IndexByte(s, '{')
		if start == -1 {
			break
		}

		end := strings.IndexByte(s[start:], '}')
		if end == -1 {
			break
		}

		out = append(out, s[start:start+end+1])
		s = s[start+end+1:]
	}

	return out
}

package annotation

import "strings"

// Ellipsis is the special token meaning "everything else not already
// listed or excluded".
const Ellipsis = "..."

const (
	notPrefix = "not "
	asInfix   = " as "
)

// entryKind classifies one raw list entry.
type entryKind int

const (
	kindInclude entryKind = iota
	kindExclude
	kindRename
	kindEllipsis
)

type entry struct {
	kind entryKind
	name string // subject name for include/exclude/rename
	to   string // rename target, for kindRename
}

func parseEntry(raw string) entry {
	switch {
	case raw == Ellipsis:
		return entry{kind: kindEllipsis}
	case strings.HasPrefix(raw, notPrefix):
		return entry{kind: kindExclude, name: strings.TrimPrefix(raw, notPrefix)}
	default:
		if idx := strings.Index(raw, asInfix); idx >= 0 {
			return entry{
				kind: kindRename,
				name: raw[:idx],
				to:   raw[idx+len(asInfix):],
			}
		}

		return entry{kind: kindInclude, name: raw}
	}
}

// ExpandList evaluates input (in order) against candidates per spec.md
// section 4.1/8: "..." expands to every candidate not yet listed or
// excluded, "not X" excludes X, "X as Y" renames X to Y in the output, and
// plain entries include verbatim. A list made only of negations (no "...",
// no plain inclusion, no rename) is rejected.
func ExpandList(input []string, candidates []string) ([]string, error) {
	if len(input) == 0 {
		return nil, nil
	}

	var (
		order       []string        // included names, in insertion order
		included    = map[string]bool{}
		excluded    = map[string]bool{}
		renameTo    = map[string]string{}
		sawPositive bool
	)

	include := func(name string) {
		if excluded[name] || included[name] {
			return
		}

		included[name] = true
		order = append(order, name)
	}

	for _, raw := range input {
		e := parseEntry(raw)

		switch e.kind {
		case kindEllipsis:
			sawPositive = true

			for _, c := range candidates {
				include(c)
			}

		case kindExclude:
			excluded[e.name] = true

			if included[e.name] {
				included[e.name] = false
				order = removeName(order, e.name)
			}

		case kindRename:
			sawPositive = true
			include(e.name)
			renameTo[e.name] = e.to

		case kindInclude:
			sawPositive = true
			include(e.name)
		}
	}

	if !sawPositive {
		return nil, ErrNegationOnly
	}

	out := make([]string, 0, len(order))
	seen := map[string]bool{}

	for _, name := range order {
		final := name
		if to, ok := renameTo[name]; ok {
			final = to
		}

		if seen[final] {
			return nil, ErrRenameCollision
		}

		seen[final] = true
		out = append(out, final)
	}

	return out, nil
}

func removeName(order []string, name string) []string {
	out := order[:0:0]

	for _, n := range order {
		if n != name {
			out = append(out, n)
		}
	}

	return out
}

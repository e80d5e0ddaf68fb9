package graph

import (
	"regexp"
	"strings"
)

// wildcardNames returns every "{name}" placeholder in template, in order.
func wildcardNames(template string) []string {
	var out []string

	rest := template
	for {
		start := strings.IndexByte(rest, '{')
		if start == -1 {
			break
		}

		end := strings.IndexByte(rest[start:], '}')
		if end == -1 {
			break
		}

		out = append(out, rest[start+1:start+end])
		rest = rest[start+end+1:]
	}

	return out
}

// matchWildcards attempts to match concrete against template (which may
// contain "{name}" placeholders), returning the bound values keyed by
// placeholder name. A template with no placeholders matches only if it
// equals concrete exactly.
func matchWildcards(template, concrete string) (map[string]string, bool) {
	names := wildcardNames(template)
	if len(names) == 0 {
		return map[string]string{}, template == concrete
	}

	var pattern strings.Builder
	pattern.WriteByte('^')

	rest := template
	for _, name := range names {
		idx := strings.Index(rest, "{"+name+"}")
		pattern.WriteString(regexp.QuoteMeta(rest[:idx]))
		pattern.WriteString("([^:]+)")
		rest = rest[idx+len(name)+2:]
	}

	pattern.WriteString(regexp.QuoteMeta(rest))
	pattern.WriteByte('$')

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, false
	}

	m := re.FindStringSubmatch(concrete)
	if m == nil {
		return nil, false
	}

	out := make(map[string]string, len(names))

	for i, name := range names {
		out[name] = m[i+1]
	}

	return out, true
}

// substituteWildcards replaces every "{name}" in template with its bound
// value.
func substituteWildcards(template string, bindings map[string]string) string {
	out := template
	for name, value := range bindings {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}

	return out
}


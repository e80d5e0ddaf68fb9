package resolver

import (
	"sort"

	"github.com/spraakbanken/sparv/annotation"
	"github.com/spraakbanken/sparv/config"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/sparverr"
)

// Diagnostic records one class-resolution decision, surfaced to the user
// per spec.md section 3 ("Inferred bindings are visible to the user").
type Diagnostic struct {
	Class    string
	Bound    string
	Inferred bool
	Reason   string
}

// Resolve computes class bindings for every class reference reachable
// from wanted, per spec.md section 4.4:
//
//  1. collect every class reference appearing in wanted;
//  2. for each, prefer a user/config override (config path "classes.<key>",
//     expected to already contain preset defaults merged in by the
//     caller per spec.md section 4.2's preset/class-default priority);
//  3. otherwise union the registry's candidate producers tagged with that
//     class, filtered by the corpus language; bind if exactly one remains;
//  4. repeat to a fixed point, since a bound identifier can itself
//     reference further classes.
//
// A class with zero candidates, or more than one with no override, is a
// Configuration error (spec.md section 4.4: "if the user has made a
// conflicting choice, error"; an unresolved ambiguity is treated the same
// way -- see DESIGN.md's note on Open Question (a)).
func Resolve(reg *registry.Registry, cfg *config.Config, wanted []string) (Bindings, []Diagnostic, error) {
	lang := cfg.MustString("metadata.language", "")

	bindings := Bindings{}
	var diags []Diagnostic

	pending := collectClassKeys(wanted)

	for len(pending) > 0 {
		key := pending[0]
		pending = pending[1:]

		if _, done := bindings[key]; done {
			continue
		}

		bound, diag, err := resolveOne(reg, cfg, key, lang)
		if err != nil {
			return nil, nil, err
		}

		bindings[key] = bound
		diags = append(diags, diag)

		for _, k := range collectClassKeys([]string{bound}) {
			if _, done := bindings[k]; !done {
				pending = append(pending, k)
			}
		}
	}

	return bindings, diags, nil
}

func resolveOne(reg *registry.Registry, cfg *config.Config, key, lang string) (string, Diagnostic, error) {
	if v, ok := cfg.Get("classes." + key); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, Diagnostic{Class: key, Bound: s, Reason: "configured"}, nil
		}
	}

	candidates := candidatesForClass(reg, key, lang)

	switch len(candidates) {
	case 0:
		return "", Diagnostic{}, sparverr.Configf("classes."+key, "no function produces class <%s>", key)
	case 1:
		return candidates[0], Diagnostic{Class: key, Bound: candidates[0], Inferred: true, Reason: "single candidate"}, nil
	default:
		return "", Diagnostic{}, sparverr.Configf("classes."+key,
			"class <%s> is ambiguous between %v; set classes.%s explicitly", key, candidates, key)
	}
}

// collectClassKeys scans identifiers for class references (parse failures
// are skipped here; ExpandList/ValidateName already rejects malformed
// names before this point in the normal pipeline).
func collectClassKeys(identifiers []string) []string {
	var out []string

	for _, id := range identifiers {
		p, err := annotation.Parse(id)
		if err != nil || !p.IsClass() {
			continue
		}

		out = append(out, classKey(p))
	}

	return out
}

// candidatesForClass returns every output identifier any registered
// function tags with class key, restricted to functions applicable to
// lang (empty lang means no language filter), sorted for determinism.
func candidatesForClass(reg *registry.Registry, key, lang string) []string {
	seen := map[string]bool{}

	var out []string

	for _, f := range reg.All() {
		if lang != "" && !f.AppliesToLanguage(lang) {
			continue
		}

		for _, d := range f.Signature.Outputs {
			if d.Class == "" {
				continue
			}

			if d.Class != key {
				continue
			}

			if !seen[d.Identifier] {
				seen[d.Identifier] = true
				out = append(out, d.Identifier)
			}
		}
	}

	sort.Strings(out)

	return out
}

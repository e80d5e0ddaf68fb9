package config

import (
	"github.com/spraakbanken/sparv/annotation"
	"github.com/spraakbanken/sparv/sparverr"
)

// Preset is one named, reusable annotation list (spec.md section 4.2: "an
// uppercase snake-case namespace such as SWE_DEFAULT.saldo"). Its Entries
// follow the same include/exclude/rename/"..." grammar as a user
// annotation list, and may themselves reference other presets. It may
// also declare default class bindings that a user's own config overrides.
type Preset struct {
	Entries       []string
	ClassBindings map[string]string
}

// PresetSet maps preset name to its definition.
type PresetSet map[string]Preset

// ExpandPresets replaces every preset reference in names with its
// Entries, recursively, preserving plain identifiers, "not X", "X as Y",
// and "..." tokens verbatim so a later call to annotation.ExpandList can
// resolve them against the registry's candidate outputs.
//
// A preset may reference other presets, and those references are
// expanded recursively with no depth limit, but any preset reached through
// another preset (rather than named directly in names) must not contain
// "..." itself: if it does, the expansion is rejected (see DESIGN.md).
// Presets that reference each other in a cycle are rejected.
func ExpandPresets(names []string, presets PresetSet) ([]string, error) {
	out := make([]string, 0, len(names))

	for _, name := range names {
		expanded, err := expandPresetRef(name, presets, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}

	return out, nil
}

func expandPresetRef(name string, presets PresetSet, depth int) ([]string, error) {
	preset, isPreset := presets[name]
	if !isPreset {
		return []string{name}, nil
	}

	// A reference chain longer than the number of presets must revisit one.
	if depth > len(presets) {
		return nil, sparverr.Configf(name, "preset %q is part of a reference cycle", name)
	}

	if depth >= 1 {
		for _, e := range preset.Entries {
			if e == annotation.Ellipsis {
				return nil, sparverr.Configf(name,
					"nested preset %q contains %q at nesting depth %d; only one level of preset expansion may use it",
					name, annotation.Ellipsis, depth+1)
			}
		}
	}

	out := make([]string, 0, len(preset.Entries))
	for _, e := range preset.Entries {
		expanded, err := expandPresetRef(e, presets, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}

	return out, nil
}

// ClassBindingsOf collects the default class bindings declared by every
// preset referenced (directly or transitively) from names. User-set class
// bindings in the corpus config must override these; callers apply that
// override after merging. When two presets bind the same class, the first
// one reached (names in order, each preset's entries depth first) is kept
// and the conflict is not reported.
func ClassBindingsOf(names []string, presets PresetSet) map[string]string {
	bindings := map[string]string{}
	seen := map[string]bool{}

	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true

		preset, ok := presets[name]
		if !ok {
			return
		}

		for class, id := range preset.ClassBindings {
			if _, exists := bindings[class]; !exists {
				bindings[class] = id
			}
		}

		for _, e := range preset.Entries {
			visit(e)
		}
	}

	for _, n := range names {
		visit(n)
	}

	return bindings
}

package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/spraakbanken/sparv/sparverr"
)

// Schema describes one config option a registered function declares,
// per spec.md section 4.2: description, optional default, optional
// datatype, optional choice list, optional regex, optional numeric
// bounds, optional conditional dependence.
type Schema struct {
	Path        string
	Description string
	Default     any
	Datatype    string // "string", "bool", "int", "float", "list", "" (any)
	Choices     []string
	Pattern     string
	Minimum     *float64
	Maximum     *float64
	// DependsOn, if set, names another path that must itself be set
	// (truthy) for this one to be meaningful; ValidateAgainst does not
	// enforce this beyond recording it for documentation purposes.
	DependsOn string
}

// ValidateAgainst checks cfg against the declared schemas: every path
// cfg actually sets must be declared by a schema (spec.md section 4.2:
// "a path referenced but not declared is an error"; when several schemas
// declare the same path, the last one in schemas is used), and
// every declared value present in cfg must satisfy its datatype, choice
// list, pattern, and numeric bounds.
func ValidateAgainst(schemas []Schema, cfg *Config) error {
	declared := make(map[string]Schema, len(schemas))
	for _, s := range schemas {
		declared[s.Path] = s
	}

	for _, path := range setPaths(cfg) {
		s, ok := declared[path]
		if !ok {
			return sparverr.Configf(path, "path is set but not declared by any registered function")
		}

		v, _ := cfg.Get(path)
		if err := validateValue(s, v); err != nil {
			return sparverr.Configf(path, "%w", err)
		}
	}

	return nil
}

func validateValue(s Schema, v any) error {
	switch s.Datatype {
	case "string":
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", v)
		}
		if s.Pattern != "" {
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %w", s.Pattern, err)
			}
			if !re.MatchString(str) {
				return fmt.Errorf("value %q does not match pattern %q", str, s.Pattern)
			}
		}
		if len(s.Choices) > 0 && !contains(s.Choices, str) {
			return fmt.Errorf("value %q not among choices %v", str, s.Choices)
		}
	case "bool":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected a bool, got %T", v)
		}
	case "int", "float":
		n, ok := asFloat(v)
		if !ok {
			return fmt.Errorf("expected a number, got %T", v)
		}
		if s.Minimum != nil && n < *s.Minimum {
			return fmt.Errorf("value %v below minimum %v", n, *s.Minimum)
		}
		if s.Maximum != nil && n > *s.Maximum {
			return fmt.Errorf("value %v above maximum %v", n, *s.Maximum)
		}
	case "list":
		if _, ok := v.([]any); !ok {
			return fmt.Errorf("expected a list, got %T", v)
		}
	}

	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// setPaths enumerates every dotted path actually set somewhere in cfg's
// layers (used only for schema validation's "declared or error" check).
func setPaths(cfg *Config) []string {
	seen := map[string]bool{}
	var out []string

	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}

			if sub, ok := v.(map[string]any); ok {
				walk(path, sub)
				continue
			}

			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
		}
	}

	for _, layer := range cfg.layers {
		walk("", layer)
	}

	return out
}

// ToJSONSchema projects s to a *jsonschema.Schema fragment, reusing the
// teacher's magicschema field conventions (Description/Default/Enum/
// Pattern/Minimum/Maximum) so `sparv schema` can emit a JSON Schema
// document for editor tooling from the same declarations used at
// validation time.
func (s Schema) ToJSONSchema() *jsonschema.Schema {
	js := &jsonschema.Schema{
		Description: s.Description,
		Pattern:     s.Pattern,
	}

	if s.Default != nil {
		if b, err := json.Marshal(s.Default); err == nil {
			js.Default = json.RawMessage(b)
		}
	}

	switch s.Datatype {
	case "string":
		js.Type = "string"
	case "bool":
		js.Type = "boolean"
	case "int":
		js.Type = "integer"
	case "float":
		js.Type = "number"
	case "list":
		js.Type = "array"
	}

	for _, c := range s.Choices {
		js.Enum = append(js.Enum, c)
	}

	if s.Minimum != nil {
		js.Minimum = s.Minimum
	}
	if s.Maximum != nil {
		js.Maximum = s.Maximum
	}

	return js
}

// SchemaSetToJSONSchema projects a flat list of dotted-path Schemas into
// one nested object *jsonschema.Schema, splitting each Path on ".".
func SchemaSetToJSONSchema(schemas []Schema) *jsonschema.Schema {
	root := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}

	for _, s := range schemas {
		parts := strings.Split(s.Path, ".")
		insertSchema(root, parts, s)
	}

	return root
}

func insertSchema(node *jsonschema.Schema, parts []string, s Schema) {
	if node.Properties == nil {
		node.Properties = map[string]*jsonschema.Schema{}
	}

	head := parts[0]

	if len(parts) == 1 {
		node.Properties[head] = s.ToJSONSchema()
		return
	}

	child, ok := node.Properties[head]
	if !ok {
		child = &jsonschema.Schema{Type: "object", Properties: map[string]*jsonschema.Schema{}}
		node.Properties[head] = child
	}

	insertSchema(child, parts[1:], s)
}

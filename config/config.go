package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/spraakbanken/sparv/sparverr"
)

// Config is a merged, dotted-path-addressable configuration tree, built
// from a corpus config.yaml, its parent chain, built-in defaults, and
// function-declared defaults (spec.md section 4.2).
type Config struct {
	corpusDir string
	// layers holds every contributing layer, highest priority first:
	// [0] corpus config, [1..n] parent chain in listed order, [n+1]
	// built-in defaults, [n+2] function-declared defaults.
	layers []map[string]any
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	defaultsFile     string
	functionDefaults map[string]any
}

// WithDefaultsFile points Load at the built-in defaults file (normally
// config/config_default.yaml under the Sparv data directory).
func WithDefaultsFile(path string) Option {
	return func(o *loadOptions) { o.defaultsFile = path }
}

// WithFunctionDefaults supplies the lowest-priority layer: defaults
// declared by registered functions via registry.ParamSpec.Default.
func WithFunctionDefaults(values map[string]any) Option {
	return func(o *loadOptions) { o.functionDefaults = values }
}

// Load reads corpusDir/config.yaml, follows its parent: chain (a string or
// a list of strings, each resolved relative to the file declaring it),
// and merges built-in and function defaults underneath, per the priority
// order in spec.md section 4.2.
func Load(corpusDir string, opts ...Option) (*Config, error) {
	var lo loadOptions
	for _, opt := range opts {
		opt(&lo)
	}

	cfg := &Config{corpusDir: corpusDir}

	own, err := readYAMLFile(filepath.Join(corpusDir, "config.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.layers = append(cfg.layers, own)

	parentLayers, err := loadParentChain(corpusDir, own, map[string]bool{
		filepath.Join(corpusDir, "config.yaml"): true,
	})
	if err != nil {
		return nil, err
	}
	cfg.layers = append(cfg.layers, parentLayers...)

	if lo.defaultsFile != "" {
		defaults, err := readYAMLFile(lo.defaultsFile)
		if err != nil {
			return nil, err
		}
		cfg.layers = append(cfg.layers, defaults)
	}

	if lo.functionDefaults != nil {
		cfg.layers = append(cfg.layers, lo.functionDefaults)
	}

	return cfg, nil
}

func readYAMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, sparverr.Configf(path, "reading config file: %w", err)
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, sparverr.Configf(path, "parsing config file: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}

	return m, nil
}

// loadParentChain resolves the "parent" key of a just-loaded config layer
// (a single string or a list of strings, each a path relative to
// corpusDir), returning their merged layers in priority order -- earlier
// entries in the list win over later ones, per spec.md section 4.2 ("first
// parent wins on conflict"). seen guards against parent cycles.
func loadParentChain(corpusDir string, layer map[string]any, seen map[string]bool) ([]map[string]any, error) {
	raw, ok := layer["parent"]
	if !ok {
		return nil, nil
	}

	var names []string
	switch v := raw.(type) {
	case string:
		names = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, sparverr.Configf("parent", "parent list entries must be strings, got %T", item)
			}
			names = append(names, s)
		}
	default:
		return nil, sparverr.Configf("parent", "parent must be a string or list of strings, got %T", raw)
	}

	var out []map[string]any
	for _, name := range names {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(corpusDir, name)
		}
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "config.yaml")
		}

		if seen[path] {
			return nil, sparverr.Configf(path, "parent chain cycle detected")
		}
		seen[path] = true

		parentLayer, err := readYAMLFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, parentLayer)

		grandparents, err := loadParentChain(filepath.Dir(path), parentLayer, seen)
		if err != nil {
			return nil, err
		}
		out = append(out, grandparents...)
	}

	return out, nil
}

// Get resolves a dotted path ("section.key" or deeper) against the merged
// layers, highest priority first, returning the first layer that defines
// it.
func (c *Config) Get(path string) (any, bool) {
	parts := strings.Split(path, ".")

	for _, layer := range c.layers {
		if v, ok := lookup(layer, parts); ok {
			return v, true
		}
	}

	return nil, false
}

func lookup(m map[string]any, parts []string) (any, bool) {
	if len(parts) == 0 {
		return nil, false
	}

	v, ok := m[parts[0]]
	if !ok {
		return nil, false
	}
	if len(parts) == 1 {
		return v, true
	}

	sub, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	return lookup(sub, parts[1:])
}

// MustString resolves path as a string, returning def if unset.
func (c *Config) MustString(path, def string) string {
	v, ok := c.Get(path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// MustBool resolves path as a bool, returning def if unset.
func (c *Config) MustBool(path string, def bool) bool {
	v, ok := c.Get(path)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// MustInt resolves path as an int, returning def if unset.
func (c *Config) MustInt(path string, def int) int {
	v, ok := c.Get(path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case uint64:
		return int(n)
	default:
		return def
	}
}

// MustStringList resolves path as a list of strings, returning nil if
// unset or not a list.
func (c *Config) MustStringList(path string) []string {
	v, ok := c.Get(path)
	if !ok {
		return nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}

	return out
}

// WithClassDefaults returns a copy of c with one additional,
// lowest-priority layer setting "classes.<class>" for each entry in
// defaults -- the preset-declared class bindings of spec.md section 4.2
// (ClassBindingsOf), applied beneath the corpus config and its parent
// chain so an explicit "classes:" entry in the corpus's own config
// always wins over a preset's default.
func (c *Config) WithClassDefaults(defaults map[string]string) *Config {
	if len(defaults) == 0 {
		return c
	}

	classes := make(map[string]any, len(defaults))
	for class, id := range defaults {
		classes[class] = id
	}

	out := &Config{
		corpusDir: c.corpusDir,
		layers:    make([]map[string]any, 0, len(c.layers)+1),
	}
	out.layers = append(out.layers, c.layers...)
	out.layers = append(out.layers, map[string]any{"classes": classes})

	return out
}

// namespaced returns a view of c in which Get first tries
// "<section>.<name>.<rest>", then falls back to "<section>.<rest>" -- the
// import/export inheritance rule of spec.md section 4.2.
type namespaced struct {
	base         *Config
	section, name string
}

func (c *Config) namespacedView(section, name string) *namespaced {
	return &namespaced{base: c, section: section, name: name}
}

// ImporterConfig returns the effective configuration for the named
// importer: unset keys under import.<name> inherit from the import
// section.
func (c *Config) ImporterConfig(name string) *NamespaceConfig {
	return &NamespaceConfig{ns: c.namespacedView("import", name)}
}

// ExporterConfig returns the effective configuration for the named
// exporter: unset keys under export.<name> inherit from the export
// section.
func (c *Config) ExporterConfig(name string) *NamespaceConfig {
	return &NamespaceConfig{ns: c.namespacedView("export", name)}
}

// NamespaceConfig is a namespace-inheriting view over a Config, as
// returned by ImporterConfig/ExporterConfig.
type NamespaceConfig struct {
	ns *namespaced
}

// Get resolves key first under "<section>.<name>.<key>" then under
// "<section>.<key>".
func (n *NamespaceConfig) Get(key string) (any, bool) {
	if v, ok := n.ns.base.Get(fmt.Sprintf("%s.%s.%s", n.ns.section, n.ns.name, key)); ok {
		return v, true
	}
	return n.ns.base.Get(fmt.Sprintf("%s.%s", n.ns.section, key))
}

// MustString is the namespaced equivalent of Config.MustString.
func (n *NamespaceConfig) MustString(key, def string) string {
	v, ok := n.Get(key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

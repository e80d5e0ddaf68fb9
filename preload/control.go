package preload

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// AnnotatorSpec is one entry of the preloader's control file: a rule id to
// warm and the parameter values to start it with (spec.md section 4.8).
type AnnotatorSpec struct {
	RuleID string         `yaml:"rule_id"`
	Params map[string]any `yaml:"params"`
}

// ControlFile is the YAML document read at `sparv preload start`, naming
// every annotator to keep warm.
type ControlFile struct {
	Annotators []AnnotatorSpec `yaml:"annotators"`
}

// LoadControlFile reads and parses path, consistent with the config
// package's goccy/go-yaml usage.
func LoadControlFile(path string) (ControlFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ControlFile{}, fmt.Errorf("preload: reading control file: %w", err)
	}

	var cf ControlFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return ControlFile{}, fmt.Errorf("preload: parsing control file: %w", err)
	}

	return cf, nil
}

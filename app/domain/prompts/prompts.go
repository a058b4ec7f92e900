package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultPrompts []byte

type Prompt struct {
	System      string  `yaml:"system"`
	User        string  `yaml:"user"`
	Temperature float32 `yaml:"temperature"`
}

type Set struct {
	QueryGeneration Prompt `yaml:"query_generation"`
	Extraction      Prompt `yaml:"extraction"`
	Enrichment      Prompt `yaml:"enrichment"`
}

// Default returns the built-in prompt set.
func Default() (*Set, error) {
	set := &Set{}
	if err := yaml.Unmarshal(defaultPrompts, set); err != nil {
		return nil, fmt.Errorf("parse default prompts: %w", err)
	}
	return set, nil
}

// Load overlays the prompts found in path onto the defaults.
// An empty path yields the defaults.
func Load(path string) (*Set, error) {
	set, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return set, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	var override Set
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("parse prompts file %s: %w", path, err)
	}
	set.QueryGeneration = merge(set.QueryGeneration, override.QueryGeneration)
	set.Extraction = merge(set.Extraction, override.Extraction)
	set.Enrichment = merge(set.Enrichment, override.Enrichment)
	return set, nil
}

func merge(base, override Prompt) Prompt {
	if override.System != "" {
		base.System = override.System
	}
	if override.User != "" {
		base.User = override.User
	}
	if override.Temperature != 0 {
		base.Temperature = override.Temperature
	}
	return base
}

// RenderUser executes the user template against data.
func (p Prompt) RenderUser(data any) (string, error) {
	tmpl, err := template.New("user").Option("missingkey=error").Parse(p.User)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

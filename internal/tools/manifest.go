package tools

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is an optional YAML overlay applied to the built-in catalog at
// startup. It can reword summaries and descriptions or disable tools
// entirely; it cannot introduce new tools.
type Manifest struct {
	Tools []ManifestTool `yaml:"tools"`
}

// ManifestTool is one overlay entry, matched to a catalog tool by name.
type ManifestTool struct {
	Name        string `yaml:"name"`
	Summary     string `yaml:"summary,omitempty"`
	Description string `yaml:"description,omitempty"`
	Disabled    bool   `yaml:"disabled,omitempty"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse tool manifest: %w", err)
	}
	return &m, nil
}

// ApplyManifest overlays a manifest onto a definition list. An entry naming
// a tool that does not exist is a configuration error.
func ApplyManifest(defs []ToolDefinition, m *Manifest) ([]ToolDefinition, error) {
	if m == nil {
		return defs, nil
	}

	byName := make(map[string]int, len(defs))
	for i, d := range defs {
		byName[d.Name] = i
	}

	disabled := make(map[string]bool)
	for _, entry := range m.Tools {
		i, ok := byName[entry.Name]
		if !ok {
			return nil, fmt.Errorf("tool manifest references unknown tool '%s'", entry.Name)
		}
		if entry.Disabled {
			disabled[entry.Name] = true
			continue
		}
		if entry.Summary != "" {
			defs[i].Summary = entry.Summary
		}
		if entry.Description != "" {
			defs[i].Description = entry.Description
		}
	}

	if len(disabled) == 0 {
		return defs, nil
	}
	out := make([]ToolDefinition, 0, len(defs))
	for _, d := range defs {
		if !disabled[d.Name] {
			out = append(out, d)
		}
	}
	return out, nil
}

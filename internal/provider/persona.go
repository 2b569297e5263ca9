package provider

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"yai-assistant/internal/types"
)

// Persona is the optional assistant profile loaded from YAML. It adds a
// system turn and sampling settings to chat completions.
type Persona struct {
	System string `yaml:"system"`
	Style  struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

// LoadPersona reads a persona file. A missing file is not an error and
// yields a nil persona.
func LoadPersona(path string) (*Persona, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read persona %s: %w", path, err)
	}
	var p Persona
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse persona %s: %w", path, err)
	}
	if p.Style.Temperature < 0 || p.Style.MaxTokens < 0 {
		return nil, fmt.Errorf("parse persona %s: temperature and max_tokens must not be negative", path)
	}
	return &p, nil
}

// apply prepends the system prompt, if any, to turns. turns is not modified.
func (p *Persona) apply(turns []types.Turn) []types.Turn {
	if p == nil || strings.TrimSpace(p.System) == "" {
		return turns
	}
	out := make([]types.Turn, 0, len(turns)+1)
	out = append(out, types.Turn{Role: types.RoleSystem, Content: strings.TrimSpace(p.System)})
	return append(out, turns...)
}

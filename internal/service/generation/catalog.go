package generation

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/models.yaml
var catalogFile embed.FS

// ModelEntry describes one model the editor can pick
type ModelEntry struct {
	// Model identifier (set during YAML unmarshaling)
	ID       string `yaml:"-" json:"id"`
	Provider string `yaml:"-" json:"provider"`

	DisplayName   string `yaml:"display_name" json:"display_name"`
	Description   string `yaml:"description" json:"description"`
	ContextWindow int    `yaml:"context_window" json:"context_window"`
	MaxOutput     int    `yaml:"max_output" json:"max_output"`

	// Available is false when the provider has no credentials configured
	Available bool `yaml:"-" json:"available"`
}

// providerModels is one provider's block in the catalog file
type providerModels struct {
	Provider string
	Models   []ModelEntry // YAML order, populated by UnmarshalYAML
}

// UnmarshalYAML keeps models in file order; a plain map would shuffle them
func (p *providerModels) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Provider string                `yaml:"provider"`
		Models   map[string]ModelEntry `yaml:"models"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	p.Provider = raw.Provider

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		keys := node.Content[i+1].Content
		for j := 0; j < len(keys); j += 2 {
			id := keys[j].Value
			m := raw.Models[id]
			m.ID = id
			m.Provider = raw.Provider
			p.Models = append(p.Models, m)
		}
	}
	return nil
}

// Catalog lists the models offered for generation
type Catalog struct {
	providers []providerModels
}

// LoadCatalog reads the embedded model list
func LoadCatalog() (*Catalog, error) {
	data, err := catalogFile.ReadFile("catalog/models.yaml")
	if err != nil {
		return nil, fmt.Errorf("read model catalog: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var file struct {
		Providers []providerModels `yaml:"providers"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	return &Catalog{providers: file.Providers}, nil
}

// Models returns every model in catalog order, marking which ones the
// registry can currently serve.
func (c *Catalog) Models(registry *ProviderRegistry) []ModelEntry {
	var out []ModelEntry
	for _, p := range c.providers {
		available := registry.Configured(p.Provider)
		for _, m := range p.Models {
			m.Available = available
			out = append(out, m)
		}
	}
	return out
}

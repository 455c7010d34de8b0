package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	"quill/internal/config"
	"quill/internal/domain"
)

// TextGenerator is the part of an LLM provider that generation uses
type TextGenerator interface {
	GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error)
}

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // "anthropic", "lorem"
	Model    string // Model identifier for that provider
}

// ParseModel extracts the provider from a model string.
//
//   - "claude-haiku-4-5" → {anthropic, claude-haiku-4-5}
//   - "lorem-fast" → {lorem, lorem-fast}
//   - "anthropic/claude-haiku-4-5" → {anthropic, claude-haiku-4-5}
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}

	if provider, model, ok := strings.Cut(modelStr, "/"); ok {
		if provider == "" || model == "" {
			return nil, fmt.Errorf("invalid model format: %s (expected provider/model)", modelStr)
		}
		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	lower := strings.ToLower(modelStr)
	switch {
	case strings.HasPrefix(lower, "claude-"):
		return &ModelInfo{Provider: "anthropic", Model: modelStr}, nil
	case strings.HasPrefix(lower, "lorem-"):
		return &ModelInfo{Provider: "lorem", Model: modelStr}, nil
	}
	return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
}

// ProviderRegistry creates providers on first use and caches them
type ProviderRegistry struct {
	config    *config.Config
	mu        sync.Mutex
	providers map[string]TextGenerator
}

// NewProviderRegistry creates a registry backed by cfg's API keys
func NewProviderRegistry(cfg *config.Config) *ProviderRegistry {
	return &ProviderRegistry{
		config:    cfg,
		providers: make(map[string]TextGenerator),
	}
}

// Register installs a provider under name, replacing any cached one
func (r *ProviderRegistry) Register(name string, provider TextGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// Resolve returns the provider for a model string and the model name to
// send it. Bare model names with no known prefix go to the configured
// default provider. Unknown or unconfigured providers are validation errors.
func (r *ProviderRegistry) Resolve(modelStr string) (TextGenerator, *ModelInfo, error) {
	info, err := ParseModel(modelStr)
	if err != nil {
		if modelStr == "" || strings.Contains(modelStr, "/") || r.config.DefaultProvider == "" {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		info = &ModelInfo{Provider: r.config.DefaultProvider, Model: modelStr}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.providers[info.Provider]; ok {
		return p, info, nil
	}

	p, err := r.create(info.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	r.providers[info.Provider] = p
	return p, info, nil
}

// Configured reports whether a provider can be used: registered already,
// or creatable from the current configuration.
func (r *ProviderRegistry) Configured(providerName string) bool {
	r.mu.Lock()
	_, ok := r.providers[providerName]
	r.mu.Unlock()
	if ok {
		return true
	}

	switch providerName {
	case "anthropic":
		return r.config.AnthropicAPIKey != ""
	case "lorem":
		return true
	}
	return false
}

func (r *ProviderRegistry) create(providerName string) (TextGenerator, error) {
	switch providerName {
	case "anthropic":
		if r.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		provider, err := anthropic.NewProvider(r.config.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
		}
		return provider, nil

	case "lorem":
		// Mock provider, no API key needed
		return lorem.NewProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

package caption

import (
	"context"
	"fmt"
)

// Config holds settings for a caption provider.
type Config struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	ModelName string `yaml:"model_name"`
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	Timeout   int    `yaml:"timeout_seconds,omitempty"`
}

// Provider produces a one-shot natural language caption for an image.
type Provider interface {
	Initialize() error
	Cleanup() error
	Caption(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Factory builds a provider from its config.
type Factory func(config *Config) (Provider, error)

var factories = make(map[string]Factory)

// Register registers a caption provider factory under a type name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create builds and returns the provider registered under name.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown caption provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create caption provider %s: %v", name, err)
	}
	return provider, nil
}

package detector

import (
	"context"
	"fmt"

	"pixelsage-server/internal/domain/image"
)

// Config holds settings for an object detection provider.
type Config struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key,omitempty"`
	Timeout int    `yaml:"timeout_seconds,omitempty"`
}

// Provider returns raw object detections for an image. Confidence filtering
// and deduplication happen in the caller.
type Provider interface {
	Initialize() error
	Cleanup() error
	Detect(ctx context.Context, img []byte, mimeType string) ([]image.Detection, error)
}

// Factory builds a provider from its config.
type Factory func(config *Config) (Provider, error)

var factories = make(map[string]Factory)

// Register registers a detector factory under a type name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create builds and returns the provider registered under name.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown detector provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create detector provider %s: %v", name, err)
	}
	return provider, nil
}

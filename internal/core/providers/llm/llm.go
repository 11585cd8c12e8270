package llm

import (
	"context"
	"fmt"
	"time"

	"pixelsage-server/internal/domain/eventbus"
)

// Config holds settings for one generative text provider.
type Config struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	APIKey      string  `yaml:"api_key,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	Timeout     int     `yaml:"timeout_seconds,omitempty"`
}

// Provider is a generative text backend. Implementations must honor context
// cancellation and return exactly one completion per call.
type Provider interface {
	Initialize() error
	Cleanup() error
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// BaseProvider carries shared config and event publishing.
type BaseProvider struct {
	config *Config
}

// NewBaseProvider creates the shared provider base.
func NewBaseProvider(config *Config) *BaseProvider {
	return &BaseProvider{config: config}
}

// Config returns the provider configuration.
func (p *BaseProvider) Config() *Config {
	return p.config
}

// Initialize is a no-op default.
func (p *BaseProvider) Initialize() error {
	return nil
}

// Cleanup is a no-op default.
func (p *BaseProvider) Cleanup() error {
	return nil
}

// RequestTimeout returns the configured per-call timeout.
func (p *BaseProvider) RequestTimeout() time.Duration {
	if p.config.Timeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(p.config.Timeout) * time.Second
}

// PublishStarted publishes the start of a generation call.
func (p *BaseProvider) PublishStarted() {
	eventbus.Publish(eventbus.EventGenerationStarted, eventbus.GenerationEventData{
		Provider: p.config.Type,
		Model:    p.config.ModelName,
	})
}

// PublishCompleted publishes a successful generation event.
func (p *BaseProvider) PublishCompleted(duration time.Duration) {
	eventbus.Publish(eventbus.EventGenerationCompleted, eventbus.GenerationEventData{
		Provider: p.config.Type,
		Model:    p.config.ModelName,
		Duration: duration,
	})
}

// PublishFailed publishes a failed generation event.
func (p *BaseProvider) PublishFailed(err error) {
	eventbus.Publish(eventbus.EventGenerationFailed, eventbus.GenerationEventData{
		Provider: p.config.Type,
		Model:    p.config.ModelName,
		Error:    err.Error(),
	})
}

// Factory builds a provider from its config.
type Factory func(config *Config) (Provider, error)

var factories = make(map[string]Factory)

// Register registers a provider factory under a type name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create builds and returns the provider registered under name.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider %s: %v", name, err)
	}
	return provider, nil
}

package tts

import (
	"context"
	"fmt"
	"time"
)

// Config holds settings for a speech synthesis provider.
type Config struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Voice  string `yaml:"voice"`
	Rate   string `yaml:"rate,omitempty"`
	Volume string `yaml:"volume,omitempty"`
}

// Result is synthesized audio with its decoded duration.
type Result struct {
	Audio    []byte
	Duration time.Duration
}

// Provider synthesizes speech from text.
type Provider interface {
	Initialize() error
	Cleanup() error
	Synthesize(ctx context.Context, text string) (*Result, error)
}

// Factory builds a provider from its config.
type Factory func(config *Config) (Provider, error)

var factories = make(map[string]Factory)

// Register registers a TTS factory under a type name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create builds and returns the provider registered under name.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown TTS provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create TTS provider %s: %v", name, err)
	}
	return provider, nil
}

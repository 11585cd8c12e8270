package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pixelsage-server/internal/platform/errors"
)

// Loader reads configuration from a yaml file layered over built-in defaults.
type Loader struct {
	useDotEnv bool
	path      string
}

// NewLoader creates a loader reading ./config.yaml with .env support enabled.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      "config.yaml",
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load merges the yaml file over defaults and expands ${VAR} references from
// the environment. A missing file is not an error; defaults are returned.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment variables")
		}
	}

	cfg := DefaultConfig()
	path := l.path

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.KindConfig, "load", "read config file", err)
		}
		path = ""
	} else {
		expanded := os.Expand(string(data), func(key string) string {
			return os.Getenv(key)
		})
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.Wrap(errors.KindConfig, "load", "parse config file", err)
		}
	}

	expandEnvRefs(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   path,
	}, nil
}

// expandEnvRefs resolves ${VAR} placeholders left in credential fields when
// the value came from defaults rather than the yaml file.
func expandEnvRefs(cfg *Config) {
	for name, c := range cfg.LLM {
		c.APIKey = os.ExpandEnv(c.APIKey)
		c.BaseURL = os.ExpandEnv(c.BaseURL)
		cfg.LLM[name] = c
	}
	for name, c := range cfg.Caption {
		c.APIKey = os.ExpandEnv(c.APIKey)
		c.BaseURL = os.ExpandEnv(c.BaseURL)
		cfg.Caption[name] = c
	}
	for name, c := range cfg.Detector {
		c.APIKey = os.ExpandEnv(c.APIKey)
		c.URL = os.ExpandEnv(c.URL)
		cfg.Detector[name] = c
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New(errors.KindConfig, "validate",
			fmt.Sprintf("invalid server port %d", cfg.Server.Port))
	}
	if cfg.Selected.LLM != "" {
		if _, ok := cfg.LLM[cfg.Selected.LLM]; !ok {
			return errors.New(errors.KindConfig, "validate",
				fmt.Sprintf("selected LLM %q has no configuration", cfg.Selected.LLM))
		}
	}
	if cfg.Selected.Caption != "" {
		if _, ok := cfg.Caption[cfg.Selected.Caption]; !ok {
			return errors.New(errors.KindConfig, "validate",
				fmt.Sprintf("selected caption provider %q has no configuration", cfg.Selected.Caption))
		}
	}
	if cfg.Selected.TTS != "" {
		if _, ok := cfg.TTS[cfg.Selected.TTS]; !ok {
			return errors.New(errors.KindConfig, "validate",
				fmt.Sprintf("selected TTS provider %q has no configuration", cfg.Selected.TTS))
		}
	}
	if cfg.Analysis.DominantColors <= 0 {
		return errors.New(errors.KindConfig, "validate", "dominant_colors must be positive")
	}
	return nil
}

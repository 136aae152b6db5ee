// Package config handles configuration loading for agentfold. It layers
// built-in defaults, a user config file, a project-level override file and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for agentfold.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Search   SearchConfig   `mapstructure:"search"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Memory   MemoryConfig   `mapstructure:"memory"`
	Export   ExportConfig   `mapstructure:"export"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ProviderConfig selects the language model provider. An empty Name runs the
// engine in deterministic fallback mode.
type ProviderConfig struct {
	// Name is "openai", "anthropic" or "" for fallback mode.
	Name string `mapstructure:"name"`
	// Model overrides the provider's default model id.
	Model string `mapstructure:"model"`
	// AnthropicAPIKey is passed to the Anthropic client; the OpenAI client
	// reads its key from the environment.
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
}

// SearchConfig holds web-search provider settings. A Serper API key switches
// the web_search tool from the simulated provider to the live one.
type SearchConfig struct {
	SerperAPIKey string `mapstructure:"serper_api_key"`
}

// WeatherConfig holds weather provider settings.
type WeatherConfig struct {
	// Live switches the weather tool from the simulated provider to the
	// wttr.in-backed one.
	Live bool `mapstructure:"live"`
}

// MemoryConfig holds context retrieval settings.
type MemoryConfig struct {
	// Mode is "recency" or "semantic".
	Mode         string `mapstructure:"mode"`
	ContextLimit int    `mapstructure:"context_limit"`
}

// ExportConfig holds training-data export settings.
type ExportConfig struct {
	// TrainingFile is the JSONL path per-run records are appended to.
	// Empty disables the export.
	TrainingFile string `mapstructure:"training_file"`
}

// TimeoutsConfig bounds external calls.
type TimeoutsConfig struct {
	Tool      time.Duration `mapstructure:"tool"`
	Synthesis time.Duration `mapstructure:"synthesis"`
}

// LoggingConfig holds structured-logging settings.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `mapstructure:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

// Load loads configuration with the following precedence (highest first):
//  1. Environment variables (ANTHROPIC_API_KEY, SERPER_API_KEY)
//  2. Project config (.agentfold.yaml in the current directory)
//  3. User config (~/.config/agentfold/config.yaml)
//  4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if _, err := os.Stat(".agentfold.yaml"); err == nil {
		project := viper.New()
		project.SetConfigFile(".agentfold.yaml")
		if err := project.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(project.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	_ = v.BindEnv("provider.anthropic_api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("search.serper_api_key", "SERPER_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.name", "")
	v.SetDefault("provider.model", "")
	v.SetDefault("search.serper_api_key", "")
	v.SetDefault("weather.live", false)
	v.SetDefault("memory.mode", "recency")
	v.SetDefault("memory.context_limit", 3)
	v.SetDefault("export.training_file", "")
	v.SetDefault("timeouts.tool", 10*time.Second)
	v.SetDefault("timeouts.synthesis", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agentfold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "agentfold")
}

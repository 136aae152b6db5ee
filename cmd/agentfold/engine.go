package main

import (
	"log/slog"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/agentfold/agentfold"
	"github.com/agentfold/agentfold/config"
	"github.com/agentfold/agentfold/export"
	"github.com/agentfold/agentfold/logging"
	"github.com/agentfold/agentfold/memory"
	"github.com/agentfold/agentfold/model"
	"github.com/agentfold/agentfold/model/anthropic"
	"github.com/agentfold/agentfold/model/openai"
	"github.com/agentfold/agentfold/search"
	"github.com/agentfold/agentfold/trace"
	"github.com/agentfold/agentfold/weather"
)

// loadConfig resolves the effective configuration for a command invocation.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// newEngine builds an AgentFold instance from the configuration. closer is
// non-nil when a training export file was opened.
func newEngine(cfg *config.Config) (engine *agentfold.AgentFold, closer func() error) {
	logger := newLogger(cfg)

	engine = agentfold.New(func(o *agentfold.Options) {
		o.Model = newModel(cfg)
		o.Logger = logger
		o.ToolTimeout = cfg.Timeouts.Tool

		if cfg.Search.SerperAPIKey != "" {
			o.SearchProvider = search.NewSerper(cfg.Search.SerperAPIKey)
		}
		if cfg.Weather.Live {
			o.WeatherProvider = weather.NewWttr()
		}
		if cfg.Memory.Mode == "semantic" {
			o.MemoryMode = memory.Semantic
		}
		if cfg.Memory.ContextLimit > 0 {
			o.ContextLimit = cfg.Memory.ContextLimit
		}
		if verbose {
			o.Tracer = trace.NewSlogSink(logger)
		}
		if cfg.Export.TrainingFile != "" {
			sink := export.NewJSONLSink(cfg.Export.TrainingFile)
			o.Training = sink
			closer = sink.Close
		}
	})
	return engine, closer
}

func newModel(cfg *config.Config) model.Model {
	switch cfg.Provider.Name {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Provider.Model != "" {
				o.Model = cfg.Provider.Model
			}
		})
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Provider.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Provider.Model)
			}
			o.APIKey = cfg.Provider.AnthropicAPIKey
		})
	default:
		return nil
	}
}

func newLogger(cfg *config.Config) logging.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}

// Package app wires the model registry, the launch interpreter, and the
// output generators into one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vk/rosrecover/internal/ctxlog"
	"github.com/vk/rosrecover/internal/interp"
	"github.com/vk/rosrecover/internal/manifest"
	"github.com/vk/rosrecover/internal/models"
	"github.com/vk/rosrecover/internal/scenario"
	"github.com/vk/rosrecover/internal/sysio"
)

// Config holds everything an App needs to run.
type Config struct {
	ScenarioPath string
	ModelsPath   string // overrides the scenario's models_path when set
	LogFormat    string
	LogLevel     string
}

// NewConfig validates a config value.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenarioPath == "" {
		return nil, errors.New("ScenarioPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}

// App encapsulates the application's dependencies and lifecycle. The model
// registry is fully populated during New and is read-only afterwards.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	scenario *scenario.Scenario
	registry *interp.Registry
	files    sysio.Files
	shell    sysio.Shell
}

// New constructs a fully initialized App: logger, collaborators, and a
// registry populated from the compiled-in models, the manifest directory,
// and any extra modules (used by tests).
func New(outW io.Writer, cfg *Config, extra ...models.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("logger configured")

	scn, err := scenario.Load(cfg.ScenarioPath)
	if err != nil {
		return nil, err
	}

	reg := interp.NewRegistry(logger)
	if err := models.RegisterAll(reg); err != nil {
		return nil, fmt.Errorf("registering compiled-in models: %w", err)
	}
	for _, m := range extra {
		if err := m.Register(reg); err != nil {
			return nil, fmt.Errorf("registering module: %w", err)
		}
	}
	if path := modelsPath(cfg, scn); path != "" {
		if err := manifest.LoadDir(ctx, path, reg); err != nil {
			return nil, err
		}
	}
	logger.Debug("model registry populated", "models", reg.Len())

	local := sysio.Local{}
	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		scenario: scn,
		registry: reg,
		files:    local,
		shell:    local,
	}, nil
}

// modelsPath picks the manifest directory: an explicit flag wins, otherwise
// the scenario's models_path is resolved relative to the scenario file.
func modelsPath(cfg *Config, scn *scenario.Scenario) string {
	if cfg.ModelsPath != "" {
		return cfg.ModelsPath
	}
	if scn.ModelsPath == "" {
		return ""
	}
	if filepath.IsAbs(scn.ModelsPath) {
		return scn.ModelsPath
	}
	return filepath.Join(filepath.Dir(cfg.ScenarioPath), scn.ModelsPath)
}

// Registry exposes the populated registry, primarily for tests.
func (a *App) Registry() *interp.Registry { return a.registry }

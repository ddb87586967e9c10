// Package app wires configuration, logging, the manifest, and the fixer
// into a runnable batch.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/entityfix/internal/ctxlog"
	"github.com/vk/entityfix/internal/fixer"
	"github.com/vk/entityfix/internal/manifest"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	man    *manifest.Manifest
	fixer  *fixer.Fixer
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. A manifest that
// cannot be loaded is a fatal startup error and panics; the entrypoint
// recovers it into a clean exit message.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var (
		man *manifest.Manifest
		err error
	)
	if appConfig.ManifestPath != "" {
		man, err = manifest.Load(appConfig.ManifestPath, appConfig.Root)
	} else {
		man, err = manifest.Default(appConfig.Root)
	}
	if err != nil {
		panic(fmt.Errorf("failed to load manifest: %w", err))
	}
	ctxlog.FromContext(ctx).Debug("Manifest loaded.", "root", man.Root, "file_count", len(man.Files))

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		man:    man,
		fixer:  fixer.New(),
	}
}

// Manifest returns the resolved manifest. This is primarily for testing.
func (a *App) Manifest() *manifest.Manifest {
	return a.man
}

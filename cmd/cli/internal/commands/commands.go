package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/enactpack/internal/builder"
	"github.com/wolfeidau/enactpack/internal/dotenv"
	"github.com/wolfeidau/enactpack/internal/settings"
	"github.com/wolfeidau/enactpack/internal/telemetry"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

type Globals struct {
	Debug   bool
	Tracing bool
	Version string
}

// ProjectFlags select the application and mode shared by every command.
type ProjectFlags struct {
	Mode    string `help:"build mode (development or production), defaults to NODE_ENV" default:"" env:"ENACTPACK_MODE"`
	Context string `help:"application directory" default:"." env:"ENACTPACK_CONTEXT"`
	ToolDir string `help:"directory holding the polyfills, babel config and HTML template" default:"" env:"ENACTPACK_TOOL_DIR"`
}

// compose loads the project settings and .env files, then composes the
// configuration.
func (f ProjectFlags) compose(environ map[string]string) (*webpack.Configuration, settings.Settings, error) {
	dir, err := filepath.Abs(f.Context)
	if err != nil {
		return nil, settings.Settings{}, fmt.Errorf("failed to resolve context: %w", err)
	}

	s, err := settings.Load(dir)
	if err != nil {
		return nil, settings.Settings{}, err
	}

	// .env files are selected by the raw mode, "test" included, while the
	// build only knows production and development.
	raw := envMode(f.Mode, environ)
	env, err := dotenv.Load(dir, raw, environ)
	if err != nil {
		return nil, settings.Settings{}, err
	}

	mode := builder.ResolveMode(raw, environ).Mode()
	cfg, err := builder.Build(builder.Options{
		Mode:     string(mode),
		Env:      env,
		Settings: s,
		ToolDir:  f.ToolDir,
	})
	if err != nil {
		return nil, settings.Settings{}, err
	}
	return cfg, s, nil
}

// envMode is the requested mode, falling back to NODE_ENV and then
// development.
func envMode(mode string, environ map[string]string) string {
	if mode != "" {
		return mode
	}
	if v := environ[builder.EnvNodeEnv]; v != "" {
		return v
	}
	return string(webpack.ModeDevelopment)
}

// setupTelemetry starts the exporters when tracing is enabled. The returned
// func flushes them.
func setupTelemetry(ctx context.Context, globals *Globals) func() {
	if !globals.Tracing {
		return func() {}
	}

	log.Info().Msg("Tracing is enabled")
	shutdown, err := telemetry.Init(ctx, true, "enactpack", globals.Version)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown telemetry")
		}
	}
}

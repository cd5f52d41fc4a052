package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/enactpack/internal/assets"
	"github.com/wolfeidau/enactpack/internal/dotenv"
	"github.com/wolfeidau/enactpack/internal/logger"
)

type BuildCmd struct {
	ProjectFlags `embed:""`

	Watch       bool   `help:"rebuild on changes until interrupted" default:"false" env:"ENACTPACK_WATCH"`
	Precompress bool   `help:"write gzip copies of text assets" default:"false" env:"ENACTPACK_PRECOMPRESS"`
	Lessc       string `help:"lessc executable, defaults to the project's node_modules/.bin/lessc" default:"" env:"ENACTPACK_LESSC"`
	Node        string `help:"node executable used to run tsc" default:"node" env:"ENACTPACK_NODE"`
}

func (b *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log.Logger = logger.Setup(globals.Debug)
	ctx = log.Logger.WithContext(ctx)

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting build")

	shutdown := setupTelemetry(ctx, globals)
	defer shutdown()

	cfg, s, err := b.compose(dotenv.Environ())
	if err != nil {
		return fmt.Errorf("failed to compose configuration: %w", err)
	}

	config := assets.DefaultConfig(s.Context, cfg)
	config.Precompress = b.Precompress
	config.Node = b.Node
	if b.Lessc != "" {
		config.LessCompiler = b.Lessc
	}

	pipeline, err := assets.New(config)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	if b.Watch {
		log.Info().Msg("Watching for changes (press Ctrl+C to stop)")
		return pipeline.Watch(ctx)
	}

	return pipeline.Build(ctx)
}

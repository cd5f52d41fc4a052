package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/wolfeidau/enactpack/internal/logger"
	"github.com/wolfeidau/enactpack/internal/telemetry"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

// Build type checks, bundles and runs the post-build steps once.
func (p *Pipeline) Build(ctx context.Context) error {
	ctx, span := telemetry.Tracer().Start(ctx, "assets.Build")
	defer span.End()

	buildID := uuid.New().String()
	l := log.With().Str("build_id", buildID).Str("mode", string(p.config.Webpack.Mode)).Logger()
	ctx = l.WithContext(ctx)

	err := p.build(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *Pipeline) build(ctx context.Context) error {
	start := time.Now()
	m := telemetry.GetMetrics()
	attrs := metric.WithAttributes(attribute.String("mode", string(p.config.Webpack.Mode)))

	m.BuildsTotal.Add(ctx, 1, attrs)
	defer func() {
		m.BuildDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}()

	fail := func(err error) error {
		m.BuildErrorsTotal.Add(ctx, 1, attrs)
		return err
	}

	// the synchronous checker fails the build before bundling
	if tc, ok := webpack.Find[*webpack.TypeCheckPlugin](p.config.Webpack.Plugins); ok && !tc.Async {
		if err := p.step(ctx, "type-check", func() error { return p.typeCheck(ctx, tc) }); err != nil {
			return fail(err)
		}
	}

	opts, err := p.BuildOptions()
	if err != nil {
		return fail(err)
	}
	oneOf, _ := p.config.Webpack.OneOf()
	opts.Plugins = []api.Plugin{p.entryPlugin(), p.stylesPlugin(ctx, oneOf)}

	zerolog.Ctx(ctx).Info().Str("outdir", opts.Outdir).Msg("Building assets")

	result := api.Build(opts)
	if err := p.processResult(ctx, result); err != nil {
		return fail(err)
	}

	if err := p.afterBuild(ctx); err != nil {
		return fail(err)
	}

	zerolog.Ctx(ctx).Info().Dur("duration", time.Since(start)).Msg("Build complete")
	return nil
}

// processResult logs the diagnostics, writes the metafile and caches the
// parsed metadata.
func (p *Pipeline) processResult(ctx context.Context, result api.BuildResult) error {
	l := zerolog.Ctx(ctx)
	m := telemetry.GetMetrics()

	logger.Messages(*l, zerolog.WarnLevel, result.Warnings)
	m.BuildWarningTotal.Add(ctx, int64(len(result.Warnings)))

	if len(result.Errors) > 0 {
		logger.Messages(*l, zerolog.ErrorLevel, result.Errors)
		return fmt.Errorf("%w: %d errors", ErrBuildFailed, len(result.Errors))
	}

	// Write metafile
	metafile := p.config.MetafilePath
	if !filepath.IsAbs(metafile) {
		metafile = filepath.Join(p.outdir(), metafile)
	}
	if err := os.WriteFile(metafile, []byte(result.Metafile), 0o600); err != nil {
		return err
	}

	// Parse and cache metadata
	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return err
	}

	var outputBytes int64
	for file, info := range metadata.Outputs {
		outputBytes += int64(info.Bytes)
		l.Debug().Str("file", file).Int("bytes", info.Bytes).Msg("Built file")
	}
	m.OutputFilesTotal.Add(ctx, int64(len(metadata.Outputs)))
	m.OutputBytesTotal.Add(ctx, outputBytes)

	p.mu.Lock()
	p.metadata = &metadata
	p.mu.Unlock()
	return nil
}

// afterBuild runs the steps standing in for the emitting webpack plugins.
func (p *Pipeline) afterBuild(ctx context.Context) error {
	meta, err := p.Metadata()
	if err != nil {
		return err
	}

	plugins := p.config.Webpack.Plugins
	g, gctx := errgroup.WithContext(ctx)

	if _, ok := webpack.Find[*webpack.HTMLPlugin](plugins); ok {
		g.Go(func() error { return p.step(gctx, "html", p.writeHTML) })
	}
	if _, ok := webpack.Find[*webpack.CaseSensitivePathsPlugin](plugins); ok {
		g.Go(func() error { return p.step(gctx, "case-sensitive-paths", func() error { return p.checkPathCase(meta) }) })
	}
	if _, ok := webpack.Find[*webpack.WebOSMetaPlugin](plugins); ok {
		g.Go(func() error { return p.step(gctx, "webos-meta", p.copyWebOSMeta) })
	}
	if _, ok := webpack.Find[*webpack.ILibPlugin](plugins); ok {
		g.Go(func() error { return p.step(gctx, "ilib", p.copyResources) })
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if p.config.Precompress {
		return p.step(ctx, "precompress", func() error {
			_, err := p.precompress()
			return err
		})
	}
	return nil
}

// step times fn and records its failure.
func (p *Pipeline) step(ctx context.Context, name string, fn func() error) error {
	ctx, span := telemetry.Tracer().Start(ctx, "assets.step."+name)
	defer span.End()

	m := telemetry.GetMetrics()
	attrs := metric.WithAttributes(attribute.String("step", name))
	start := time.Now()

	err := fn()
	m.StepDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	if err != nil {
		m.StepErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		zerolog.Ctx(ctx).Error().Err(err).Str("step", name).Msg("Build step failed")
		return fmt.Errorf("%s: %w", name, err)
	}

	zerolog.Ctx(ctx).Debug().Str("step", name).Dur("duration", time.Since(start)).Msg("Build step complete")
	return nil
}

// Watch builds, then rebuilds on every change until ctx is cancelled.
// Failed rebuilds are logged and the watch continues.
func (p *Pipeline) Watch(ctx context.Context) error {
	l := log.With().Str("mode", string(p.config.Webpack.Mode)).Logger()
	ctx = l.WithContext(ctx)

	if tc, ok := webpack.Find[*webpack.TypeCheckPlugin](p.config.Webpack.Plugins); ok && !tc.Async {
		if err := p.step(ctx, "type-check", func() error { return p.typeCheck(ctx, tc) }); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("Initial type check failed")
		}
	}

	opts, err := p.BuildOptions()
	if err != nil {
		return err
	}
	oneOf, _ := p.config.Webpack.OneOf()
	opts.Plugins = []api.Plugin{p.entryPlugin(), p.stylesPlugin(ctx, oneOf), p.rebuildPlugin(ctx)}

	bctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return fmt.Errorf("failed to create build context: %w", ctxErr)
	}
	defer bctx.Dispose()

	if err := bctx.Watch(api.WatchOptions{}); err != nil {
		return fmt.Errorf("failed to watch: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("outdir", opts.Outdir).Msg("Watching for changes")
	<-ctx.Done()
	return nil
}

// rebuildPlugin runs the post-build steps after every watch rebuild.
func (p *Pipeline) rebuildPlugin(ctx context.Context) api.Plugin {
	return api.Plugin{
		Name: "enact-rebuild",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				l := log.With().Str("build_id", uuid.New().String()).Logger()
				rctx := l.WithContext(ctx)

				if err := p.processResult(rctx, *result); err != nil {
					l.Error().Err(err).Msg("Rebuild failed")
					return api.OnEndResult{}, nil
				}
				if err := p.afterBuild(rctx); err != nil {
					l.Error().Err(err).Msg("Rebuild steps failed")
					return api.OnEndResult{}, nil
				}
				l.Info().Msg("Rebuild complete")
				return api.OnEndResult{}, nil
			})
		},
	}
}

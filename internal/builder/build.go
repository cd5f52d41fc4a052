// Package builder composes the webpack configuration of an Enact project.
//
// Composition is pure: everything it reads is passed in through Options,
// and two builds from equal options produce equal configurations.
package builder

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/enactpack/internal/settings"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

// EnvPrefix selects the environment variables injected into the bundle.
const EnvPrefix = "REACT_APP_"

// Options are the inputs of a build.
type Options struct {
	// Mode is the requested mode; empty falls back to NODE_ENV in Env.
	Mode string
	// Env is the environment snapshot, .env files already merged.
	Env map[string]string
	// Settings are the project build options.
	Settings settings.Settings
	// Resolver locates loaders and plugins. Defaults to a NodeResolver over
	// the tool and project node_modules directories.
	Resolver Resolver
	// FS is the project filesystem. Defaults to os.DirFS(Settings.Context).
	FS fs.FS
	// ToolDir holds the tool's own configuration files (babel config,
	// polyfills, HTML template). Defaults to the @enact/cli config directory
	// installed in the project.
	ToolDir string
}

func (o Options) withDefaults() Options {
	if o.ToolDir == "" {
		o.ToolDir = filepath.Join(o.Settings.Context, "node_modules", "@enact", "cli", "config")
	}
	if o.Resolver == nil {
		o.Resolver = NodeResolver{Paths: []string{
			filepath.Join(o.ToolDir, "..", "node_modules"),
			filepath.Join(o.Settings.Context, "node_modules"),
		}}
	}
	if o.FS == nil {
		o.FS = os.DirFS(o.Settings.Context)
	}
	return o
}

// Composer builds the parts of a configuration. Module resolution failures
// are collected and reported by Err.
type Composer struct {
	flags    ModeFlags
	settings settings.Settings
	env      map[string]string
	toolDir  string
	fsys     fs.FS
	modules  *modules
}

// NewComposer resolves the mode flags and prepares a composer.
func NewComposer(opts Options) *Composer {
	opts = opts.withDefaults()
	return &Composer{
		flags:    ResolveMode(opts.Mode, opts.Env),
		settings: opts.Settings,
		env:      opts.Env,
		toolDir:  opts.ToolDir,
		fsys:     opts.FS,
		modules:  newModules(opts.Resolver),
	}
}

// Flags returns the resolved mode flags.
func (c *Composer) Flags() ModeFlags {
	return c.flags
}

// Err returns the first module resolution failure.
func (c *Composer) Err() error {
	return c.modules.err
}

// Configuration assembles the complete configuration.
func (c *Composer) Configuration() *webpack.Configuration {
	context := c.settings.Context

	cfg := &webpack.Configuration{
		Mode:    c.flags.Mode(),
		Bail:    true,
		Devtool: c.flags.Devtool(),
		Entry: map[string][]string{
			"main": {
				c.modules.resolve(filepath.Join(c.toolDir, "polyfills")),
				context,
			},
		},
		Output: webpack.Output{
			Path:          filepath.Join(context, "dist"),
			Filename:      "[name].js",
			ChunkFilename: "chunk.[name].js",
			Pathinfo:      !c.flags.Production,
		},
		Resolve: webpack.Resolve{
			Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".json"},
			Modules:    []string{filepath.Join(context, "node_modules"), "node_modules"},
			Alias: map[string]string{
				"ilib": "@enact/i18n/ilib/lib",
			},
		},
		ResolveLoader: webpack.ResolveLoader{
			Modules: []string{
				filepath.Join(c.toolDir, "..", "node_modules"),
				filepath.Join(context, "node_modules"),
			},
		},
		Module:      webpack.Module{Rules: c.Rules()},
		Target:      c.settings.Environment,
		Node:        c.settings.NodeBuiltins,
		Performance: webpack.Performance{Hints: false},
		Optimization: webpack.Optimization{
			Minimize:  c.flags.Production,
			Minimizer: c.Minimizers(),
		},
		Plugins: c.Plugins(),
	}

	for _, p := range slices.Concat(cfg.Plugins, cfg.Optimization.Minimizer) {
		c.modules.resolve(p.PluginModule())
	}

	return cfg
}

// Build composes the configuration described by opts. It fails when any
// loader or plugin module cannot be resolved.
func Build(opts Options) (*webpack.Configuration, error) {
	if opts.Settings.Context == "" {
		return nil, errors.New("settings context is required")
	}

	c := NewComposer(opts)
	cfg := c.Configuration()
	if err := c.Err(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("mode", string(cfg.Mode)).
		Bool("source_map", c.flags.SourceMap).
		Strs("plugins", cfg.Plugins.Names()).
		Msg("Composed webpack configuration")

	return cfg, nil
}

package assets

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/wolfeidau/enactpack/internal/webpack"
)

type Config struct {
	// Context is the application root the configuration was composed for.
	Context string
	// Webpack is the composed configuration to execute.
	Webpack *webpack.Configuration
	// Path to metafile (relative to the output directory)
	MetafilePath string
	// Precompress writes a gzip copy next to every text output.
	Precompress bool
	// LessCompiler is the lessc executable.
	LessCompiler string
	// Node is the node executable used to run tsc.
	Node string
	// Runner executes lessc, defaults to os/exec.
	Runner Runner
	// Checker executes tsc, defaults to a console-stream process.
	Checker Runner
}

// DefaultConfig returns a configuration executing cfg for the application in context.
// A project local lessc is preferred over one on the PATH.
func DefaultConfig(context string, cfg *webpack.Configuration) Config {
	lessc := "lessc"
	if bin := filepath.Join(context, "node_modules", ".bin", "lessc"); fileExists(bin) {
		lessc = bin
	}
	return Config{
		Context:      context,
		Webpack:      cfg,
		MetafilePath: "meta.json",
		LessCompiler: lessc,
		Node:         "node",
	}
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// Validate checks the fields without defaults.
func (c Config) Validate() error {
	if c.Context == "" {
		return errors.New("context is required")
	}
	if c.Webpack == nil {
		return errors.New("webpack configuration is required")
	}
	if c.Webpack.Output.Path == "" {
		return errors.New("output path is required")
	}
	if len(c.Webpack.Entry) == 0 {
		return errors.New("no entry points found")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.MetafilePath == "" {
		c.MetafilePath = "meta.json"
	}
	if c.LessCompiler == "" {
		c.LessCompiler = "lessc"
	}
	if c.Node == "" {
		c.Node = "node"
	}
	if c.Runner == nil {
		c.Runner = execRunner
	}
	if c.Checker == nil {
		c.Checker = streamRunner
	}
	return c
}

func (p *Pipeline) outdir() string {
	return p.config.Webpack.Output.Path
}

// outdirRel is the output directory as esbuild reports it in the metafile,
// relative to the working directory.
func (p *Pipeline) outdirRel() string {
	rel, err := filepath.Rel(p.config.Context, p.outdir())
	if err != nil {
		return filepath.ToSlash(p.outdir())
	}
	return filepath.ToSlash(rel)
}

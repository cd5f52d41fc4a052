package assets

import (
	"encoding/json"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

// probeExtensions are matched against the oneOf group to build the esbuild
// loader table. Stylesheets are routed per file by the styles plugin.
var probeExtensions = []string{
	".js", ".jsx", ".mjs", ".ts", ".tsx", ".json",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".bmp",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".mp3", ".mp4", ".webm", ".ogg", ".wav", ".txt",
}

// Enact sources use JSX in .js files.
var scriptLoaders = map[string]api.Loader{
	".js":  api.LoaderJSX,
	".jsx": api.LoaderJSX,
	".mjs": api.LoaderJS,
	".ts":  api.LoaderTS,
	".tsx": api.LoaderTSX,
}

// loaderFor maps a rule's loader chain onto the esbuild loader for ext.
func loaderFor(p webpack.Pipeline, ext string) (api.Loader, bool) {
	for _, u := range p {
		switch o := u.Options.(type) {
		case webpack.BabelLoaderOptions:
			l, ok := scriptLoaders[ext]
			return l, ok
		case webpack.CSSLoaderOptions:
			return cond(o.Modules, api.LoaderLocalCSS, api.LoaderCSS), true
		case webpack.FileLoaderOptions:
			return api.LoaderFile, true
		}
	}
	return api.LoaderNone, false
}

// Loaders builds the extension to loader table by dispatching a probe
// resource for every known extension through the oneOf group. Extensions
// no rule claims keep the esbuild default.
func Loaders(context string, oneOf []webpack.Rule) map[string]api.Loader {
	loaders := make(map[string]api.Loader)
	for _, ext := range probeExtensions {
		resource := filepath.Join(context, "src", "probe"+ext)
		idx := webpack.FirstMatch(oneOf, resource)
		if idx < 0 {
			continue
		}
		if l, ok := loaderFor(oneOf[idx].Pipeline(), ext); ok {
			loaders[ext] = l
		}
	}
	return loaders
}

// Defines merges the define and environment plugins into esbuild
// definitions. Environment values are only defaults, so explicit
// definitions win.
func Defines(plugins webpack.Plugins) map[string]string {
	defines := make(map[string]string)
	if env, ok := webpack.Find[*webpack.EnvironmentPlugin](plugins); ok {
		for k, v := range env.Variables {
			defines["process.env."+k] = jsString(v)
		}
	}
	if def, ok := webpack.Find[*webpack.DefinePlugin](plugins); ok {
		maps.Copy(defines, def.Definitions)
	}
	return defines
}

func platform(target string) api.Platform {
	switch target {
	case "node", "async-node", "electron-main":
		return api.PlatformNode
	default:
		return api.PlatformBrowser
	}
}

// entryNames converts a webpack filename template into an esbuild one.
func entryNames(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// BuildOptions translates the configuration into esbuild options. The
// plugins are attached by the pipeline.
func (p *Pipeline) BuildOptions() (api.BuildOptions, error) {
	cfg := p.config.Webpack

	oneOf, err := cfg.OneOf()
	if err != nil {
		return api.BuildOptions{}, err
	}

	entries := slices.Sorted(maps.Keys(cfg.Entry))
	entryPoints := make([]api.EntryPoint, 0, len(entries))
	for _, name := range entries {
		entryPoints = append(entryPoints, api.EntryPoint{
			InputPath:  entryNamespace + ":" + name,
			OutputPath: name,
		})
	}

	// esbuild names every chunk "chunk", the hash keeps them apart
	opts := api.BuildOptions{
		AbsWorkingDir:       p.config.Context,
		EntryPointsAdvanced: entryPoints,
		Bundle:              true,
		Write:               true,
		Outdir:              p.outdir(),
		EntryNames:          entryNames(cfg.Output.Filename),
		ChunkNames:          entryNames(cfg.Output.ChunkFilename) + "-[hash]",
		AssetNames:          "[dir]/[name]",
		Format:              api.FormatIIFE,
		Platform:            platform(cfg.Target),
		Target:              api.ESNext,
		JSX:                 api.JSXAutomatic,
		Loader:              Loaders(p.config.Context, oneOf),
		ResolveExtensions:   slices.Concat(cfg.Resolve.Extensions, []string{".css", ".less"}),
		Alias:               cfg.Resolve.Alias,
		Define:              Defines(cfg.Plugins),
		TreeShaking:         api.TreeShakingTrue,
		Sourcemap:           cond(cfg.Devtool == webpack.DevtoolNone, api.SourceMapNone, api.SourceMapLinked),
		Metafile:            true,
		LogLevel:            api.LogLevelSilent,
	}

	for _, dir := range cfg.Resolve.Modules {
		if filepath.IsAbs(dir) {
			opts.NodePaths = append(opts.NodePaths, dir)
		}
	}

	if cfg.Optimization.Minimize {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
		// ecma 5 output is below what esbuild can lower to
		opts.Target = api.ES2015
	}

	if terser, ok := webpack.Find[*webpack.TerserPlugin](cfg.Optimization.Minimizer); ok {
		if terser.TerserOptions.Output.ASCIIOnly {
			opts.Charset = api.CharsetASCII
		}
		if !terser.TerserOptions.Output.Comments {
			opts.LegalComments = api.LegalCommentsNone
		}
	}

	if tc, ok := webpack.Find[*webpack.TypeCheckPlugin](cfg.Plugins); ok {
		opts.Tsconfig = p.tsconfig(tc)
	}

	return opts, nil
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}

func (p *Pipeline) tsconfig(tc *webpack.TypeCheckPlugin) string {
	if filepath.IsAbs(tc.TSConfig) {
		return tc.TSConfig
	}
	return filepath.Join(p.config.Context, tc.TSConfig)
}

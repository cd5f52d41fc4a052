package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

const entryNamespace = "enact-entry"

// entryPlugin serves each configured entry as a virtual module importing its
// modules in order.
func (p *Pipeline) entryPlugin() api.Plugin {
	return api.Plugin{
		Name: entryNamespace,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: "^" + entryNamespace + ":"},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return api.OnResolveResult{
						Path:      strings.TrimPrefix(args.Path, entryNamespace+":"),
						Namespace: entryNamespace,
					}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: entryNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					modules, ok := p.config.Webpack.Entry[args.Path]
					if !ok {
						return api.OnLoadResult{}, fmt.Errorf("unknown entry %q", args.Path)
					}
					src := entrySource(modules)
					return api.OnLoadResult{
						Contents:   &src,
						ResolveDir: p.config.Context,
						Loader:     api.LoaderJS,
					}, nil
				})
		},
	}
}

func entrySource(modules []string) string {
	var b strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&b, "import %s;\n", jsString(filepath.ToSlash(m)))
	}
	return b.String()
}

// styleRoute is how a stylesheet is loaded once dispatched.
type styleRoute struct {
	loader api.Loader
	less   *webpack.LessLoaderOptions
}

func routeStyle(chain webpack.Pipeline) (styleRoute, bool) {
	var (
		route styleRoute
		found bool
	)
	for _, u := range chain {
		switch o := u.Options.(type) {
		case webpack.CSSLoaderOptions:
			route.loader = cond(o.Modules, api.LoaderLocalCSS, api.LoaderCSS)
			found = true
		case webpack.LessLoaderOptions:
			route.less = &o
		}
	}
	return route, found
}

// stylesPlugin dispatches every stylesheet through the oneOf group. LESS
// chains are compiled with lessc, the css-loader modules option picks global
// or local CSS.
func (p *Pipeline) stylesPlugin(ctx context.Context, oneOf []webpack.Rule) api.Plugin {
	return api.Plugin{
		Name: "enact-styles",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `\.(css|less)$`, Namespace: "file"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					return p.loadStyle(ctx, oneOf, args.Path)
				})
		},
	}
}

func (p *Pipeline) loadStyle(ctx context.Context, oneOf []webpack.Rule, path string) (api.OnLoadResult, error) {
	idx := webpack.FirstMatch(oneOf, path)
	if idx < 0 {
		return api.OnLoadResult{}, nil
	}
	route, ok := routeStyle(oneOf[idx].Pipeline())
	if !ok {
		return api.OnLoadResult{}, nil
	}

	var (
		contents []byte
		err      error
	)
	if route.less != nil {
		contents, err = p.config.Runner(ctx, filepath.Dir(path), p.config.LessCompiler, lessArgs(path, route.less)...)
	} else {
		contents, err = os.ReadFile(path)
	}
	if err != nil {
		return api.OnLoadResult{}, err
	}

	log.Debug().Str("path", path).Int("rule", idx).Bool("less", route.less != nil).Msg("Loaded stylesheet")

	src := string(contents)
	return api.OnLoadResult{
		Contents:   &src,
		Loader:     route.loader,
		ResolveDir: filepath.Dir(path),
	}, nil
}

// lessArgs builds the lessc command line compiling path to stdout.
func lessArgs(path string, opts *webpack.LessLoaderOptions) []string {
	args := []string{"--no-color"}

	// "accent" and "@accent" name the same variable, the "@" form wins.
	vars := make(map[string]any, len(opts.ModifyVars))
	for k, v := range opts.ModifyVars {
		name := strings.TrimPrefix(k, "@")
		if _, ok := vars[name]; ok && name == k {
			continue
		}
		vars[name] = v
	}
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		args = append(args, fmt.Sprintf("--modify-var=%s=%v", name, vars[name]))
	}

	for _, pl := range opts.Plugins {
		args = append(args, "--plugin="+pl.Name+lessPluginOptions(pl.Options))
	}

	if opts.SourceMap {
		args = append(args, "--source-map-map-inline")
	}

	return append(args, path)
}

// lessPluginOptions encodes plugin options as "=key=value,key=value".
func lessPluginOptions(options any) string {
	if options == nil {
		return ""
	}
	b, err := json.Marshal(options)
	if err != nil {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil || len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return "=" + strings.Join(pairs, ",")
}

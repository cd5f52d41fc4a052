package builder

import "github.com/wolfeidau/enactpack/internal/webpack"

// CSSOptions are the caller controlled css-loader options.
type CSSOptions struct {
	Modules bool
}

// StyleLoaders returns the chain [extract, css, postcss, pre?]. The
// preprocessor is declared last so it is the first loader to see the file.
func (c *Composer) StyleLoaders(css CSSOptions, pre *webpack.UseEntry) webpack.Pipeline {
	cssOptions := webpack.CSSLoaderOptions{
		ImportLoaders: cond(pre != nil, 2, 1),
		SourceMap:     c.flags.SourceMap,
		Modules:       css.Modules,
	}
	if css.Modules {
		cssOptions.GetLocalIdent = c.modules.resolve("react-dev-utils/getCSSModuleLocalIdent")
	}

	loaders := webpack.Pipeline{
		{Loader: c.modules.resolve("mini-css-extract-plugin/dist/loader")},
		{Loader: c.modules.resolve("css-loader"), Options: cssOptions},
		{
			Loader: c.modules.resolve("postcss-loader"),
			Options: webpack.PostCSSLoaderOptions{
				Ident:     "postcss",
				SourceMap: c.flags.SourceMap,
				Plugins: []webpack.PostCSSPlugin{
					// flexbox bug fixes, see https://github.com/philipwalton/flexbugs
					{Name: "postcss-flexbugs-fixes"},
					// @global-import support
					{Name: "postcss-global-import"},
					{
						Name: "postcss-preset-env",
						Options: webpack.PresetEnvOptions{
							Autoprefixer: webpack.AutoprefixerOptions{Flexbox: "no-2009", Remove: false},
							Stage:        3,
							Features:     map[string]bool{"custom-properties": false},
						},
					},
				},
			},
		},
	}

	if pre != nil {
		loaders = append(loaders, *pre)
	}
	return loaders
}

// LessStyleLoaders returns StyleLoaders with less-loader as the
// preprocessor. Theme variables are injected, and the resolution
// independence plugin is added when the project configures it.
func (c *Composer) LessStyleLoaders(css CSSOptions) webpack.Pipeline {
	vars := map[string]any{"__DEV__": !c.flags.Production}
	for k, v := range c.settings.Accent {
		vars[k] = v
	}

	plugins := []webpack.LessPlugin{}
	if c.settings.RI != nil {
		plugins = append(plugins, webpack.LessPlugin{
			Name:    c.modules.resolve("resolution-independence"),
			Options: c.settings.RI,
		})
	}

	return c.StyleLoaders(css, &webpack.UseEntry{
		Loader: c.modules.resolve("less-loader"),
		Options: webpack.LessLoaderOptions{
			ModifyVars: vars,
			SourceMap:  c.flags.SourceMap,
			Plugins:    plugins,
		},
	})
}

package builder

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/wolfeidau/enactpack/internal/webpack"
)

// TSConfigFile enables type checking when present in the project root.
const TSConfigFile = "tsconfig.json"

// ReportFiles limits type-check diagnostics to application sources.
var ReportFiles = webpack.ReportFilter{
	"**",
	"!**/*.json",
	"!**/__tests__/**",
	"!**/*.{spec,test}.*",
	"!**/{spec,test}.*",
	"!**/*-specs.*",
	"!**/src/setupProxy.*",
	"!**/src/setupTests.*",
}

// option is a plugin that may be disabled for the current build.
type option struct {
	plugin  webpack.Plugin
	enabled bool
}

func include(p webpack.Plugin) option {
	return option{plugin: p, enabled: true}
}

// includeIf defers construction so disabled plugins never resolve modules.
func includeIf(enabled bool, fn func() webpack.Plugin) option {
	if !enabled {
		return option{}
	}
	return option{plugin: fn(), enabled: true}
}

func enabledPlugins(options ...option) webpack.Plugins {
	plugins := make(webpack.Plugins, 0, len(options))
	for _, o := range options {
		if o.enabled {
			plugins = append(plugins, o.plugin)
		}
	}
	return plugins
}

// UseTypeScript reports whether the project has a TypeScript configuration.
func (c *Composer) UseTypeScript() bool {
	fi, err := fs.Stat(c.fsys, TSConfigFile)
	return err == nil && !fi.IsDir()
}

// Plugins returns the plugin list with disabled plugins removed.
func (c *Composer) Plugins() webpack.Plugins {
	return enabledPlugins(
		include(c.htmlPlugin()),
		include(&webpack.DefinePlugin{
			Definitions: map[string]string{
				"process.env.NODE_ENV": jsString(string(c.flags.Mode())),
			},
		}),
		include(&webpack.EnvironmentPlugin{Variables: c.prefixedEnv()}),
		// the extract loader in the style chains needs this plugin
		include(&webpack.CSSExtractPlugin{
			Filename:      "[name].css",
			ChunkFilename: "chunk.[name].css",
		}),
		include(&webpack.CaseSensitivePathsPlugin{}),
		includeIf(!c.flags.Production, func() webpack.Plugin {
			return &webpack.WatchMissingNodeModulesPlugin{NodeModulesPath: "./node_modules"}
		}),
		include(&webpack.GracefulFSPlugin{}),
		include(&webpack.ILibPlugin{}),
		include(&webpack.WebOSMetaPlugin{}),
		includeIf(c.UseTypeScript(), c.typeCheckPlugin),
	)
}

func (c *Composer) htmlPlugin() webpack.Plugin {
	template := c.settings.Template
	if template == "" {
		template = filepath.Join(c.toolDir, "html-template.ejs")
	}

	p := &webpack.HTMLPlugin{
		Title:    c.settings.Title,
		Inject:   "body",
		Template: template,
		XHTML:    true,
	}

	if c.flags.Production {
		p.Minify = &webpack.HTMLMinifyOptions{
			RemoveComments:                true,
			CollapseWhitespace:            false,
			RemoveRedundantAttributes:     true,
			UseShortDoctype:               true,
			RemoveEmptyAttributes:         true,
			RemoveStyleLinkTypeAttributes: true,
			KeepClosingSlash:              true,
			MinifyJS:                      true,
			MinifyCSS:                     true,
			MinifyURLs:                    true,
		}
	}

	return p
}

func (c *Composer) typeCheckPlugin() webpack.Plugin {
	return &webpack.TypeCheckPlugin{
		TypeScript:           c.modules.resolve("typescript"),
		Async:                false,
		CheckSyntacticErrors: true,
		TSConfig:             TSConfigFile,
		CompilerOptions: webpack.TSCompilerOptions{
			Module:            "esnext",
			ModuleResolution:  "node",
			ResolveJSONModule: true,
			IsolatedModules:   true,
			NoEmit:            true,
			JSX:               "preserve",
		},
		ReportFiles: ReportFiles,
		Watch:       c.settings.Context,
		Silent:      true,
		Formatter:   c.modules.resolve("react-dev-utils/typescriptFormatter"),
	}
}

// prefixedEnv returns the environment variables carrying EnvPrefix.
func (c *Composer) prefixedEnv() map[string]string {
	vars := make(map[string]string)
	for k, v := range c.env {
		if strings.HasPrefix(k, EnvPrefix) {
			vars[k] = v
		}
	}
	return vars
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

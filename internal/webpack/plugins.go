package webpack

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Plugin is a webpack plugin instance. Implementations carry the plugin's
// constructor options as exported fields.
type Plugin interface {
	// PluginName is the plugin's class name.
	PluginName() string
	// PluginModule is the module exporting the plugin.
	PluginModule() string
}

// Plugins is an ordered plugin list.
type Plugins []Plugin

type pluginDescriptor struct {
	Name    string `json:"name"`
	Module  string `json:"module"`
	Options Plugin `json:"options"`
}

func (ps Plugins) MarshalJSON() ([]byte, error) {
	out := make([]pluginDescriptor, 0, len(ps))
	for _, p := range ps {
		out = append(out, pluginDescriptor{Name: p.PluginName(), Module: p.PluginModule(), Options: p})
	}
	return json.Marshal(out)
}

// Names returns the plugin class names in order.
func (ps Plugins) Names() []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.PluginName())
	}
	return names
}

// Find returns the first plugin of type T.
func Find[T Plugin](ps Plugins) (T, bool) {
	for _, p := range ps {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// HTMLPlugin generates the index page with the bundles injected.
type HTMLPlugin struct {
	Title    string             `json:"title"`
	Inject   string             `json:"inject"`
	Template string             `json:"template"`
	XHTML    bool               `json:"xhtml"`
	Minify   *HTMLMinifyOptions `json:"minify,omitempty"`
}

func (*HTMLPlugin) PluginName() string   { return "HtmlWebpackPlugin" }
func (*HTMLPlugin) PluginModule() string { return "html-webpack-plugin" }

type HTMLMinifyOptions struct {
	RemoveComments                bool `json:"removeComments"`
	CollapseWhitespace            bool `json:"collapseWhitespace"`
	RemoveRedundantAttributes     bool `json:"removeRedundantAttributes"`
	UseShortDoctype               bool `json:"useShortDoctype"`
	RemoveEmptyAttributes         bool `json:"removeEmptyAttributes"`
	RemoveStyleLinkTypeAttributes bool `json:"removeStyleLinkTypeAttributes"`
	KeepClosingSlash              bool `json:"keepClosingSlash"`
	MinifyJS                      bool `json:"minifyJS"`
	MinifyCSS                     bool `json:"minifyCSS"`
	MinifyURLs                    bool `json:"minifyURLs"`
}

// DefinePlugin replaces free expressions with JavaScript source text.
type DefinePlugin struct {
	Definitions map[string]string `json:"definitions"`
}

func (*DefinePlugin) PluginName() string   { return "DefinePlugin" }
func (*DefinePlugin) PluginModule() string { return "webpack" }

// EnvironmentPlugin exposes process.env keys, with the values they had when
// the configuration was composed as defaults.
type EnvironmentPlugin struct {
	Variables map[string]string `json:"variables"`
}

func (*EnvironmentPlugin) PluginName() string   { return "EnvironmentPlugin" }
func (*EnvironmentPlugin) PluginModule() string { return "webpack" }

// CSSExtractPlugin writes the CSS collected by its loader to standalone files.
type CSSExtractPlugin struct {
	Filename      string `json:"filename"`
	ChunkFilename string `json:"chunkFilename"`
}

func (*CSSExtractPlugin) PluginName() string   { return "MiniCssExtractPlugin" }
func (*CSSExtractPlugin) PluginModule() string { return "mini-css-extract-plugin" }

type CaseSensitivePathsPlugin struct{}

func (*CaseSensitivePathsPlugin) PluginName() string   { return "CaseSensitivePathsPlugin" }
func (*CaseSensitivePathsPlugin) PluginModule() string { return "case-sensitive-paths-webpack-plugin" }

// WatchMissingNodeModulesPlugin rebuilds once a missing dependency is installed.
type WatchMissingNodeModulesPlugin struct {
	NodeModulesPath string `json:"nodeModulesPath"`
}

func (*WatchMissingNodeModulesPlugin) PluginName() string { return "WatchMissingNodeModulesPlugin" }
func (*WatchMissingNodeModulesPlugin) PluginModule() string {
	return "react-dev-utils/WatchMissingNodeModulesPlugin"
}

type GracefulFSPlugin struct{}

func (*GracefulFSPlugin) PluginName() string   { return "GracefulFsPlugin" }
func (*GracefulFSPlugin) PluginModule() string { return "@enact/dev-utils" }

// ILibPlugin configures iLib and copies locale data and resources.
type ILibPlugin struct{}

func (*ILibPlugin) PluginName() string   { return "ILibPlugin" }
func (*ILibPlugin) PluginModule() string { return "@enact/dev-utils" }

// WebOSMetaPlugin copies appinfo.json and the assets it references.
type WebOSMetaPlugin struct{}

func (*WebOSMetaPlugin) PluginName() string   { return "WebOSMetaPlugin" }
func (*WebOSMetaPlugin) PluginModule() string { return "@enact/dev-utils" }

// TypeCheckPlugin runs the TypeScript checker alongside the build.
type TypeCheckPlugin struct {
	TypeScript           string            `json:"typescript"`
	Async                bool              `json:"async"`
	CheckSyntacticErrors bool              `json:"checkSyntacticErrors"`
	TSConfig             string            `json:"tsconfig"`
	CompilerOptions      TSCompilerOptions `json:"compilerOptions"`
	ReportFiles          ReportFilter      `json:"reportFiles"`
	Watch                string            `json:"watch"`
	Silent               bool              `json:"silent"`
	Formatter            string            `json:"formatter"`
}

func (*TypeCheckPlugin) PluginName() string   { return "ForkTsCheckerWebpackPlugin" }
func (*TypeCheckPlugin) PluginModule() string { return "fork-ts-checker-webpack-plugin-alt" }

type TSCompilerOptions struct {
	Module            string `json:"module"`
	ModuleResolution  string `json:"moduleResolution"`
	ResolveJSONModule bool   `json:"resolveJsonModule"`
	IsolatedModules   bool   `json:"isolatedModules"`
	NoEmit            bool   `json:"noEmit"`
	JSX               string `json:"jsx"`
}

// ReportFilter is a list of globs deciding which files diagnostics are
// reported for. Entries prefixed with "!" exclude.
type ReportFilter []string

// Compile parses every glob of the filter once.
func (f ReportFilter) Compile() (*ReportMatcher, error) {
	m := &ReportMatcher{rules: make([]reportRule, 0, len(f))}
	for _, pattern := range f {
		g, err := glob.Compile(strings.TrimPrefix(pattern, "!"), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid report pattern %q: %w", pattern, err)
		}
		m.rules = append(m.rules, reportRule{glob: g, exclude: strings.HasPrefix(pattern, "!")})
	}
	return m, nil
}

// ReportMatcher is a compiled ReportFilter.
type ReportMatcher struct {
	rules []reportRule
}

type reportRule struct {
	glob    glob.Glob
	exclude bool
}

// Match reports whether diagnostics for path should be reported. Paths are
// matched relative to the project root.
func (m *ReportMatcher) Match(path string) bool {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	matched := false
	for _, r := range m.rules {
		if !r.glob.Match(p) {
			continue
		}
		if r.exclude {
			return false
		}
		matched = true
	}
	return matched
}

// TerserPlugin minifies JavaScript output.
type TerserPlugin struct {
	TerserOptions TerserOptions `json:"terserOptions"`
	Parallel      bool          `json:"parallel"`
	Cache         bool          `json:"cache"`
	SourceMap     bool          `json:"sourceMap"`
}

func (*TerserPlugin) PluginName() string   { return "TerserPlugin" }
func (*TerserPlugin) PluginModule() string { return "terser-webpack-plugin" }

type TerserOptions struct {
	Parse    TerserParseOptions    `json:"parse"`
	Compress TerserCompressOptions `json:"compress"`
	Output   TerserOutputOptions   `json:"output"`
}

type TerserParseOptions struct {
	ECMA int `json:"ecma"`
}

type TerserCompressOptions struct {
	ECMA        int  `json:"ecma"`
	Warnings    bool `json:"warnings"`
	Comparisons bool `json:"comparisons"`
	Inline      int  `json:"inline"`
}

type TerserOutputOptions struct {
	ECMA      int  `json:"ecma"`
	Comments  bool `json:"comments"`
	ASCIIOnly bool `json:"ascii_only"`
}

// CSSOptimizePlugin optimizes extracted CSS.
type CSSOptimizePlugin struct {
	CSSProcessorOptions CSSProcessorOptions `json:"cssProcessorOptions"`
}

func (*CSSOptimizePlugin) PluginName() string   { return "OptimizeCSSAssetsPlugin" }
func (*CSSOptimizePlugin) PluginModule() string { return "optimize-css-assets-webpack-plugin" }

type CSSProcessorOptions struct {
	Calc bool           `json:"calc"`
	Map  *CSSMapOptions `json:"map,omitempty"`
}

type CSSMapOptions struct {
	Inline     bool `json:"inline"`
	Annotation bool `json:"annotation"`
}

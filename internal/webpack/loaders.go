package webpack

// CSSLoaderOptions configures css-loader.
type CSSLoaderOptions struct {
	// ImportLoaders is the number of loaders applied to @import-ed files
	// before css-loader.
	ImportLoaders int  `json:"importLoaders"`
	SourceMap     bool `json:"sourceMap"`
	Modules       bool `json:"modules"`
	// GetLocalIdent names the module generating scoped class names.
	GetLocalIdent string `json:"getLocalIdent,omitempty"`
}

// PostCSSLoaderOptions configures postcss-loader.
type PostCSSLoaderOptions struct {
	Ident     string          `json:"ident"`
	SourceMap bool            `json:"sourceMap"`
	Plugins   []PostCSSPlugin `json:"plugins"`
}

// PostCSSPlugin is a PostCSS plugin module with optional options.
type PostCSSPlugin struct {
	Name    string `json:"name"`
	Options any    `json:"options,omitempty"`
}

// PresetEnvOptions configures postcss-preset-env.
type PresetEnvOptions struct {
	Autoprefixer AutoprefixerOptions `json:"autoprefixer"`
	Stage        int                 `json:"stage"`
	Features     map[string]bool     `json:"features"`
}

type AutoprefixerOptions struct {
	Flexbox string `json:"flexbox"`
	Remove  bool   `json:"remove"`
}

// LessLoaderOptions configures less-loader.
type LessLoaderOptions struct {
	ModifyVars map[string]any `json:"modifyVars"`
	SourceMap  bool           `json:"sourceMap"`
	Plugins    []LessPlugin   `json:"plugins"`
}

// LessPlugin is a LESS compiler plugin instance.
type LessPlugin struct {
	Name    string `json:"name"`
	Options any    `json:"options,omitempty"`
}

// BabelLoaderOptions configures babel-loader.
type BabelLoaderOptions struct {
	Extends          string `json:"extends"`
	Babelrc          bool   `json:"babelrc"`
	CacheDirectory   bool   `json:"cacheDirectory"`
	CacheCompression bool   `json:"cacheCompression"`
	HighlightCode    bool   `json:"highlightCode"`
	Compact          bool   `json:"compact"`
}

// ESLintLoaderOptions configures eslint-loader.
type ESLintLoaderOptions struct {
	Formatter   string           `json:"formatter"`
	ESLintPath  string           `json:"eslintPath"`
	BaseConfig  ESLintBaseConfig `json:"baseConfig"`
	UseESLintrc bool             `json:"useEslintrc"`
	Cache       bool             `json:"cache"`
}

type ESLintBaseConfig struct {
	Extends []string `json:"extends"`
}

// FileLoaderOptions configures file-loader.
type FileLoaderOptions struct {
	Name string `json:"name"`
}

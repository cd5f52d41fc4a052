package builder

import (
	"path/filepath"

	"github.com/wolfeidau/enactpack/internal/webpack"
)

// Rule patterns. The oneOf group is evaluated top to bottom and the first
// match wins, so the more specific patterns come first.
var (
	lintTest          = webpack.MustPattern(`\.(js|jsx)$`)
	scriptTest        = webpack.MustPattern(`\.(js|jsx|ts|tsx)$`)
	thirdParty        = webpack.MustPattern(`node_modules`)
	thirdPartyNoEnact = webpack.MustPattern(`node_modules.(?!@enact)`)
	enactCSSTest      = webpack.MustPattern(`node_modules(\\|\/).*\1?@enact\1.*\.css`)
	moduleCSSTest     = webpack.MustPattern(`\.module\.css$`)
	cssTest           = webpack.MustPattern(`\.css$`)
	moduleLessTest    = webpack.MustPattern(`\.module\.less$`)
	lessTest          = webpack.MustPattern(`\.less$`)
	fileExcludes      = []*webpack.Pattern{
		webpack.MustPattern(`\.(js|mjs|jsx|ts|tsx)$`),
		webpack.MustPattern(`\.html$`),
		webpack.MustPattern(`\.json$`),
	}
)

// OneOf rule identifiers in dispatch order. The file rule must stay last.
const (
	RuleScript = iota
	RuleEnactCSS
	RuleModuleCSS
	RuleCSS
	RuleModuleLess
	RuleLess
	RuleFile
)

// Rules returns the module rules: the lint pre-pass followed by the oneOf
// dispatch group.
func (c *Composer) Rules() []webpack.Rule {
	return []webpack.Rule{
		c.lintRule(),
		{OneOf: c.OneOf()},
	}
}

func (c *Composer) lintRule() webpack.Rule {
	return webpack.Rule{
		Test:    lintTest,
		Enforce: webpack.EnforcePre,
		Include: []string{c.settings.Context},
		Exclude: []*webpack.Pattern{thirdParty},
		Loader:  c.modules.resolve("eslint-loader"),
		Options: webpack.ESLintLoaderOptions{
			Formatter:  c.modules.resolve("react-dev-utils/eslintFormatter"),
			ESLintPath: c.modules.resolve("eslint"),
			BaseConfig: webpack.ESLintBaseConfig{
				Extends: []string{c.modules.resolve("eslint-config-enact")},
			},
			UseESLintrc: false,
			Cache:       true,
		},
	}
}

// OneOf returns the dispatch group, indexed by the Rule* constants.
func (c *Composer) OneOf() []webpack.Rule {
	sideEffects := true

	return []webpack.Rule{
		RuleScript: {
			Test:    scriptTest,
			Exclude: []*webpack.Pattern{thirdPartyNoEnact},
			Use: webpack.Pipeline{{
				Loader: c.modules.resolve("babel-loader"),
				Options: webpack.BabelLoaderOptions{
					Extends:          filepath.Join(c.toolDir, ".babelrc.js"),
					Babelrc:          false,
					CacheDirectory:   !c.flags.Production,
					CacheCompression: false,
					HighlightCode:    true,
					Compact:          c.flags.Production,
				},
			}},
		},
		// Enact package CSS is precompiled from LESS with resolution
		// independence already applied.
		RuleEnactCSS: {
			Test: enactCSSTest,
			Use:  c.StyleLoaders(CSSOptions{Modules: true}, nil),
		},
		// CSS goes through less-loader too so resolution independence applies.
		RuleModuleCSS: {
			Test: moduleCSSTest,
			Use:  c.LessStyleLoaders(CSSOptions{Modules: true}),
		},
		RuleCSS: {
			Test: cssTest,
			Use:  c.LessStyleLoaders(CSSOptions{Modules: c.settings.ForceCSSModules}),
			// CSS imports are never dead code, even in sideEffects:false packages.
			SideEffects: &sideEffects,
		},
		RuleModuleLess: {
			Test: moduleLessTest,
			Use:  c.LessStyleLoaders(CSSOptions{Modules: true}),
		},
		RuleLess: {
			Test:        lessTest,
			Use:         c.LessStyleLoaders(CSSOptions{Modules: c.settings.ForceCSSModules}),
			SideEffects: &sideEffects,
		},
		// Scripts, html and json are left to webpack's internal handling.
		// New rules go above this one.
		RuleFile: {
			Loader:  c.modules.resolve("file-loader"),
			Exclude: fileExcludes,
			Options: webpack.FileLoaderOptions{Name: "[path][name].[ext]"},
		},
	}
}

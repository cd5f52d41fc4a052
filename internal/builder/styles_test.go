package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

func TestStyleLoadersWithoutPreprocessor(t *testing.T) {
	c := NewComposer(testOptions("development", nil))

	chain := c.StyleLoaders(CSSOptions{}, nil)
	require.Len(t, chain, 3)
	assert.Equal(t, []string{
		"/tools/cli/node_modules/mini-css-extract-plugin/dist/loader",
		"/tools/cli/node_modules/css-loader",
		"/tools/cli/node_modules/postcss-loader",
	}, chain.Loaders())

	css, ok := chain[1].Options.(webpack.CSSLoaderOptions)
	require.True(t, ok)
	assert.Equal(t, 1, css.ImportLoaders)
	assert.True(t, css.SourceMap)
	assert.False(t, css.Modules)
	assert.Empty(t, css.GetLocalIdent)
}

func TestStyleLoadersWithPreprocessor(t *testing.T) {
	c := NewComposer(testOptions("production", nil))
	pre := &webpack.UseEntry{Loader: "sass-loader"}

	chain := c.StyleLoaders(CSSOptions{Modules: true}, pre)
	require.Len(t, chain, 4)
	assert.Equal(t, "sass-loader", chain[3].Loader)
	// the preprocessor is the first loader webpack applies
	assert.Equal(t, "sass-loader", chain.Applied()[0].Loader)

	css, ok := chain[1].Options.(webpack.CSSLoaderOptions)
	require.True(t, ok)
	assert.Equal(t, 2, css.ImportLoaders)
	assert.False(t, css.SourceMap)
	assert.True(t, css.Modules)
	assert.Equal(t, "/tools/cli/node_modules/react-dev-utils/getCSSModuleLocalIdent", css.GetLocalIdent)
}

func TestStyleLoadersPostCSSPolicy(t *testing.T) {
	c := NewComposer(testOptions("development", nil))

	postcss, ok := c.StyleLoaders(CSSOptions{}, nil)[2].Options.(webpack.PostCSSLoaderOptions)
	require.True(t, ok)
	assert.Equal(t, "postcss", postcss.Ident)
	assert.True(t, postcss.SourceMap)
	require.Len(t, postcss.Plugins, 3)
	assert.Equal(t, "postcss-flexbugs-fixes", postcss.Plugins[0].Name)
	assert.Equal(t, "postcss-global-import", postcss.Plugins[1].Name)
	assert.Equal(t, webpack.PresetEnvOptions{
		Autoprefixer: webpack.AutoprefixerOptions{Flexbox: "no-2009", Remove: false},
		Stage:        3,
		Features:     map[string]bool{"custom-properties": false},
	}, postcss.Plugins[2].Options)
}

func TestLessStyleLoaders(t *testing.T) {
	opts := testOptions("production", nil)
	opts.Settings.Accent = map[string]string{"@moon-accent": "#cf0652"}
	c := NewComposer(opts)

	chain := c.LessStyleLoaders(CSSOptions{})
	require.Len(t, chain, 4)
	assert.Equal(t, "/tools/cli/node_modules/less-loader", chain[3].Loader)

	less, ok := chain[3].Options.(webpack.LessLoaderOptions)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"__DEV__": false, "@moon-accent": "#cf0652"}, less.ModifyVars)
	assert.False(t, less.SourceMap)
	assert.Empty(t, less.Plugins)
}

func TestLessStyleLoadersResolutionIndependence(t *testing.T) {
	opts := testOptions("development", nil)
	opts.Settings.RI = map[string]any{"baseSize": 24, "unit": "rem"}
	c := NewComposer(opts)

	less, ok := c.LessStyleLoaders(CSSOptions{})[3].Options.(webpack.LessLoaderOptions)
	require.True(t, ok)
	assert.Equal(t, true, less.ModifyVars["__DEV__"])
	require.Len(t, less.Plugins, 1)
	assert.Equal(t, "/tools/cli/node_modules/resolution-independence", less.Plugins[0].Name)
	assert.Equal(t, map[string]any{"baseSize": 24, "unit": "rem"}, less.Plugins[0].Options)
}

func TestStyleChainsAreIndependent(t *testing.T) {
	c := NewComposer(testOptions("development", nil))

	a := c.LessStyleLoaders(CSSOptions{Modules: true})
	b := c.LessStyleLoaders(CSSOptions{Modules: true})
	a[0].Loader = "changed"

	assert.NotEqual(t, a[0].Loader, b[0].Loader)
}

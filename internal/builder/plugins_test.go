package builder

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

func TestPluginsOrder(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		files fstest.MapFS
		want  []string
	}{
		{
			name: "development",
			mode: "development",
			want: []string{
				"HtmlWebpackPlugin", "DefinePlugin", "EnvironmentPlugin", "MiniCssExtractPlugin",
				"CaseSensitivePathsPlugin", "WatchMissingNodeModulesPlugin", "GracefulFsPlugin",
				"ILibPlugin", "WebOSMetaPlugin",
			},
		},
		{
			name: "production",
			mode: "production",
			want: []string{
				"HtmlWebpackPlugin", "DefinePlugin", "EnvironmentPlugin", "MiniCssExtractPlugin",
				"CaseSensitivePathsPlugin", "GracefulFsPlugin", "ILibPlugin", "WebOSMetaPlugin",
			},
		},
		{
			name:  "development with typescript",
			mode:  "development",
			files: withTypeScript(),
			want: []string{
				"HtmlWebpackPlugin", "DefinePlugin", "EnvironmentPlugin", "MiniCssExtractPlugin",
				"CaseSensitivePathsPlugin", "WatchMissingNodeModulesPlugin", "GracefulFsPlugin",
				"ILibPlugin", "WebOSMetaPlugin", "ForkTsCheckerWebpackPlugin",
			},
		},
		{
			name:  "production with typescript",
			mode:  "production",
			files: withTypeScript(),
			want: []string{
				"HtmlWebpackPlugin", "DefinePlugin", "EnvironmentPlugin", "MiniCssExtractPlugin",
				"CaseSensitivePathsPlugin", "GracefulFsPlugin", "ILibPlugin", "WebOSMetaPlugin",
				"ForkTsCheckerWebpackPlugin",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugins := NewComposer(testOptions(tt.mode, tt.files)).Plugins()
			assert.Equal(t, tt.want, plugins.Names())
			for _, p := range plugins {
				assert.NotNil(t, p)
			}
		})
	}
}

func TestNoWatcherInProduction(t *testing.T) {
	for _, files := range []fstest.MapFS{nil, withTypeScript()} {
		plugins := NewComposer(testOptions("production", files)).Plugins()
		_, ok := webpack.Find[*webpack.WatchMissingNodeModulesPlugin](plugins)
		assert.False(t, ok)
	}
}

func TestNoTypeCheckWithoutTSConfig(t *testing.T) {
	for _, mode := range []string{"production", "development"} {
		plugins := NewComposer(testOptions(mode, nil)).Plugins()
		_, ok := webpack.Find[*webpack.TypeCheckPlugin](plugins)
		assert.False(t, ok, mode)
	}
}

func TestTSConfigDirectoryIsIgnored(t *testing.T) {
	files := fstest.MapFS{"tsconfig.json/readme": &fstest.MapFile{}}
	assert.False(t, NewComposer(testOptions("development", files)).UseTypeScript())
}

func TestTypeCheckPlugin(t *testing.T) {
	plugins := NewComposer(testOptions("development", withTypeScript())).Plugins()
	tc, ok := webpack.Find[*webpack.TypeCheckPlugin](plugins)
	require.True(t, ok)

	assert.False(t, tc.Async)
	assert.True(t, tc.CheckSyntacticErrors)
	assert.Equal(t, "tsconfig.json", tc.TSConfig)
	assert.Equal(t, "/tools/cli/node_modules/typescript", tc.TypeScript)
	assert.Equal(t, testContext, tc.Watch)
	assert.True(t, tc.CompilerOptions.NoEmit)
	assert.Equal(t, "preserve", tc.CompilerOptions.JSX)

	report, err := tc.ReportFiles.Compile()
	require.NoError(t, err)
	assert.True(t, report.Match("src/App.tsx"))
	assert.False(t, report.Match("src/App.test.tsx"))
	assert.False(t, report.Match("src/__tests__/App.tsx"))
	assert.False(t, report.Match("src/setupTests.ts"))
	assert.False(t, report.Match("src/setupProxy.js"))
}

func TestHTMLPlugin(t *testing.T) {
	dev := NewComposer(testOptions("development", nil)).Plugins()
	html, ok := webpack.Find[*webpack.HTMLPlugin](dev)
	require.True(t, ok)
	assert.Equal(t, "Sampler", html.Title)
	assert.Equal(t, "body", html.Inject)
	assert.Equal(t, testToolDir+"/html-template.ejs", html.Template)
	assert.True(t, html.XHTML)
	assert.Nil(t, html.Minify)

	opts := testOptions("production", nil)
	opts.Settings.Template = "/projects/sampler/index.html"
	prod := NewComposer(opts).Plugins()
	html, ok = webpack.Find[*webpack.HTMLPlugin](prod)
	require.True(t, ok)
	assert.Equal(t, "/projects/sampler/index.html", html.Template)
	require.NotNil(t, html.Minify)
	assert.True(t, html.Minify.RemoveComments)
	assert.False(t, html.Minify.CollapseWhitespace)
	assert.True(t, html.Minify.KeepClosingSlash)
}

func TestEnvironmentInjection(t *testing.T) {
	opts := testOptions("production", nil)
	opts.Env = map[string]string{
		"REACT_APP_API":   "https://api.example.com",
		"REACT_APP_EMPTY": "",
		"HOME":            "/root",
		"NODE_ENV":        "development",
	}
	plugins := NewComposer(opts).Plugins()

	define, ok := webpack.Find[*webpack.DefinePlugin](plugins)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"process.env.NODE_ENV": `"production"`}, define.Definitions)

	env, ok := webpack.Find[*webpack.EnvironmentPlugin](plugins)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"REACT_APP_API":   "https://api.example.com",
		"REACT_APP_EMPTY": "",
	}, env.Variables)
}

package webpack

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFilterMatch(t *testing.T) {
	filter := ReportFilter{
		"**",
		"!**/*.json",
		"!**/__tests__/**",
		"!**/*.{spec,test}.*",
		"!**/{spec,test}.*",
		"!**/*-specs.*",
		"!**/src/setupProxy.*",
		"!**/src/setupTests.*",
	}

	tests := []struct {
		path string
		want bool
	}{
		{"src/App.tsx", true},
		{"src/components/Button/Button.ts", true},
		{"package.json", false},
		{"src/__tests__/App.tsx", false},
		{"src/App.test.tsx", false},
		{"src/App.spec.ts", false},
		{"src/test.ts", false},
		{"src/Button-specs.js", false},
		{"src/setupProxy.js", false},
		{"src/setupTests.ts", false},
		{"lib/setupTests.ts", true},
	}

	m, err := filter.Compile()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestReportFilterEmpty(t *testing.T) {
	m, err := ReportFilter{}.Compile()
	require.NoError(t, err)
	assert.False(t, m.Match("src/App.tsx"))
}

func TestReportFilterInvalidPattern(t *testing.T) {
	_, err := ReportFilter{"**", "!**/[a"}.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"!**/[a"`)
}

func TestPluginsJSON(t *testing.T) {
	plugins := Plugins{
		&CSSExtractPlugin{Filename: "[name].css", ChunkFilename: "chunk.[name].css"},
		&CaseSensitivePathsPlugin{},
	}

	data, err := json.Marshal(plugins)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name":"MiniCssExtractPlugin","module":"mini-css-extract-plugin","options":{"filename":"[name].css","chunkFilename":"chunk.[name].css"}},
		{"name":"CaseSensitivePathsPlugin","module":"case-sensitive-paths-webpack-plugin","options":{}}
	]`, string(data))
}

func TestPluginsNamesAndFind(t *testing.T) {
	plugins := Plugins{&DefinePlugin{}, &GracefulFSPlugin{}}

	assert.Equal(t, []string{"DefinePlugin", "GracefulFsPlugin"}, plugins.Names())

	_, ok := Find[*GracefulFSPlugin](plugins)
	assert.True(t, ok)
	_, ok = Find[*TypeCheckPlugin](plugins)
	assert.False(t, ok)
}

func TestDevtoolJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Off Devtool `json:"off"`
		On  Devtool `json:"on"`
	}{DevtoolNone, DevtoolSourceMap})
	require.NoError(t, err)
	assert.JSONEq(t, `{"off":false,"on":"source-map"}`, string(data))
}

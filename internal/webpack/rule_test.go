package webpack

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternECMAScriptFeatures(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		resource string
		want     bool
	}{
		{
			name:     "negative lookahead excludes third party",
			pattern:  `node_modules.(?!@enact)`,
			resource: "/app/node_modules/react/index.js",
			want:     true,
		},
		{
			name:     "negative lookahead keeps enact packages",
			pattern:  `node_modules.(?!@enact)`,
			resource: "/app/node_modules/@enact/core/kind.js",
			want:     false,
		},
		{
			name:     "back-reference matches posix separators",
			pattern:  `node_modules(\\|\/).*\1?@enact\1.*\.css`,
			resource: "/app/node_modules/@enact/ui/Button/Button.css",
			want:     true,
		},
		{
			name:     "back-reference matches windows separators",
			pattern:  `node_modules(\\|\/).*\1?@enact\1.*\.css`,
			resource: `C:\app\node_modules\@enact\ui\Button.css`,
			want:     true,
		},
		{
			name:     "back-reference rejects project css",
			pattern:  `node_modules(\\|\/).*\1?@enact\1.*\.css`,
			resource: "/app/src/App.css",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.MatchString(tt.resource))
		})
	}
}

func TestPatternJSON(t *testing.T) {
	data, err := json.Marshal(MustPattern(`\.css$`))
	require.NoError(t, err)
	assert.JSONEq(t, `"/\\.css$/"`, string(data))
}

func TestNewPatternInvalid(t *testing.T) {
	_, err := NewPattern(`(unclosed`)
	require.Error(t, err)
}

func TestPipelineApplied(t *testing.T) {
	p := Pipeline{{Loader: "extract"}, {Loader: "css"}, {Loader: "postcss"}, {Loader: "less"}}

	assert.Equal(t, []string{"less", "postcss", "css", "extract"}, p.Applied().Loaders())
	// the declared order is left untouched
	assert.Equal(t, []string{"extract", "css", "postcss", "less"}, p.Loaders())
}

func TestRuleMatches(t *testing.T) {
	rule := Rule{
		Test:    MustPattern(`\.(js|jsx)$`),
		Include: []string{"/app"},
		Exclude: []*Pattern{MustPattern(`node_modules`)},
	}

	assert.True(t, rule.Matches("/app/src/App.js"))
	assert.False(t, rule.Matches("/app/node_modules/react/index.js"))
	assert.False(t, rule.Matches("/other/src/App.js"))
	assert.False(t, rule.Matches("/app/src/App.css"))
}

func TestFirstMatch(t *testing.T) {
	rules := []Rule{
		{Test: MustPattern(`\.module\.css$`), Loader: "modules"},
		{Test: MustPattern(`\.css$`), Loader: "plain"},
		{Loader: "file", Exclude: []*Pattern{MustPattern(`\.js$`)}},
	}

	assert.Equal(t, 0, FirstMatch(rules, "src/App.module.css"))
	assert.Equal(t, 1, FirstMatch(rules, "src/App.css"))
	assert.Equal(t, 2, FirstMatch(rules, "src/logo.png"))
	assert.Equal(t, -1, FirstMatch(rules, "src/App.js"))
}

func TestRulePipelineSingleLoader(t *testing.T) {
	r := Rule{Loader: "file-loader", Options: FileLoaderOptions{Name: "[name].[ext]"}}
	require.Len(t, r.Pipeline(), 1)
	assert.Equal(t, "file-loader", r.Pipeline()[0].Loader)

	assert.Nil(t, Rule{}.Pipeline())
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Setup(false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, Setup(true).GetLevel())
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	Messages(l, zerolog.ErrorLevel, []api.Message{
		{Text: "Could not resolve \"./missing\"", Location: &api.Location{File: "src/App.js", Line: 3, Column: 7}},
		{Text: "lessc failed", PluginName: "enact-less"},
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "error", first["level"])
	assert.Equal(t, "src/App.js", first["file"])
	assert.EqualValues(t, 3, first["line"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "enact-less", second["plugin"])
	assert.NotContains(t, second, "file")
}

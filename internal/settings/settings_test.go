package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{
		// comments are tolerated
		"name": "sampler",
		"enact": {
			"title": "Sampler",
			"accent": {"@moon-accent": "#cf0652", "@sand-size": 24},
			"ri": {"baseSize": 24},
			"environment": "electron-renderer",
			"nodeBuiltins": {"fs": "empty"},
			"forceCSSModules": true,
		}
	}`)

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, s.Context)
	assert.Equal(t, "sampler", s.Name)
	assert.Equal(t, "Sampler", s.Title)
	assert.Equal(t, map[string]string{"@moon-accent": "#cf0652", "@sand-size": "24"}, s.Accent)
	assert.Equal(t, map[string]any{"baseSize": float64(24)}, s.RI)
	assert.Equal(t, "electron-renderer", s.Environment)
	assert.Equal(t, map[string]any{"fs": "empty"}, s.NodeBuiltins)
	assert.True(t, s.ForceCSSModules)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"name": "plain"}`)

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultEnvironment, s.Environment)
	assert.Empty(t, s.Title)
	assert.Nil(t, s.RI)
	assert.Nil(t, s.NodeBuiltins)
	assert.False(t, s.ForceCSSModules)
}

func TestLoadTitleFromAppInfo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"name": "tv-app"}`)
	writeFile(t, filepath.Join(dir, "webos-meta", "appinfo.json"), `{
		"id": "com.example.tv",
		"title": "TV App",
		"icon": "icon.png"
	}`)

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "TV App", s.Title)
}

func TestLoadMissingPackageJSON(t *testing.T) {
	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, ErrNoPackageJSON)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(map[string]any{"forceCSSModules": []string{"nope"}})
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestDecodeKeepsEmptyRI(t *testing.T) {
	s, err := Decode(map[string]any{"ri": map[string]any{}})
	require.NoError(t, err)
	assert.NotNil(t, s.RI)
	assert.Empty(t, s.RI)
}

func TestDecodeKeepsAllRIOptions(t *testing.T) {
	s, err := Decode(map[string]any{"ri": map[string]any{"baseSize": 24, "unit": "rem", "precision": 3}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"baseSize": 24, "unit": "rem", "precision": 3}, s.RI)
}

func TestDecodeNullRI(t *testing.T) {
	s, err := Decode(map[string]any{"ri": nil})
	require.NoError(t, err)
	assert.Nil(t, s.RI)
}

func TestAppInfoAssets(t *testing.T) {
	info := AppInfo{Icon: "icon.png", LargeIcon: "large.png", BgImage: "bg.png"}
	assert.Equal(t, []string{"icon.png", "large.png", "bg.png"}, info.Assets())
}

// Package settings loads the Enact build options of a project.
//
// Options live in the "enact" block of the project's package.json. The
// result is a read-only value handed to the configuration builder.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/jsonc"
)

var (
	// ErrNoPackageJSON indicates the project directory has no package.json.
	ErrNoPackageJSON = errors.New("package.json not found")
	// ErrInvalidOptions indicates the enact block could not be decoded.
	ErrInvalidOptions = errors.New("invalid enact options")
)

const DefaultEnvironment = "web"

// Settings holds the project build options.
type Settings struct {
	// Context is the absolute project directory.
	Context string `mapstructure:"-"`
	// Name is the package name.
	Name string `mapstructure:"-"`
	// Title is the document title of the generated page.
	Title string `mapstructure:"title"`
	// Template is a custom HTML template path.
	Template string `mapstructure:"template"`
	// Accent holds LESS variables injected into every stylesheet.
	Accent map[string]string `mapstructure:"accent"`
	// RI holds the resolution independence plugin options. The plugin is
	// enabled whenever the key is present, even with an empty object.
	RI map[string]any `mapstructure:"ri"`
	// Environment is the webpack target.
	Environment string `mapstructure:"environment"`
	// NodeBuiltins is the webpack node polyfill policy, nil for the default.
	NodeBuiltins any `mapstructure:"nodeBuiltins"`
	// ForceCSSModules applies CSS module scoping to every stylesheet.
	ForceCSSModules bool `mapstructure:"forceCSSModules"`
}

type packageJSON struct {
	Name  string         `json:"name"`
	Enact map[string]any `json:"enact"`
}

// Load reads the settings of the project rooted at dir.
func Load(dir string) (Settings, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(abs, "package.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("%w in %s", ErrNoPackageJSON, abs)
		}
		return Settings{}, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return Settings{}, fmt.Errorf("failed to parse package.json: %w", err)
	}

	s, err := Decode(pkg.Enact)
	if err != nil {
		return Settings{}, err
	}
	s.Context = abs
	s.Name = pkg.Name

	if s.Title == "" {
		s.Title = appInfoTitle(abs)
	}

	log.Debug().Str("context", abs).Str("title", s.Title).Str("environment", s.Environment).Msg("Loaded project settings")

	return s, nil
}

// Decode converts a raw enact block into Settings and applies defaults.
func Decode(raw map[string]any) (Settings, error) {
	var s Settings

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Settings{}, err
	}

	if err := dec.Decode(raw); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	s.applyDefaults()
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.Environment == "" {
		s.Environment = DefaultEnvironment
	}
}

// appInfoTitle returns the title of the first webOS appinfo.json found.
func appInfoTitle(dir string) string {
	for _, candidate := range AppInfoPaths(dir) {
		info, err := ReadAppInfo(candidate)
		if err != nil {
			continue
		}
		if info.Title != "" {
			return info.Title
		}
	}
	return ""
}

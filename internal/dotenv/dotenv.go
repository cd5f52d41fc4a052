// Package dotenv loads the .env files of a project for a build mode.
package dotenv

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

// Files returns the .env files considered for mode, highest priority first.
// .env.local is skipped for the test mode so test runs are reproducible.
func Files(dir, mode string) []string {
	files := []string{}
	if mode != "" {
		files = append(files, fmt.Sprintf(".env.%s.local", mode))
	}
	if mode != "test" {
		files = append(files, ".env.local")
	}
	if mode != "" {
		files = append(files, fmt.Sprintf(".env.%s", mode))
	}
	files = append(files, ".env")

	for i, f := range files {
		files[i] = filepath.Join(dir, f)
	}
	return files
}

// Load merges the .env files of dir into a copy of environ. Variables already
// present in environ are never overridden, and files earlier in Files win
// over later ones.
func Load(dir, mode string, environ map[string]string) (map[string]string, error) {
	env := maps.Clone(environ)
	if env == nil {
		env = map[string]string{}
	}

	for _, path := range Files(dir, mode) {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}

		vars, err := gotenv.StrictParse(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		for k, v := range vars {
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}

		log.Debug().Str("file", path).Int("vars", len(vars)).Msg("Loaded env file")
	}

	return env, nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}
	return env
}

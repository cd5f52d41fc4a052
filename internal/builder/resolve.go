package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// ErrUnresolvedModule indicates a loader or plugin module could not be found.
var ErrUnresolvedModule = errors.New("unresolved module")

// Resolver locates loader and plugin modules.
type Resolver interface {
	Resolve(request string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(request string) (string, error)

func (f ResolverFunc) Resolve(request string) (string, error) {
	return f(request)
}

// NodeResolver resolves requests the way Node's require.resolve does for
// package requests: each directory in Paths is treated as a node_modules
// directory. Absolute requests are resolved as files or directories.
type NodeResolver struct {
	Paths []string
}

func (r NodeResolver) Resolve(request string) (string, error) {
	if filepath.IsAbs(request) {
		if p, ok := resolveFile(request); ok {
			return p, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnresolvedModule, request)
	}

	for _, base := range r.Paths {
		if p, ok := resolveFile(filepath.Join(base, filepath.FromSlash(request))); ok {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %s (searched %v)", ErrUnresolvedModule, request, r.Paths)
}

func resolveFile(path string) (string, bool) {
	if isFile(path) {
		return path, true
	}
	if isFile(path + ".js") {
		return path + ".js", true
	}
	if !isDir(path) {
		return "", false
	}

	if main := packageMain(path); main != "" {
		if p, ok := resolveFile(filepath.Join(path, main)); ok {
			return p, true
		}
	}

	index := filepath.Join(path, "index.js")
	if isFile(index) {
		return index, true
	}
	return "", false
}

func packageMain(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}

	var pkg struct {
		Main string `json:"main"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return ""
	}
	return pkg.Main
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// modules resolves module requests, remembering the first failure so the
// composition code can stay linear. Build reports the failure.
type modules struct {
	resolver Resolver
	resolved map[string]string
	err      error
}

func newModules(r Resolver) *modules {
	return &modules{resolver: r, resolved: make(map[string]string)}
}

func (m *modules) resolve(request string) string {
	if p, ok := m.resolved[request]; ok {
		return p
	}

	p, err := m.resolver.Resolve(request)
	if err != nil {
		if m.err == nil {
			if errors.Is(err, ErrUnresolvedModule) {
				m.err = err
			} else {
				m.err = fmt.Errorf("%w: %s: %w", ErrUnresolvedModule, request, err)
			}
		}
		return request
	}

	m.resolved[request] = p
	return p
}

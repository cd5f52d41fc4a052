package assets

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/enactpack/internal/builder"
	"github.com/wolfeidau/enactpack/internal/settings"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

// fakeRunner records invocations and answers with canned output.
type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	output []byte
	err    error
}

func (f *fakeRunner) run(_ context.Context, _ string, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.output, f.err
}

// project lays out an application and a tool directory under a temp dir.
type project struct {
	root    string
	context string
	toolDir string
}

func newProject(t *testing.T, files map[string]string) project {
	t.Helper()

	root := t.TempDir()
	p := project{
		root:    root,
		context: filepath.Join(root, "app"),
		toolDir: filepath.Join(root, "tools", "config"),
	}

	writeFiles(t, p.toolDir, map[string]string{"polyfills.js": "globalThis.polyfilled = true;\n"})
	writeFiles(t, p.context, files)
	return p
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func (p project) resolver() builder.ResolverFunc {
	return func(request string) (string, error) {
		if filepath.IsAbs(request) {
			return request + ".js", nil
		}
		return filepath.Join(p.root, "tools", "node_modules", request), nil
	}
}

func (p project) compose(t *testing.T, mode string, s settings.Settings) *webpack.Configuration {
	t.Helper()

	s.Context = p.context
	if s.Environment == "" {
		s.Environment = settings.DefaultEnvironment
	}
	if s.Title == "" {
		s.Title = "Sampler"
	}

	cfg, err := builder.Build(builder.Options{
		Mode:     mode,
		Env:      map[string]string{},
		Settings: s,
		Resolver: p.resolver(),
		ToolDir:  p.toolDir,
	})
	require.NoError(t, err)
	return cfg
}

func (p project) pipeline(t *testing.T, cfg *webpack.Configuration, runner *fakeRunner) *Pipeline {
	t.Helper()

	c := DefaultConfig(p.context, cfg)
	if runner != nil {
		c.Runner = runner.run
		c.Checker = runner.run
	}
	pl, err := New(c)
	require.NoError(t, err)
	return pl
}

package builder

import (
	"path/filepath"
	"testing/fstest"

	"github.com/wolfeidau/enactpack/internal/settings"
)

const (
	testContext = "/projects/sampler"
	testToolDir = "/tools/cli/config"
)

// testResolver resolves every package request into a fixed node_modules.
var testResolver = ResolverFunc(func(request string) (string, error) {
	if filepath.IsAbs(request) {
		return request + ".js", nil
	}
	return "/tools/cli/node_modules/" + request, nil
})

func testSettings() settings.Settings {
	return settings.Settings{
		Context:     testContext,
		Name:        "sampler",
		Title:       "Sampler",
		Environment: settings.DefaultEnvironment,
	}
}

func testOptions(mode string, files fstest.MapFS) Options {
	if files == nil {
		files = fstest.MapFS{}
	}
	return Options{
		Mode:     mode,
		Env:      map[string]string{},
		Settings: testSettings(),
		Resolver: testResolver,
		FS:       files,
		ToolDir:  testToolDir,
	}
}

func withTypeScript() fstest.MapFS {
	return fstest.MapFS{
		TSConfigFile: &fstest.MapFile{Data: []byte(`{"compilerOptions": {}}`)},
	}
}

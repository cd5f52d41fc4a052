package assets

import (
	"errors"
	"path"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrBuildFailed indicates esbuild reported errors.
	ErrBuildFailed = errors.New("esbuild failed with errors")
	// ErrNotBuilt indicates metadata was requested before a build.
	ErrNotBuilt = errors.New("assets not built yet, call Build() first")
)

type BuildMetadata struct {
	Inputs  map[string]InputInfo  `json:"inputs"`
	Outputs map[string]OutputInfo `json:"outputs"`
}

type InputInfo struct {
	Bytes int `json:"bytes"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	CSSBundle  string       `json:"cssBundle"`
	Bytes      int          `json:"bytes"`
	Imports    []ImportInfo `json:"imports"`
}

type ImportInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Pipeline runs a composed configuration through esbuild and the post-build
// steps standing in for the configured webpack plugins.
type Pipeline struct {
	config   Config
	metadata *BuildMetadata
	mu       sync.RWMutex
}

// New creates a new asset pipeline with the given configuration
func New(config Config) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{config: config.withDefaults()}, nil
}

// Metadata returns the metadata of the last successful build.
func (p *Pipeline) Metadata() (*BuildMetadata, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.metadata == nil {
		return nil, ErrNotBuilt
	}
	return p.metadata, nil
}

// LoadAssets returns the script and stylesheet paths, relative to the output
// directory, needed by the named entry. Scripts are ordered entry first,
// followed by its static imports.
func (p *Pipeline) LoadAssets(entry string) (scripts, styles []string, err error) {
	meta, err := p.Metadata()
	if err != nil {
		return nil, nil, err
	}
	return meta.assets(p.outdirRel(), entry)
}

func (m *BuildMetadata) assets(outdir, entry string) ([]string, []string, error) {
	prefix := strings.TrimSuffix(outdir, "/") + "/"

	// outputs are keyed by path, iterate in a stable order
	keys := make([]string, 0, len(m.Outputs))
	for k := range m.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, outputPath := range keys {
		info := m.Outputs[outputPath]
		if info.EntryPoint == "" || path.Base(strings.TrimSuffix(outputPath, path.Ext(outputPath))) != entry {
			continue
		}
		if path.Ext(outputPath) != ".js" {
			continue
		}

		scripts := []string{strings.TrimPrefix(outputPath, prefix)}
		visited := map[string]bool{outputPath: true}
		m.addDependencies(info, prefix, &scripts, visited)

		var styles []string
		if info.CSSBundle != "" {
			styles = append(styles, strings.TrimPrefix(info.CSSBundle, prefix))
		}
		return scripts, styles, nil
	}

	return nil, nil, errors.New("entrypoint not found in metadata")
}

func (m *BuildMetadata) addDependencies(output OutputInfo, prefix string, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if imp.Kind != "" && imp.Kind != "import-statement" {
			continue
		}
		if visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true
		*scripts = append(*scripts, strings.TrimPrefix(imp.Path, prefix))

		if chunkInfo, exists := m.Outputs[imp.Path]; exists {
			m.addDependencies(chunkInfo, prefix, scripts, visited)
		}
	}
}

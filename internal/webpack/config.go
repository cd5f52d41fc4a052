// Package webpack models the webpack configuration composed by the builder.
//
// The types marshal to the JSON shape webpack expects, with regular
// expressions encoded as literals and plugins encoded as descriptors naming
// the plugin class, its module and its constructor options.
package webpack

import (
	"encoding/json"
	"fmt"
)

type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

// Devtool selects the source map style. The empty value disables source
// maps and is encoded as false.
type Devtool string

const (
	DevtoolNone              Devtool = ""
	DevtoolSourceMap         Devtool = "source-map"
	DevtoolCheapModuleSource Devtool = "cheap-module-source-map"
)

func (d Devtool) MarshalJSON() ([]byte, error) {
	if d == DevtoolNone {
		return []byte("false"), nil
	}
	return json.Marshal(string(d))
}

// Configuration is a complete webpack configuration.
type Configuration struct {
	Mode          Mode                `json:"mode"`
	Bail          bool                `json:"bail"`
	Devtool       Devtool             `json:"devtool"`
	Entry         map[string][]string `json:"entry"`
	Output        Output              `json:"output"`
	Resolve       Resolve             `json:"resolve"`
	ResolveLoader ResolveLoader       `json:"resolveLoader"`
	Module        Module              `json:"module"`
	Target        string              `json:"target"`
	Node          any                 `json:"node,omitempty"`
	Performance   Performance         `json:"performance"`
	Optimization  Optimization        `json:"optimization"`
	Plugins       Plugins             `json:"plugins"`
}

type Output struct {
	Path          string `json:"path"`
	Filename      string `json:"filename"`
	ChunkFilename string `json:"chunkFilename"`
	Pathinfo      bool   `json:"pathinfo"`
}

type Resolve struct {
	Extensions []string          `json:"extensions"`
	Modules    []string          `json:"modules"`
	Alias      map[string]string `json:"alias"`
}

type ResolveLoader struct {
	Modules []string `json:"modules"`
}

type Module struct {
	Rules []Rule `json:"rules"`
}

type Performance struct {
	Hints bool `json:"hints"`
}

type Optimization struct {
	Minimize  bool    `json:"minimize"`
	Minimizer Plugins `json:"minimizer"`
}

// OneOf returns the first oneOf dispatch group of the module rules.
func (c *Configuration) OneOf() ([]Rule, error) {
	for _, r := range c.Module.Rules {
		if len(r.OneOf) > 0 {
			return r.OneOf, nil
		}
	}
	return nil, fmt.Errorf("configuration has no oneOf rule group")
}

// Production reports whether the configuration targets production.
func (c *Configuration) Production() bool {
	return c.Mode == ModeProduction
}

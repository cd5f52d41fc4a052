package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/enactpack/internal/dotenv"
	"github.com/wolfeidau/enactpack/internal/logger"
)

type ConfigCmd struct {
	ProjectFlags `embed:""`

	Format string `help:"output format" default:"json" enum:"json,yaml" env:"ENACTPACK_FORMAT"`

	// Out receives the configuration, defaults to stdout.
	Out io.Writer `kong:"-"`
}

func (c *ConfigCmd) Run(ctx context.Context, globals *Globals) error {
	log.Logger = logger.Setup(globals.Debug)

	cfg, _, err := c.compose(dotenv.Environ())
	if err != nil {
		return fmt.Errorf("failed to compose configuration: %w", err)
	}

	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if c.Format == "yaml" {
		if data, err = toYAML(data); err != nil {
			return err
		}
	} else {
		data = append(data, '\n')
	}

	_, err = out.Write(data)
	return err
}

// toYAML re-encodes JSON as block style YAML, keeping the key order.
func toYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	clearStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return out, nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

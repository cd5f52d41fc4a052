package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/enactpack/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Config  commands.ConfigCmd `cmd:"" help:"Print the composed webpack configuration"`
		Build   commands.BuildCmd  `cmd:"" help:"Bundle the application"`
		Debug   bool               `help:"Enable debug mode." env:"ENACTPACK_DEBUG"`
		Tracing bool               `help:"Export traces and metrics over OTLP." env:"ENACTPACK_TRACING"`
		Version kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("enactpack"),
		kong.Description("Compose and run webpack style builds for Enact applications."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Tracing: cli.Tracing, Version: version})
	cmd.FatalIfErrorf(err)
}

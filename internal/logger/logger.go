package logger

import (
	"os"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
)

func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

// Messages logs esbuild diagnostics at the given level.
func Messages(logger zerolog.Logger, level zerolog.Level, msgs []api.Message) {
	for _, msg := range msgs {
		evt := logger.WithLevel(level).Str("text", msg.Text)
		if msg.PluginName != "" {
			evt = evt.Str("plugin", msg.PluginName)
		}
		if msg.Location != nil {
			evt = evt.Str("file", msg.Location.File).
				Int("line", msg.Location.Line).
				Int("column", msg.Location.Column)
		}
		evt.Msg("esbuild")
	}
}

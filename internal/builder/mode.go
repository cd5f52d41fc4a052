package builder

import "github.com/wolfeidau/enactpack/internal/webpack"

// Environment variables read by the mode resolver.
const (
	EnvNodeEnv           = "NODE_ENV"
	EnvGenerateSourceMap = "GENERATE_SOURCEMAP"
)

// ModeFlags are derived once per build and read by every other component.
type ModeFlags struct {
	Production bool
	SourceMap  bool
}

// ResolveMode derives the mode flags. An empty mode falls back to NODE_ENV;
// anything other than "production" is a development build. Source maps
// default to off in production and on in development, but an explicit
// GENERATE_SOURCEMAP always wins: "false" disables them, any other non-empty
// value enables them.
func ResolveMode(mode string, env map[string]string) ModeFlags {
	if mode == "" {
		mode = env[EnvNodeEnv]
	}
	production := mode == string(webpack.ModeProduction)

	sourceMap := !production
	if v := env[EnvGenerateSourceMap]; v != "" {
		sourceMap = v != "false"
	}

	return ModeFlags{Production: production, SourceMap: sourceMap}
}

// Mode returns the webpack mode for the flags.
func (f ModeFlags) Mode() webpack.Mode {
	return cond(f.Production, webpack.ModeProduction, webpack.ModeDevelopment)
}

// Devtool returns the source map style for the flags.
func (f ModeFlags) Devtool() webpack.Devtool {
	if !f.SourceMap {
		return webpack.DevtoolNone
	}
	return cond(f.Production, webpack.DevtoolSourceMap, webpack.DevtoolCheapModuleSource)
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}

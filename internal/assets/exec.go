package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	consolestream "github.com/wolfeidau/console-stream"

	"github.com/wolfeidau/enactpack/internal/dotenv"
)

// Runner executes an external tool in dir and returns its standard output.
// The output is returned alongside a failed exit so callers can parse
// diagnostics written before the failure.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// streamRunner runs a tool through console-stream and collects its console
// output. Stdout and stderr are not separated, so it only suits tools
// reporting diagnostics. Requests use absolute paths, dir is not applied.
func streamRunner(ctx context.Context, _ string, name string, args ...string) ([]byte, error) {
	process := consolestream.NewProcess(name, args,
		consolestream.WithEnvMap(dotenv.Environ()),
		consolestream.WithFlushInterval(250*time.Millisecond),
		consolestream.WithPipeMode(),
	)

	var out bytes.Buffer
	for event, err := range process.ExecuteAndStream(ctx) {
		if err != nil {
			return out.Bytes(), fmt.Errorf("%s: %w", name, err)
		}

		switch e := event.Event.(type) {
		case *consolestream.OutputData:
			out.Write(e.Data)
		case *consolestream.ProcessEnd:
			if e.ExitCode != 0 {
				return out.Bytes(), fmt.Errorf("%s: exit status %d", name, e.ExitCode)
			}
			return out.Bytes(), nil
		}
	}

	return out.Bytes(), fmt.Errorf("%s: output ended before the process exited", name)
}

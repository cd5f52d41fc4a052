package assets

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

// ErrTypeCheckFailed indicates tsc reported errors in reported files.
var ErrTypeCheckFailed = errors.New("type check failed")

// Diagnostic is a single tsc finding.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Severity string
	Code     string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s(%d,%d): %s %s: %s", d.File, d.Line, d.Column, d.Severity, d.Code, d.Message)
}

// tsc --pretty false output, e.g. src/App.tsx(3,7): error TS2322: message
var diagnosticLine = regexp.MustCompile(`^(.+)\((\d+),(\d+)\): (error|warning) (TS\d+): (.*)$`)

// ParseDiagnostics parses tsc output, keeping diagnostics whose file passes
// the report matcher. Continuation lines are appended to the message.
func ParseDiagnostics(out []byte, report *webpack.ReportMatcher) []Diagnostic {
	var (
		diags []Diagnostic
		last  *Diagnostic
	)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		m := diagnosticLine.FindStringSubmatch(line)
		if m == nil {
			if last != nil && line != "" {
				last.Message += "\n" + line
			}
			continue
		}

		last = nil
		if !report.Match(m[1]) {
			continue
		}

		lineNo, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		diags = append(diags, Diagnostic{
			File:     filepath.ToSlash(m[1]),
			Line:     lineNo,
			Column:   col,
			Severity: m[4],
			Code:     m[5],
			Message:  m[6],
		})
		last = &diags[len(diags)-1]
	}
	return diags
}

// tscPath locates the tsc script from the resolved typescript module.
func tscPath(typescript string) string {
	dir := filepath.Dir(typescript)
	for dir != filepath.Dir(dir) {
		if filepath.Base(dir) == "typescript" {
			return filepath.Join(dir, "bin", "tsc")
		}
		dir = filepath.Dir(dir)
	}
	return filepath.Join(filepath.Dir(typescript), "bin", "tsc")
}

// typeCheck runs tsc over the project and fails on reported errors.
func (p *Pipeline) typeCheck(ctx context.Context, tc *webpack.TypeCheckPlugin) error {
	report, err := tc.ReportFiles.Compile()
	if err != nil {
		return fmt.Errorf("failed to compile reportFiles: %w", err)
	}

	args := []string{tscPath(tc.TypeScript), "--noEmit", "--pretty", "false", "-p", p.tsconfig(tc)}

	// tsc exits non-zero when it finds errors, the output decides
	out, runErr := p.config.Checker(ctx, p.config.Context, p.config.Node, args...)
	diags := ParseDiagnostics(out, report)

	errCount := 0
	for _, d := range diags {
		if d.Severity == "error" {
			errCount++
		}
		zerolog.Ctx(ctx).Warn().Str("file", d.File).Int("line", d.Line).Int("column", d.Column).
			Str("code", d.Code).Str("severity", d.Severity).Msg(d.Message)
	}

	if errCount > 0 {
		return fmt.Errorf("%w: %d errors", ErrTypeCheckFailed, errCount)
	}
	if runErr != nil && len(out) == 0 {
		return fmt.Errorf("failed to run tsc: %w", runErr)
	}
	return nil
}

// Package commands provides CLI command handlers for apidiff.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/apidiff/internal/cliutil"
	"github.com/erraggy/apidiff/internal/fileutil"
	"github.com/erraggy/apidiff/internal/pathutil"
	"github.com/erraggy/apidiff/loader"
	"github.com/erraggy/apidiff/logging"
	"github.com/erraggy/apidiff/report"
	"github.com/samber/lo"
	"go.yaml.in/yaml/v4"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ExitError carries a non-zero exit status that is not itself a failure,
// such as breaking changes found under --fail-on-breaking.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps a command error to the process exit status.
// Nil is report.ExitCodeOK, an *ExitError carries its own code, and any other
// error is report.ExitCodeError.
func ExitCode(err error) int {
	if err == nil {
		return report.ExitCodeOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return report.ExitCodeError
}

// ValidateOutputFormat validates a format for structured listing commands.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if inputPath == StdinFilePath || loader.IsURL(inputPath) {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}

		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	if _, err := os.Stat(outputPath); err == nil {
		cliutil.Writef(os.Stderr, "Warning: output file %s already exists and will be overwritten\n", outputPath)
	}

	return nil
}

// FormatSpecPath returns a display-friendly path for the document.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// ParseRuleList splits a comma-separated --ignore value into rule IDs.
func ParseRuleList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(p))
	})
	return lo.Uniq(lo.Compact(parts))
}

// NewLogger returns a debug-level slog logger on w when verbose is set,
// and a no-op logger otherwise.
func NewLogger(w io.Writer, verbose bool) logging.Logger {
	if !verbose {
		return logging.NopLogger{}
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogAdapter(slog.New(h))
}

// loadSettings are the loader knobs shared by compare and check.
type loadSettings struct {
	validate bool
	timeout  time.Duration
	logger   logging.Logger
	stdin    io.Reader
}

// loadDocument loads path, which may be a file, an http(s) URL, or "-" for stdin.
func loadDocument(ctx context.Context, path string, s loadSettings) (*loader.Result, error) {
	opts := []loader.Option{
		loader.WithValidation(s.validate),
		loader.WithTimeout(s.timeout),
		loader.WithLogger(s.logger),
	}
	if path == StdinFilePath {
		opts = append(opts, loader.WithReader(s.stdin), loader.WithSourceName(FormatSpecPath(path)))
	} else {
		opts = append(opts, loader.WithFilePath(path))
	}
	return loader.LoadWithOptions(ctx, opts...)
}

// writeReport renders r to outPath, or to stdout when outPath is empty.
func writeReport(std streams, outPath string, format report.Format, r *report.Report) error {
	if outPath == "" {
		return report.Write(std.stdout, format, r)
	}

	cleaned, err := pathutil.SanitizeOutputPath(outPath)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(cleaned, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileutil.ReadableByAll) //nolint:gosec // G304 - user-chosen report path
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := report.Write(f, format, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	cliutil.Writef(std.stderr, "Report written to %s\n", cleaned)
	return nil
}

// streams holds the standard streams a command reads and writes.
type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func defaultStreams() streams {
	return streams{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

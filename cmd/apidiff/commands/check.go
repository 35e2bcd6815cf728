package commands

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/erraggy/apidiff/differ"
	"github.com/erraggy/apidiff/internal/cliutil"
	"github.com/erraggy/apidiff/internal/history"
	"github.com/erraggy/apidiff/loader"
	"github.com/erraggy/apidiff/report"
)

// CheckFlags contains flags for the check command
type CheckFlags struct {
	ID             string
	Store          string
	MaxVersions    int
	Format         string
	Output         string
	FailOnBreaking bool
	Ignore         string
	Validate       bool
	Timeout        time.Duration
	Verbose        bool
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
// Returns the FlagSet and a CheckFlags struct with bound flag variables.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &CheckFlags{}

	fs.StringVar(&flags.ID, "id", "", "name under which snapshots of this API are stored (required)")
	fs.StringVar(&flags.Store, "store", ".apidiff", "directory holding stored snapshots")
	fs.IntVar(&flags.MaxVersions, "max-versions", history.DefaultMaxVersions, "snapshots kept per ID; older ones are pruned")
	fs.StringVar(&flags.Format, "format", string(report.FormatText), "output format: text, json, yaml, or markdown")
	fs.StringVar(&flags.Output, "out", "", "write the report to this file instead of stdout")
	fs.StringVar(&flags.Output, "o", "", "write the report to this file instead of stdout")
	fs.BoolVar(&flags.FailOnBreaking, "fail-on-breaking", false, "exit with status 2 when breaking changes are found")
	fs.StringVar(&flags.Ignore, "ignore", "", "comma-separated rule IDs to drop from the report")
	fs.BoolVar(&flags.Validate, "validate", false, "validate the document against the OpenAPI 3 schema before checking")
	fs.DurationVar(&flags.Timeout, "timeout", loader.DefaultTimeout, "time limit for loading the document (0 disables)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug details to stderr")
	fs.BoolVar(&flags.Verbose, "v", false, "log debug details to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apidiff check --id NAME [flags] <file|url>\n\n")
		cliutil.Writef(fs.Output(), "Compare a document against the last stored snapshot with the same ID,\n")
		cliutil.Writef(fs.Output(), "then store it as the newest snapshot. The first check of an ID only\n")
		cliutil.Writef(fs.Output(), "stores the baseline.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  apidiff check --id users-api openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  apidiff check --id users-api --store /var/lib/apidiff --fail-on-breaking openapi.yaml\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    Check completed (no breaking changes, or --fail-on-breaking not set)\n")
		cliutil.Writef(fs.Output(), "  2    Breaking changes found and --fail-on-breaking set\n")
		cliutil.Writef(fs.Output(), "  64   The document or the snapshot store could not be read\n")
	}

	return fs, flags
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	return runCheck(args, defaultStreams())
}

func runCheck(args []string, std streams) error {
	fs, flags := SetupCheckFlags()
	fs.SetOutput(std.stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("check command requires exactly one file path or URL")
	}
	if flags.ID == "" {
		fs.Usage()
		return fmt.Errorf("check command requires --id")
	}
	specPath := fs.Arg(0)

	format, err := report.ParseFormat(flags.Format)
	if err != nil {
		return err
	}
	if flags.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", flags.Timeout)
	}
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{specPath}); err != nil {
			return err
		}
	}

	logger := NewLogger(std.stderr, flags.Verbose)
	store, err := history.NewStore(flags.Store, flags.MaxVersions, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	current, err := loadDocument(ctx, specPath, loadSettings{
		validate: flags.Validate,
		timeout:  flags.Timeout,
		logger:   logger,
		stdin:    std.stdin,
	})
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	previous, err := store.Latest(flags.ID)
	if err != nil {
		return fmt.Errorf("reading snapshot store: %w", err)
	}
	if previous == nil {
		if _, err := store.Save(flags.ID, current.Document.Version, current.Data); err != nil {
			return fmt.Errorf("storing snapshot: %w", err)
		}
		cliutil.Writef(std.stderr, "No previous snapshot for %q; stored version %q as the baseline.\n",
			flags.ID, current.Document.Version)
		return nil
	}

	baseline, err := loader.LoadWithOptions(ctx,
		loader.WithBytes(previous.Data),
		loader.WithSourceName(snapshotName(previous)),
		loader.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("loading stored snapshot: %w", err)
	}

	result, err := differ.CompareWithOptions(
		differ.WithOld(baseline.Document),
		differ.WithNew(current.Document),
		differ.WithIgnoreRules(ParseRuleList(flags.Ignore)...),
		differ.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("comparing documents: %w", err)
	}

	// Re-checking an unchanged document must not push real history out.
	if bytes.Equal(previous.Data, current.Data) {
		logger.Debug("document unchanged since last snapshot", "id", flags.ID)
	} else if _, err := store.Save(flags.ID, current.Document.Version, current.Data); err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}

	r := report.New(snapshotName(previous), FormatSpecPath(specPath), result)
	if err := writeReport(std, flags.Output, format, r); err != nil {
		return err
	}

	if code := report.ExitCode(result, flags.FailOnBreaking); code != report.ExitCodeOK {
		return &ExitError{Code: code}
	}
	return nil
}

// snapshotName labels a stored snapshot in reports, e.g. "users-api@1.2.0 (2026-01-02T15:04:05Z)".
func snapshotName(s *history.Snapshot) string {
	name := s.ID
	if s.Version != "" {
		name += "@" + s.Version
	}
	return fmt.Sprintf("%s (%s)", name, s.Timestamp.Format(time.RFC3339))
}

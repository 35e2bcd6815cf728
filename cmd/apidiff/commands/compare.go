package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/erraggy/apidiff/differ"
	"github.com/erraggy/apidiff/internal/cliutil"
	"github.com/erraggy/apidiff/loader"
	"github.com/erraggy/apidiff/report"
	"golang.org/x/sync/errgroup"
)

// CompareFlags contains flags for the compare command
type CompareFlags struct {
	Old            string
	New            string
	Format         string
	Output         string
	FailOnBreaking bool
	Ignore         string
	Parallel       bool
	Validate       bool
	Timeout        time.Duration
	Verbose        bool
}

// SetupCompareFlags creates and configures a FlagSet for the compare command.
// Returns the FlagSet and a CompareFlags struct with bound flag variables.
func SetupCompareFlags() (*flag.FlagSet, *CompareFlags) {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	flags := &CompareFlags{}

	fs.StringVar(&flags.Old, "old", "", "old (baseline) document: file path, URL, or - for stdin")
	fs.StringVar(&flags.New, "new", "", "new (candidate) document: file path, URL, or - for stdin")
	fs.StringVar(&flags.Format, "format", string(report.FormatText), "output format: text, json, yaml, or markdown")
	fs.StringVar(&flags.Output, "out", "", "write the report to this file instead of stdout")
	fs.StringVar(&flags.Output, "o", "", "write the report to this file instead of stdout")
	fs.BoolVar(&flags.FailOnBreaking, "fail-on-breaking", false, "exit with status 2 when breaking changes are found")
	fs.StringVar(&flags.Ignore, "ignore", "", "comma-separated rule IDs to drop from the report")
	fs.BoolVar(&flags.Parallel, "parallel", false, "evaluate rules concurrently (output order is unchanged)")
	fs.BoolVar(&flags.Validate, "validate", false, "validate both documents against the OpenAPI 3 schema before comparing")
	fs.DurationVar(&flags.Timeout, "timeout", loader.DefaultTimeout, "time limit for loading each document (0 disables)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug details to stderr")
	fs.BoolVar(&flags.Verbose, "v", false, "log debug details to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apidiff compare [flags] --old <file|url> --new <file|url>\n")
		cliutil.Writef(fs.Output(), "       apidiff compare [flags] <old> <new>\n\n")
		cliutil.Writef(fs.Output(), "Compare two versions of an OpenAPI 3.x document and report breaking changes.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		cliutil.Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  markdown        Markdown list, suitable for pull request comments\n")
		cliutil.Writef(fs.Output(), "\nRules (in report order):\n")
		for _, r := range differ.Rules() {
			cliutil.Writef(fs.Output(), "  %-28s %s\n", r.Name, r.Description)
		}
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  apidiff compare --old api-v1.yaml --new api-v2.yaml\n")
		cliutil.Writef(fs.Output(), "  apidiff compare --fail-on-breaking --format markdown -o report.md v1.yaml v2.yaml\n")
		cliutil.Writef(fs.Output(), "  apidiff compare --ignore REQ_FIELD_ADDED,RES_FIELD_REMOVED old.json new.json\n")
		cliutil.Writef(fs.Output(), "  apidiff compare --old https://example.com/openapi.yaml --new openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  cat new.yaml | apidiff compare --old old.yaml --new -\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    Comparison completed (no breaking changes, or --fail-on-breaking not set)\n")
		cliutil.Writef(fs.Output(), "  2    Breaking changes found and --fail-on-breaking set\n")
		cliutil.Writef(fs.Output(), "  64   A document could not be loaded or the comparison failed\n")
	}

	return fs, flags
}

// HandleCompare executes the compare command
func HandleCompare(args []string) error {
	return runCompare(args, defaultStreams())
}

func runCompare(args []string, std streams) error {
	fs, flags := SetupCompareFlags()
	fs.SetOutput(std.stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	oldPath, newPath, err := compareInputs(flags, fs.Args())
	if err != nil {
		fs.Usage()
		return err
	}

	format, err := report.ParseFormat(flags.Format)
	if err != nil {
		return err
	}
	if flags.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", flags.Timeout)
	}
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{oldPath, newPath}); err != nil {
			return err
		}
	}

	logger := NewLogger(std.stderr, flags.Verbose)
	settings := loadSettings{
		validate: flags.Validate,
		timeout:  flags.Timeout,
		logger:   logger,
		stdin:    std.stdin,
	}

	var oldResult, newResult *loader.Result
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		r, err := loadDocument(ctx, oldPath, settings)
		if err != nil {
			return fmt.Errorf("loading old document: %w", err)
		}
		oldResult = r
		return nil
	})
	g.Go(func() error {
		r, err := loadDocument(ctx, newPath, settings)
		if err != nil {
			return fmt.Errorf("loading new document: %w", err)
		}
		newResult = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	start := time.Now()
	result, err := differ.CompareWithOptions(
		differ.WithOld(oldResult.Document),
		differ.WithNew(newResult.Document),
		differ.WithIgnoreRules(ParseRuleList(flags.Ignore)...),
		differ.WithParallel(flags.Parallel),
		differ.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("comparing documents: %w", err)
	}
	logger.Debug("comparison finished",
		"events", len(result.Events),
		"breaking", result.BreakingCount,
		"duration", time.Since(start),
	)

	r := report.New(FormatSpecPath(oldPath), FormatSpecPath(newPath), result)
	if err := writeReport(std, flags.Output, format, r); err != nil {
		return err
	}

	if code := report.ExitCode(result, flags.FailOnBreaking); code != report.ExitCodeOK {
		return &ExitError{Code: code}
	}
	return nil
}

// compareInputs resolves the old and new paths from flags or positional arguments.
func compareInputs(flags *CompareFlags, args []string) (string, string, error) {
	oldPath, newPath := flags.Old, flags.New
	switch {
	case oldPath == "" && newPath == "" && len(args) == 2:
		oldPath, newPath = args[0], args[1]
	case len(args) > 0:
		return "", "", fmt.Errorf("compare command takes either --old/--new or exactly two positional documents")
	}
	if oldPath == "" || newPath == "" {
		return "", "", fmt.Errorf("compare command requires both --old and --new")
	}
	if oldPath == StdinFilePath && newPath == StdinFilePath {
		return "", "", fmt.Errorf("only one document can be read from stdin")
	}
	return oldPath, newPath, nil
}

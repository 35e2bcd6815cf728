package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/apidiff/differ"
	"github.com/erraggy/apidiff/internal/cliutil"
)

// HandleRules lists the built-in rules in evaluation order
func HandleRules(args []string) error {
	return runRules(args, defaultStreams())
}

func runRules(args []string, std streams) error {
	fs := flag.NewFlagSet("rules", flag.ContinueOnError)
	fs.SetOutput(std.stderr)
	format := fs.String("format", FormatText, "output format: text, json, or yaml")
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apidiff rules [--format text|json|yaml]\n\n")
		cliutil.Writef(fs.Output(), "List the breaking-change rules in the order their events are reported.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("rules command takes no arguments")
	}
	if err := ValidateOutputFormat(*format); err != nil {
		return err
	}

	rules := differ.Rules()
	if *format != FormatText {
		return OutputStructured(std.stdout, rules, *format)
	}
	for i, r := range rules {
		cliutil.Writef(std.stdout, "%d. %s\n", i+1, r.Name)
		cliutil.Writef(std.stdout, "   %s\n", r.Description)
		cliutil.Writef(std.stdout, "   emits: %s\n", strings.Join(r.RuleIDs, ", "))
	}
	return nil
}

package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/erraggy/apidiff"
	"github.com/erraggy/apidiff/differ"
	"github.com/samber/lo"
)

// Format is an output format
type Format string

// Output formats
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Process exit codes
const (
	// ExitCodeOK means the comparison ran and nothing requires failing
	ExitCodeOK = 0
	// ExitCodeBreaking means breaking changes were found and failing was requested
	ExitCodeBreaking = 2
	// ExitCodeError means inputs could not be loaded or compared
	ExitCodeError = 64
)

// ValidFormats returns the supported format names.
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatMarkdown)}
}

// ParseFormat converts a format name, case-insensitively. "md" is accepted
// for markdown.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "md" {
		return FormatMarkdown, nil
	}
	if slices.Contains(ValidFormats(), name) {
		return Format(name), nil
	}
	return "", fmt.Errorf("invalid format '%s'. Valid formats: %s", s, strings.Join(ValidFormats(), ", "))
}

// Summary aggregates the events of a result
type Summary struct {
	Total    int `json:"total" yaml:"total"`
	Breaking int `json:"breaking" yaml:"breaking"`
	Warning  int `json:"warning" yaml:"warning"`
	Info     int `json:"info" yaml:"info"`
	// RuleIDs lists the distinct rule IDs in order of first appearance
	RuleIDs []string `json:"ruleIds" yaml:"ruleIds"`
	// ByRule counts events per rule ID
	ByRule map[string]int `json:"byRule" yaml:"byRule"`
	// Operations lists the distinct affected operations ("METHOD path")
	Operations []string `json:"operations" yaml:"operations"`
}

// Summarize computes a Summary over events.
func Summarize(events []differ.DiffEvent) Summary {
	ofSeverity := func(s differ.Severity) func(differ.DiffEvent) bool {
		return func(ev differ.DiffEvent) bool { return ev.Severity == s }
	}
	withOp := lo.Filter(events, func(ev differ.DiffEvent, _ int) bool { return ev.Operation != nil })

	return Summary{
		Total:    len(events),
		Breaking: lo.CountBy(events, ofSeverity(differ.SeverityBreaking)),
		Warning:  lo.CountBy(events, ofSeverity(differ.SeverityWarning)),
		Info:     lo.CountBy(events, ofSeverity(differ.SeverityInfo)),
		RuleIDs:  lo.Uniq(lo.Map(events, func(ev differ.DiffEvent, _ int) string { return ev.RuleID })),
		ByRule:   lo.CountValuesBy(events, func(ev differ.DiffEvent) string { return ev.RuleID }),
		Operations: lo.Uniq(lo.Map(withOp, func(ev differ.DiffEvent, _ int) string {
			return ev.Operation.String()
		})),
	}
}

// Report is the renderable outcome of one comparison
type Report struct {
	// Old names the baseline input (path, URL, or label)
	Old string `json:"old,omitempty" yaml:"old,omitempty"`
	// New names the candidate input
	New string `json:"new,omitempty" yaml:"new,omitempty"`
	// ToolVersion is the apidiff version that produced the report
	ToolVersion string `json:"toolVersion" yaml:"toolVersion"`
	// Summary aggregates Result.Events
	Summary Summary `json:"summary" yaml:"summary"`
	// Result is the comparison result
	Result *differ.Result `json:"result" yaml:"result"`
}

// New builds a Report for result. A nil result is treated as empty.
func New(oldSource, newSource string, result *differ.Result) *Report {
	if result == nil {
		result = &differ.Result{Events: []differ.DiffEvent{}}
	}
	return &Report{
		Old:         oldSource,
		New:         newSource,
		ToolVersion: apidiff.Version(),
		Summary:     Summarize(result.Events),
		Result:      result,
	}
}

// Write renders r to w in the given format.
func Write(w io.Writer, format Format, r *Report) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	default:
		return fmt.Errorf("report: unsupported format %q", format)
	}
}

// ExitCode returns ExitCodeBreaking when failOnBreaking is set and result has
// breaking changes, ExitCodeOK otherwise.
func ExitCode(result *differ.Result, failOnBreaking bool) int {
	if failOnBreaking && result != nil && result.HasBreakingChanges {
		return ExitCodeBreaking
	}
	return ExitCodeOK
}

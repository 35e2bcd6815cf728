package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/erraggy/apidiff/differ"
	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// errWriter remembers the first write error so renderers can write freely
// and check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteJSON renders r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to json: %w", err)
	}
	ew := &errWriter{w: w}
	ew.printf("%s\n", data)
	return ew.err
}

// WriteYAML renders r as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling to yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func symbol(s differ.Severity) string {
	switch s {
	case differ.SeverityBreaking:
		return "✗"
	case differ.SeverityWarning:
		return "⚠"
	case differ.SeverityInfo:
		return "ℹ"
	default:
		return "·"
	}
}

// WriteText renders r as a human-readable report.
func WriteText(w io.Writer, r *Report) error {
	ew := &errWriter{w: w}
	title := cases.Title(language.English)

	ew.printf("API Breaking Change Report\n")
	ew.printf("==========================\n\n")
	ew.printf("apidiff version: %s\n\n", r.ToolVersion)
	if r.Old != "" || r.New != "" {
		ew.printf("Old: %s (%d endpoints)\n", r.Old, r.Result.OldEndpointCount)
		ew.printf("New: %s (%d endpoints)\n", r.New, r.Result.NewEndpointCount)
		ew.printf("Common operations: %d\n\n", r.Result.CommonOperationCount)
	}

	if len(r.Result.Events) == 0 {
		ew.printf("✓ No breaking changes detected.\n")
		return ew.err
	}

	ew.printf("Changes (%d):\n", len(r.Result.Events))
	for _, ev := range r.Result.Events {
		ew.printf("  %s %s [%s]\n", symbol(ev.Severity), ev.String(), ev.RuleID)
	}

	ew.printf("\nSummary:\n")
	ew.printf("  Total changes: %d\n", r.Summary.Total)
	for _, line := range []struct {
		sev   differ.Severity
		count int
	}{
		{differ.SeverityBreaking, r.Summary.Breaking},
		{differ.SeverityWarning, r.Summary.Warning},
		{differ.SeverityInfo, r.Summary.Info},
	} {
		ew.printf("  %s: %d\n", title.String(line.sev.String()), line.count)
	}
	if len(r.Summary.Operations) > 0 {
		ew.printf("  Affected operations: %s\n", strings.Join(r.Summary.Operations, ", "))
	}
	return ew.err
}

// WriteMarkdown renders r as a Markdown report with one bullet per event.
func WriteMarkdown(w io.Writer, r *Report) error {
	ew := &errWriter{w: w}
	upper := cases.Upper(language.English)

	ew.printf("# API Breaking Change Report\n\n")
	if len(r.Result.Events) == 0 {
		ew.printf("✅ No breaking changes detected.\n")
		return ew.err
	}
	for _, ev := range r.Result.Events {
		ew.printf("- %s **%s**: %s\n", markdownIcon(ev.Severity), upper.String(ev.Severity.String()), escapeMarkdown(ev.Message))
	}
	return ew.err
}

func markdownIcon(s differ.Severity) string {
	switch s {
	case differ.SeverityBreaking:
		return "🛑"
	case differ.SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
)

// escapeMarkdown keeps user-controlled names (paths, fields, enum values)
// from being interpreted as formatting.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

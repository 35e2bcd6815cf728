// Package report renders comparison results for people and machines.
//
// Four formats are supported: a human-readable text report, JSON, YAML, and
// a Markdown report suitable for pull request comments. ExitCode maps a
// result to the process exit status used by the CLI.
package report

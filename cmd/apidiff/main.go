package main

import (
	"fmt"
	"os"

	"github.com/erraggy/apidiff"
	"github.com/erraggy/apidiff/cmd/apidiff/commands"
	"github.com/erraggy/apidiff/report"
)

// commandNames lists the subcommands suggestCommand can propose.
var commandNames = []string{"compare", "check", "rules", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return report.ExitCodeError
	}

	command := args[0]
	var err error

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("apidiff v%s\n", apidiff.Version())
		fmt.Printf("commit: %s\n", apidiff.Commit())
		fmt.Printf("built: %s\n", apidiff.BuildTime())
		fmt.Printf("go: %s\n", apidiff.GoVersion())
		return report.ExitCodeOK
	case "help", "-h", "--help":
		printUsage()
		return report.ExitCodeOK
	case "compare":
		err = commands.HandleCompare(args[1:])
	case "check":
		err = commands.HandleCheck(args[1:])
	case "rules":
		err = commands.HandleRules(args[1:])
	case "mcp":
		err = commands.HandleMCP(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		return report.ExitCodeError
	}

	code := commands.ExitCode(err)
	if code == report.ExitCodeError {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return code
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`apidiff - OpenAPI breaking change detector

Usage:
  apidiff <command> [options]

Commands:
  compare     Compare two OpenAPI 3.x documents and report breaking changes
  check       Compare a document against its last stored snapshot, then store it
  rules       List the breaking-change rules in report order
  mcp         Run an MCP server exposing compare over stdio
  version     Show version information
  help        Show this help message

Examples:
  apidiff compare --old api-v1.yaml --new api-v2.yaml
  apidiff compare --fail-on-breaking --format markdown old.yaml new.yaml
  apidiff check --id users-api --store .apidiff openapi.yaml
  apidiff rules --format json

Exit Status:
  0    Success
  2    Breaking changes found with --fail-on-breaking
  64   Invalid usage, unreadable input, or comparison failure

Run 'apidiff <command> --help' for more information on a command.`)
}

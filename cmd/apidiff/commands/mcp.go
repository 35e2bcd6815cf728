package commands

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/erraggy/apidiff/internal/cliutil"
	"github.com/erraggy/apidiff/internal/mcpserver"
)

// HandleMCP runs the MCP server over stdio until the client disconnects
// or the process is interrupted.
func HandleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apidiff mcp\n\n")
		cliutil.Writef(fs.Output(), "Run an MCP (Model Context Protocol) server on stdin/stdout exposing\n")
		cliutil.Writef(fs.Output(), "the compare and rules tools. Configure it with APIDIFF_* environment\n")
		cliutil.Writef(fs.Output(), "variables (APIDIFF_CACHE_TTL, APIDIFF_LOG_LEVEL, ...). Logs go to stderr.\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

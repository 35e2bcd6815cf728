// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes apidiff comparisons as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/erraggy/apidiff"
	"github.com/erraggy/apidiff/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `apidiff MCP server: detects breaking changes between two versions of an OpenAPI 3.x document.

Tools:
- compare: compare an old and a new document; returns ordered breaking-change events with JSON pointers.
- rules: list the built-in rules and the rule IDs they emit (use with compare's ignore_rules).

Configuration: All defaults are configurable via APIDIFF_* environment variables set in your MCP client config.

Key settings:
- APIDIFF_CACHE_ENABLED (default: true): disable document caching entirely
- APIDIFF_CACHE_MAX_SIZE (default: 10): maximum cached documents
- APIDIFF_CACHE_TTL (default: 15m): cache TTL for loaded documents
- APIDIFF_MAX_INLINE_SIZE (default: 10485760): byte limit for inline content
- APIDIFF_ALLOW_PRIVATE_IPS (default: false): allow URL inputs on private networks
- APIDIFF_LOG_LEVEL (default: info): server log level (logs go to stderr)

Caching: Loaded documents are cached per session. File entries use path+mtime as key (auto-invalidated on change). Content entries are keyed by hash, URL entries by URL.`

// logger is the server-wide logger. Run replaces it with a zap logger.
var logger logging.Logger = logging.NopLogger{}

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	zl, err := logging.NewZap(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("mcpserver: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	logger = logging.NewZapAdapter(zl).With("component", "mcpserver")

	logger.Info("starting MCP server",
		"version", apidiff.Version(),
		"cacheEnabled", cfg.CacheEnabled,
		"cacheMaxSize", cfg.CacheMaxSize,
		"cacheTTL", cfg.CacheTTL.String(),
	)

	server := newServer()
	err = server.Run(ctx, &mcp.StdioTransport{})
	logger.Info("MCP server stopped")
	return err
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "apidiff", Version: apidiff.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare",
		Description: "Compare an old and a new version of an OpenAPI 3.x document and report breaking changes. Each of old and new takes exactly one of file, url, or content. Events come back in rule order (endpoint removal, request body, request fields, enums, response fields), each with a rule ID, the affected operation, and a JSON pointer into the document. Use ignore_rules to drop specific rule IDs; call the rules tool to list them.",
	}, handleCompare)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rules",
		Description: "List the built-in breaking-change rules in evaluation order, with the rule IDs each one emits and a short description.",
	}, handleRules)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

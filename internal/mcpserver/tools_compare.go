package mcpserver

import (
	"context"

	"github.com/erraggy/apidiff/differ"
	"github.com/erraggy/apidiff/internal/cliutil"
	"github.com/erraggy/apidiff/loader"
	"github.com/erraggy/apidiff/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

type compareInput struct {
	Old         specInput `json:"old"                    jsonschema:"The old (baseline) OpenAPI document"`
	New         specInput `json:"new"                    jsonschema:"The new (candidate) OpenAPI document to check against the old one"`
	IgnoreRules []string  `json:"ignore_rules,omitempty" jsonschema:"Rule IDs to drop from the result, e.g. REQ_FIELD_ADDED"`
	Parallel    bool      `json:"parallel,omitempty"     jsonschema:"Evaluate rules concurrently; output order is unchanged"`
}

type compareEvent struct {
	Severity  string `json:"severity"`
	RuleID    string `json:"rule_id"`
	Operation string `json:"operation,omitempty"`
	Pointer   string `json:"pointer,omitempty"`
	Message   string `json:"message"`
}

type compareOutput struct {
	TotalChanges     int            `json:"total_changes"`
	BreakingCount    int            `json:"breaking_count"`
	WarningCount     int            `json:"warning_count"`
	InfoCount        int            `json:"info_count"`
	OldEndpoints     int            `json:"old_endpoints"`
	NewEndpoints     int            `json:"new_endpoints"`
	CommonOperations int            `json:"common_operations"`
	ByRule           map[string]int `json:"by_rule,omitempty"`
	Events           []compareEvent `json:"events,omitempty"`
	Summary          string         `json:"summary"`
}

func handleCompare(ctx context.Context, _ *mcp.CallToolRequest, input compareInput) (*mcp.CallToolResult, compareOutput, error) {
	// Reject bad input shapes before any loading starts.
	if err := input.Old.check(); err != nil {
		return errResult(err), compareOutput{}, nil
	}
	if err := input.New.check(); err != nil {
		return errResult(err), compareOutput{}, nil
	}

	var oldResult, newResult *loader.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		oldResult, err = input.Old.resolve(gctx)
		return err
	})
	g.Go(func() (err error) {
		newResult, err = input.New.resolve(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return errResult(err), compareOutput{}, nil
	}

	result, err := differ.CompareWithOptions(
		differ.WithOld(oldResult.Document),
		differ.WithNew(newResult.Document),
		differ.WithIgnoreRules(input.IgnoreRules...),
		differ.WithParallel(input.Parallel),
		differ.WithLogger(logger),
	)
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}

	summary := report.Summarize(result.Events)
	output := compareOutput{
		TotalChanges:     summary.Total,
		BreakingCount:    summary.Breaking,
		WarningCount:     summary.Warning,
		InfoCount:        summary.Info,
		OldEndpoints:     result.OldEndpointCount,
		NewEndpoints:     result.NewEndpointCount,
		CommonOperations: result.CommonOperationCount,
		ByRule:           summary.ByRule,
		Events:           makeSlice[compareEvent](len(result.Events)),
	}
	for _, ev := range result.Events {
		ce := compareEvent{
			Severity: ev.Severity.String(),
			RuleID:   ev.RuleID,
			Message:  ev.Message,
		}
		if ev.Operation != nil {
			ce.Operation = ev.Operation.String()
		}
		if ev.Location != nil {
			ce.Pointer = ev.Location.JSONPointer
		}
		output.Events = append(output.Events, ce)
	}
	output.Summary = buildCompareSummary(output)

	logger.Info("compare finished",
		"old", oldResult.Source,
		"new", newResult.Source,
		"events", output.TotalChanges,
		"breaking", output.BreakingCount,
	)

	return nil, output, nil
}

func buildCompareSummary(output compareOutput) string {
	if output.TotalChanges == 0 {
		return "No breaking changes detected."
	}

	summary := ""
	if output.BreakingCount > 0 {
		summary = "Breaking changes detected. "
	}

	summary += cliutil.Plural(output.TotalChanges, "change") + " found"
	if output.BreakingCount > 0 {
		summary += " (" + cliutil.Plural(output.BreakingCount, "breaking change") + ")."
	} else {
		summary += "."
	}

	return summary
}

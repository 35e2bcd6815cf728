package mcpserver

import (
	"context"

	"github.com/erraggy/apidiff/differ"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type rulesInput struct{}

type ruleSummary struct {
	Name        string   `json:"name"`
	RuleIDs     []string `json:"rule_ids"`
	Description string   `json:"description"`
}

type rulesOutput struct {
	Rules []ruleSummary `json:"rules"`
}

func handleRules(_ context.Context, _ *mcp.CallToolRequest, _ rulesInput) (*mcp.CallToolResult, rulesOutput, error) {
	infos := differ.Rules()
	output := rulesOutput{Rules: make([]ruleSummary, 0, len(infos))}
	for _, info := range infos {
		output.Rules = append(output.Rules, ruleSummary{
			Name:        info.Name,
			RuleIDs:     info.RuleIDs,
			Description: info.Description,
		})
	}
	return nil, output, nil
}

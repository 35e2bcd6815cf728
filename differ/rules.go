package differ

import (
	"fmt"
	"slices"

	"github.com/erraggy/apidiff/document"
)

// ruleFunc evaluates one rule. It must only read ctx and must treat absent
// sub-structures as nothing to compare.
type ruleFunc func(ctx *Context) []DiffEvent

type rule struct {
	name        string
	ruleIDs     []string
	description string
	eval        ruleFunc
}

// RuleInfo describes one entry of the rule table
type RuleInfo struct {
	// Name is the rule's short name
	Name string `json:"name" yaml:"name"`
	// RuleIDs lists the event rule IDs the rule can produce
	RuleIDs []string `json:"ruleIds" yaml:"ruleIds"`
	// Description summarizes what the rule detects
	Description string `json:"description" yaml:"description"`
}

// defaultRules returns the fixed rule table in reporting order.
func defaultRules() []rule {
	return []rule{
		{
			name:        "endpoint-removed",
			ruleIDs:     []string{RuleEndpointRemoved},
			description: "an endpoint of the old document is missing from the new document",
			eval:        checkEndpointRemoved,
		},
		{
			name:        "request-body-required",
			ruleIDs:     []string{RuleRequestBodyAdded, RuleRequestBodyBecameRequired},
			description: "a request body was added as required, or an optional request body became required",
			eval:        checkRequestBodyRequired,
		},
		{
			name:        "request-field-added",
			ruleIDs:     []string{RuleRequestFieldAdded},
			description: "a name was added to the required set of an object request schema",
			eval:        checkRequestFieldAdded,
		},
		{
			name:        "request-field-type-changed",
			ruleIDs:     []string{RuleRequestFieldTypeChanged},
			description: "a request schema property changed its type",
			eval:        checkRequestFieldTypeChanged,
		},
		{
			name:        "request-enum-value-removed",
			ruleIDs:     []string{RuleRequestEnumValueRemoved},
			description: "a literal was removed from a request schema property's enum",
			eval:        checkRequestEnumValueRemoved,
		},
		{
			name:        "response-field-changed",
			ruleIDs:     []string{RuleResponseFieldRemoved, RuleResponseFieldTypeChanged},
			description: "a success response property was removed or changed its type",
			eval:        checkResponseFieldChanged,
		},
	}
}

// Rules returns the rule table in reporting order.
func Rules() []RuleInfo {
	table := defaultRules()
	out := make([]RuleInfo, len(table))
	for i, r := range table {
		out[i] = RuleInfo{
			Name:        r.name,
			RuleIDs:     slices.Clone(r.ruleIDs),
			Description: r.description,
		}
	}
	return out
}

// RuleIDs returns every event rule ID in reporting order.
func RuleIDs() []string {
	var ids []string
	for _, r := range defaultRules() {
		ids = append(ids, r.ruleIDs...)
	}
	return ids
}

// IsKnownRuleID reports whether id is one of RuleIDs.
func IsKnownRuleID(id string) bool {
	return slices.Contains(RuleIDs(), id)
}

func breaking(ruleID, message string) DiffEvent {
	return DiffEvent{Severity: SeverityBreaking, RuleID: ruleID, Message: message}
}

func checkEndpointRemoved(ctx *Context) []DiffEvent {
	var events []DiffEvent
	for _, ep := range ctx.OldEndpoints.endpoints {
		if ctx.NewEndpoints.Has(ep.EndpointKey) {
			continue
		}
		ev := breaking(RuleEndpointRemoved, fmt.Sprintf("%s removed", ep.EndpointKey))
		ev.Operation = &OperationRef{Method: ep.Method, Path: ep.Path}
		events = append(events, ev)
	}
	return events
}

func checkRequestBodyRequired(ctx *Context) []DiffEvent {
	var events []DiffEvent
	for _, op := range ctx.CommonOperations {
		oldSchema := requestSchema(op.Old)
		newSchema := requestSchema(op.New)

		if oldSchema == nil && newSchema != nil {
			// A newly declared JSON body is only breaking when required.
			if !op.New.RequestBody.Required {
				continue
			}
			ev := breaking(RuleRequestBodyAdded, fmt.Sprintf("%s added a required request body", op.EndpointKey))
			ev.Operation = op.Ref()
			ev.Location = &Location{
				Area:        AreaRequestBody,
				ContentType: document.MediaTypeJSON,
				JSONPointer: requestBodyPointer(op.EndpointKey),
			}
			events = append(events, ev)
			continue
		}

		if bodyRequired(op.Old) || !bodyRequired(op.New) {
			continue
		}
		ev := breaking(RuleRequestBodyBecameRequired, fmt.Sprintf("request body became required for %s", op.EndpointKey))
		ev.Operation = op.Ref()
		ev.Location = &Location{
			Area:        AreaRequestBody,
			JSONPointer: requestBodyPointer(op.EndpointKey, "required"),
		}
		if newSchema != nil {
			ev.Location.ContentType = document.MediaTypeJSON
		}
		events = append(events, ev)
	}
	return events
}

func bodyRequired(op *document.Operation) bool {
	return op != nil && op.RequestBody != nil && op.RequestBody.Required
}

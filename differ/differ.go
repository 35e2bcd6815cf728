package differ

import (
	"fmt"
	"slices"

	"github.com/erraggy/apidiff/document"
	"github.com/erraggy/apidiff/logging"
	"github.com/erraggy/apidiff/oaserrors"
	"golang.org/x/sync/errgroup"
)

// Result contains the outcome of comparing two documents
type Result struct {
	// Events holds every finding in reporting order; never nil
	Events []DiffEvent `json:"events" yaml:"events"`
	// BreakingCount is the number of events with breaking severity
	BreakingCount int `json:"breakingCount" yaml:"breakingCount"`
	// WarningCount is the number of events with warning severity
	WarningCount int `json:"warningCount" yaml:"warningCount"`
	// InfoCount is the number of events with info severity
	InfoCount int `json:"infoCount" yaml:"infoCount"`
	// HasBreakingChanges is true if any breaking event was produced
	HasBreakingChanges bool `json:"hasBreakingChanges" yaml:"hasBreakingChanges"`
	// OldEndpointCount is the number of endpoints indexed from the old document
	OldEndpointCount int `json:"oldEndpointCount" yaml:"oldEndpointCount"`
	// NewEndpointCount is the number of endpoints indexed from the new document
	NewEndpointCount int `json:"newEndpointCount" yaml:"newEndpointCount"`
	// CommonOperationCount is the number of endpoints present in both documents
	CommonOperationCount int `json:"commonOperationCount" yaml:"commonOperationCount"`
}

// Differ compares two documents
type Differ struct {
	// Parallel evaluates rules concurrently. The event order is unaffected.
	Parallel bool
	// IgnoreRules lists event rule IDs to drop from the result
	IgnoreRules []string
	// Logger receives debug output. Defaults to a no-op logger.
	Logger logging.Logger

	// rules overrides the rule table; nil means defaultRules()
	rules []rule
}

// New creates a new Differ instance with default settings
func New() *Differ {
	return &Differ{}
}

// Compare compares oldDoc and newDoc using a default Differ.
func Compare(oldDoc, newDoc *document.Document) (*Result, error) {
	return New().Compare(oldDoc, newDoc)
}

// Compare runs every rule over the two documents and returns their events in
// reporting order. A nil document is a *oaserrors.MalformedInputError and no
// rule runs. A rule that panics yields a *oaserrors.RuleFaultError and no
// partial result.
func (d *Differ) Compare(oldDoc, newDoc *document.Document) (*Result, error) {
	if err := document.Validate(oldDoc, "old"); err != nil {
		return nil, err
	}
	if err := document.Validate(newDoc, "new"); err != nil {
		return nil, err
	}
	ignored, err := ignoreSet(d.IgnoreRules)
	if err != nil {
		return nil, err
	}
	log := logging.OrNop(d.Logger)

	ctx := NewContext(oldDoc, newDoc)
	log.Debug("diff context assembled",
		"oldEndpoints", ctx.OldEndpoints.Len(),
		"newEndpoints", ctx.NewEndpoints.Len(),
		"commonOperations", len(ctx.CommonOperations))

	table := d.rules
	if table == nil {
		table = defaultRules()
	}
	active := make([]rule, 0, len(table))
	for _, r := range table {
		if allIgnored(r.ruleIDs, ignored) {
			log.Debug("rule skipped", "rule", r.name)
			continue
		}
		active = append(active, r)
	}

	outputs, err := d.evaluateAll(active, ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Events:               make([]DiffEvent, 0),
		OldEndpointCount:     ctx.OldEndpoints.Len(),
		NewEndpointCount:     ctx.NewEndpoints.Len(),
		CommonOperationCount: len(ctx.CommonOperations),
	}
	for i, events := range outputs {
		log.Debug("rule evaluated", "rule", active[i].name, "events", len(events))
		for _, ev := range events {
			if ignored[ev.RuleID] {
				continue
			}
			result.add(ev)
		}
	}
	return result, nil
}

// evaluateAll returns one output slot per rule so the concatenation order is
// the table order regardless of how the rules were scheduled.
func (d *Differ) evaluateAll(rules []rule, ctx *Context) ([][]DiffEvent, error) {
	outputs := make([][]DiffEvent, len(rules))
	if !d.Parallel {
		for i, r := range rules {
			events, err := evaluate(r, ctx)
			if err != nil {
				return nil, err
			}
			outputs[i] = events
		}
		return outputs, nil
	}

	var g errgroup.Group
	for i, r := range rules {
		g.Go(func() error {
			events, err := evaluate(r, ctx)
			outputs[i] = events
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// evaluate runs one rule, converting a panic into a RuleFaultError.
func evaluate(r rule, ctx *Context) (events []DiffEvent, err error) {
	defer func() {
		if p := recover(); p != nil {
			events = nil
			err = &oaserrors.RuleFaultError{Rule: r.name, Message: fmt.Sprintf("panic: %v", p)}
		}
	}()
	return r.eval(ctx), nil
}

func (r *Result) add(ev DiffEvent) {
	r.Events = append(r.Events, ev)
	switch ev.Severity {
	case SeverityBreaking:
		r.BreakingCount++
		r.HasBreakingChanges = true
	case SeverityWarning:
		r.WarningCount++
	case SeverityInfo:
		r.InfoCount++
	}
}

func ignoreSet(ids []string) (map[string]bool, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !IsKnownRuleID(id) {
			return nil, &oaserrors.ConfigError{
				Option:  "ignore rules",
				Value:   id,
				Message: "unknown rule ID",
			}
		}
		set[id] = true
	}
	return set, nil
}

func allIgnored(ids []string, ignored map[string]bool) bool {
	return len(ignored) > 0 && !slices.ContainsFunc(ids, func(id string) bool { return !ignored[id] })
}

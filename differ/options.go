package differ

import (
	"fmt"

	"github.com/erraggy/apidiff/document"
	"github.com/erraggy/apidiff/logging"
)

// Option is a function that configures a comparison
type Option func(*compareConfig) error

type compareConfig struct {
	oldDoc *document.Document
	oldSet bool
	newDoc *document.Document
	newSet bool

	parallel    bool
	ignoreRules []string
	logger      logging.Logger
}

// CompareWithOptions compares two documents using functional options.
//
// Example:
//
//	result, err := differ.CompareWithOptions(
//	    differ.WithOld(v1),
//	    differ.WithNew(v2),
//	    differ.WithIgnoreRules(differ.RuleRequestEnumValueRemoved),
//	)
func CompareWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}
	d := &Differ{
		Parallel:    cfg.parallel,
		IgnoreRules: cfg.ignoreRules,
		Logger:      cfg.logger,
	}
	return d.Compare(cfg.oldDoc, cfg.newDoc)
}

func applyOptions(opts ...Option) (*compareConfig, error) {
	cfg := &compareConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if !cfg.oldSet {
		return nil, fmt.Errorf("must specify an old document (use WithOld)")
	}
	if !cfg.newSet {
		return nil, fmt.Errorf("must specify a new document (use WithNew)")
	}
	return cfg, nil
}

// WithOld sets the old (baseline) document
func WithOld(doc *document.Document) Option {
	return func(cfg *compareConfig) error {
		cfg.oldDoc = doc
		cfg.oldSet = true
		return nil
	}
}

// WithNew sets the new (candidate) document
func WithNew(doc *document.Document) Option {
	return func(cfg *compareConfig) error {
		cfg.newDoc = doc
		cfg.newSet = true
		return nil
	}
}

// WithParallel enables concurrent rule evaluation
// Default: false
func WithParallel(enabled bool) Option {
	return func(cfg *compareConfig) error {
		cfg.parallel = enabled
		return nil
	}
}

// WithIgnoreRules drops events with the given rule IDs from the result.
// Unknown IDs are rejected when the comparison runs.
func WithIgnoreRules(ruleIDs ...string) Option {
	return func(cfg *compareConfig) error {
		cfg.ignoreRules = append(cfg.ignoreRules, ruleIDs...)
		return nil
	}
}

// WithLogger sets the logger for debug output
// Default: no-op
func WithLogger(l logging.Logger) Option {
	return func(cfg *compareConfig) error {
		cfg.logger = l
		return nil
	}
}

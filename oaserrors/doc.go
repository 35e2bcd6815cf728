// Package oaserrors provides structured error types for apidiff.
//
// Import path: github.com/erraggy/apidiff/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish a document that could not be compared from a
// fetch that failed or an invalid option.
//
// # Error Types
//
//   - [MalformedInputError]: a document is missing, unparsable or structurally invalid.
//     Fatal: it is reported before any comparison rule runs.
//   - [RuleFaultError]: a comparison rule could not interpret its input. Rules treat
//     absent sub-structures as "nothing to compare", so this should not occur for
//     well-formed documents.
//   - [FetchError]: reading a specification from a file or URL failed.
//   - [ConfigError]: invalid configuration or input options.
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrMalformedInput]: Matches any [MalformedInputError]
//   - [ErrRuleFault]: Matches any [RuleFaultError]
//   - [ErrFetch]: Matches any [FetchError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// Nothing in apidiff retries on these errors; the comparison is a pure function of
// its two inputs. Retrying fetches is the loader's concern.
package oaserrors

// Package options provides shared utilities for functional-option validation.
package options

import "errors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// Each element of sources reports whether that source was set.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return errors.New(noSourceMsg)
	case count > 1:
		return errors.New(multiSourceMsg)
	}
	return nil
}

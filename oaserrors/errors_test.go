package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMalformedInputError(t *testing.T) {
	tests := []struct {
		name string
		err  *MalformedInputError
		want string
	}{
		{"minimal", &MalformedInputError{}, "malformed input"},
		{"source only", &MalformedInputError{Source: "old"}, "malformed input in old"},
		{
			name: "all fields",
			err: &MalformedInputError{
				Source:  "api.yaml",
				Line:    7,
				Message: "missing openapi field",
				Cause:   errors.New("boom"),
			},
			want: "malformed input in api.yaml at line 7: missing openapi field: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrMalformedInput)
			assert.NotErrorIs(t, tt.err, ErrFetch)
		})
	}
}

func TestRuleFaultError(t *testing.T) {
	cause := errors.New("nil map")
	err := &RuleFaultError{Rule: "response-field-changed", Message: "panic", Cause: cause}

	assert.Equal(t, "rule fault in response-field-changed: panic: nil map", err.Error())
	assert.ErrorIs(t, err, ErrRuleFault)
	assert.ErrorIs(t, err, cause)
}

func TestFetchError(t *testing.T) {
	err := &FetchError{Location: "https://example.com/api.yaml", StatusCode: 503, Attempts: 3}
	assert.Equal(t, "fetch error for https://example.com/api.yaml (status 503) after 3 attempts", err.Error())
	assert.ErrorIs(t, err, ErrFetch)

	single := &FetchError{Location: "api.yaml", Attempts: 1, Cause: errors.New("no such file")}
	assert.Equal(t, "fetch error for api.yaml: no such file", single.Error())
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "ignore", Value: "NOPE", Message: "unknown rule id"}
	assert.Equal(t, "configuration error for ignore (value: NOPE): unknown rule id", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
	assert.Nil(t, err.Unwrap())
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	inner := &MalformedInputError{Source: "new", Message: "document is nil"}
	wrapped := fmt.Errorf("comparing: %w", inner)

	var target *MalformedInputError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "new", target.Source)
	assert.ErrorIs(t, wrapped, ErrMalformedInput)
}

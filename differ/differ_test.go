package differ

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/erraggy/apidiff/document"
	"github.com/erraggy/apidiff/logging"
	"github.com/erraggy/apidiff/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifferNew(t *testing.T) {
	d := New()
	require.NotNil(t, d)
	assert.False(t, d.Parallel)
	assert.Empty(t, d.IgnoreRules)
	assert.Nil(t, d.Logger)
}

func TestCompareSelfIsEmpty(t *testing.T) {
	oldDoc, newDoc := richPair()
	for _, d := range []*document.Document{oldDoc, newDoc} {
		result, err := Compare(d, d)
		require.NoError(t, err)
		assert.NotNil(t, result.Events)
		assert.Empty(t, result.Events)
		assert.False(t, result.HasBreakingChanges)
		assert.Equal(t, result.OldEndpointCount, result.CommonOperationCount)
	}
}

func TestCompareEmptyDocuments(t *testing.T) {
	result, err := Compare(&document.Document{}, &document.Document{})
	require.NoError(t, err)
	assert.Empty(t, result.Events)
	assert.Equal(t, 0, result.OldEndpointCount)
}

func TestCompareReportingOrder(t *testing.T) {
	oldDoc, newDoc := richPair()
	result, err := Compare(oldDoc, newDoc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		RuleEndpointRemoved,
		RuleRequestBodyBecameRequired,
		RuleRequestBodyAdded,
		RuleRequestFieldAdded,
		RuleRequestFieldTypeChanged,
		RuleRequestEnumValueRemoved,
		RuleResponseFieldTypeChanged,
		RuleResponseFieldRemoved,
	}, ruleIDs(result.Events))

	assert.Equal(t, 8, result.BreakingCount)
	assert.Equal(t, 0, result.WarningCount)
	assert.Equal(t, 0, result.InfoCount)
	assert.True(t, result.HasBreakingChanges)
	assert.Equal(t, 4, result.OldEndpointCount)
	assert.Equal(t, 3, result.NewEndpointCount)
	assert.Equal(t, 3, result.CommonOperationCount)
}

func TestCompareDeterministic(t *testing.T) {
	oldDoc, newDoc := richPair()
	var outputs [][]byte
	for _, parallel := range []bool{false, false, true, true} {
		d := New()
		d.Parallel = parallel
		result, err := d.Compare(oldDoc, newDoc)
		require.NoError(t, err)
		data, err := json.Marshal(result)
		require.NoError(t, err)
		outputs = append(outputs, data)
	}
	for i := 1; i < len(outputs); i++ {
		assert.Equal(t, string(outputs[0]), string(outputs[i]), "run %d differs", i)
	}
}

func TestCompareScenarios(t *testing.T) {
	tests := []struct {
		name        string
		oldDoc      *document.Document
		newDoc      *document.Document
		wantRule    string
		wantOp      *OperationRef
		wantDetails map[string]any
	}{
		{
			name:     "endpoint removed",
			oldDoc:   doc(path("/users", op("get"))),
			newDoc:   doc(),
			wantRule: RuleEndpointRemoved,
			wantOp:   &OperationRef{Method: "GET", Path: "/users"},
		},
		{
			name:        "request field type changed",
			oldDoc:      doc(path("/users", withRequest(op("post"), false, object(map[string]*document.Schema{"age": typed("string")})))),
			newDoc:      doc(path("/users", withRequest(op("post"), false, object(map[string]*document.Schema{"age": typed("integer")})))),
			wantRule:    RuleRequestFieldTypeChanged,
			wantOp:      &OperationRef{Method: "POST", Path: "/users"},
			wantDetails: map[string]any{"field": "age", "oldType": "string", "newType": "integer"},
		},
		{
			name:        "response field removed",
			oldDoc:      doc(path("/users", withResponse(op("get"), "200", object(map[string]*document.Schema{"id": typed("integer"), "name": typed("string")})))),
			newDoc:      doc(path("/users", withResponse(op("get"), "200", object(map[string]*document.Schema{"id": typed("integer")})))),
			wantRule:    RuleResponseFieldRemoved,
			wantOp:      &OperationRef{Method: "GET", Path: "/users"},
			wantDetails: map[string]any{"field": "name", "statusCode": "200"},
		},
		{
			name:        "request enum value removed",
			oldDoc:      doc(path("/users", withRequest(op("post"), false, object(map[string]*document.Schema{"status": enum("string", "active", "inactive")})))),
			newDoc:      doc(path("/users", withRequest(op("post"), false, object(map[string]*document.Schema{"status": enum("string", "active")})))),
			wantRule:    RuleRequestEnumValueRemoved,
			wantOp:      &OperationRef{Method: "POST", Path: "/users"},
			wantDetails: map[string]any{"field": "status", "removedValue": "inactive"},
		},
		{
			name: "required field added",
			oldDoc: doc(path("/users", withRequest(op("post"), true, object(map[string]*document.Schema{
				"name": typed("string"), "email": typed("string"),
			}, "name")))),
			newDoc: doc(path("/users", withRequest(op("post"), true, object(map[string]*document.Schema{
				"name": typed("string"), "email": typed("string"),
			}, "name", "email")))),
			wantRule:    RuleRequestFieldAdded,
			wantOp:      &OperationRef{Method: "POST", Path: "/users"},
			wantDetails: map[string]any{"field": "email"},
		},
		{
			name:     "required request body added",
			oldDoc:   doc(path("/users", op("post"))),
			newDoc:   doc(path("/users", withRequest(op("post"), true, object(nil)))),
			wantRule: RuleRequestBodyAdded,
			wantOp:   &OperationRef{Method: "POST", Path: "/users"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compare(tt.oldDoc, tt.newDoc)
			require.NoError(t, err)
			require.Len(t, result.Events, 1)
			ev := result.Events[0]
			assert.Equal(t, SeverityBreaking, ev.Severity)
			assert.Equal(t, tt.wantRule, ev.RuleID)
			assert.Equal(t, tt.wantOp, ev.Operation)
			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, ev.Details)
			}
		})
	}
}

func TestCompareMalformedInput(t *testing.T) {
	_, err := Compare(nil, doc())
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrMalformedInput)
	assert.Contains(t, err.Error(), "old")

	_, err = Compare(doc(), nil)
	require.Error(t, err)
	var malformed *oaserrors.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "new", malformed.Source)
}

func TestCompareIgnoreRules(t *testing.T) {
	oldDoc, newDoc := richPair()

	d := New()
	d.IgnoreRules = []string{RuleRequestBodyAdded, RuleResponseFieldRemoved, RuleResponseFieldTypeChanged}
	result, err := d.Compare(oldDoc, newDoc)
	require.NoError(t, err)
	assert.Equal(t, []string{
		RuleEndpointRemoved,
		RuleRequestBodyBecameRequired,
		RuleRequestFieldAdded,
		RuleRequestFieldTypeChanged,
		RuleRequestEnumValueRemoved,
	}, ruleIDs(result.Events))
	assert.Equal(t, 5, result.BreakingCount)

	d.IgnoreRules = []string{"NOT_A_RULE"}
	_, err = d.Compare(oldDoc, newDoc)
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
	assert.Contains(t, err.Error(), "NOT_A_RULE")
}

func TestCompareRuleFault(t *testing.T) {
	faulty := []rule{
		{name: "endpoint-removed", ruleIDs: []string{RuleEndpointRemoved}, eval: checkEndpointRemoved},
		{name: "exploding", ruleIDs: []string{"EXPLODING"}, eval: func(*Context) []DiffEvent {
			panic("unexpected shape")
		}},
	}
	for _, parallel := range []bool{false, true} {
		d := &Differ{Parallel: parallel, rules: faulty}
		result, err := d.Compare(doc(path("/a", op("get"))), doc())
		require.Error(t, err)
		assert.Nil(t, result, "no partial result")
		assert.ErrorIs(t, err, oaserrors.ErrRuleFault)

		var fault *oaserrors.RuleFaultError
		require.ErrorAs(t, err, &fault)
		assert.Equal(t, "exploding", fault.Rule)
		assert.Contains(t, fault.Message, "unexpected shape")
	}
}

func TestCompareSeverityCounts(t *testing.T) {
	d := &Differ{rules: []rule{{
		name:    "mixed",
		ruleIDs: []string{"MIXED"},
		eval: func(*Context) []DiffEvent {
			return []DiffEvent{
				{Severity: SeverityInfo, RuleID: "MIXED"},
				{Severity: SeverityWarning, RuleID: "MIXED"},
				{Severity: SeverityWarning, RuleID: "MIXED"},
			}
		},
	}}}
	result, err := d.Compare(doc(), doc())
	require.NoError(t, err)
	assert.Equal(t, 1, result.InfoCount)
	assert.Equal(t, 2, result.WarningCount)
	assert.Equal(t, 0, result.BreakingCount)
	assert.False(t, result.HasBreakingChanges)
}

func TestCompareLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	oldDoc, newDoc := richPair()
	d := New()
	d.Logger = logger
	_, err := d.Compare(oldDoc, newDoc)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "diff context assembled")
	assert.Contains(t, out, "commonOperations=3")
	assert.Contains(t, out, "rule=response-field-changed")
	assert.NotContains(t, out, "level=INFO")
}

func TestCompareWithOptions(t *testing.T) {
	oldDoc, newDoc := richPair()

	t.Run("valid", func(t *testing.T) {
		result, err := CompareWithOptions(
			WithOld(oldDoc),
			WithNew(newDoc),
			WithParallel(true),
			WithIgnoreRules(RuleEndpointRemoved),
			WithIgnoreRules(RuleRequestEnumValueRemoved),
			WithLogger(logging.NopLogger{}),
		)
		require.NoError(t, err)
		assert.Len(t, result.Events, 6)
		assert.NotContains(t, ruleIDs(result.Events), RuleEndpointRemoved)
		assert.NotContains(t, ruleIDs(result.Events), RuleRequestEnumValueRemoved)
	})

	t.Run("missing old", func(t *testing.T) {
		_, err := CompareWithOptions(WithNew(newDoc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WithOld")
	})

	t.Run("missing new", func(t *testing.T) {
		_, err := CompareWithOptions(WithOld(oldDoc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WithNew")
	})

	t.Run("explicit nil document", func(t *testing.T) {
		_, err := CompareWithOptions(WithOld(nil), WithNew(newDoc))
		assert.ErrorIs(t, err, oaserrors.ErrMalformedInput)
	})
}

func TestDiffEventJSON(t *testing.T) {
	oldDoc, newDoc := richPair()
	result, err := Compare(oldDoc, newDoc)
	require.NoError(t, err)

	data, err := json.Marshal(result.Events[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"severity": "breaking",
		"ruleId": "ENDPOINT_REMOVED",
		"message": "DELETE /users/{id} removed",
		"operation": {"method": "DELETE", "path": "/users/{id}"}
	}`, string(data))
}

func TestDiffEventString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityBreaking, "BREAKING: msg"},
		{SeverityWarning, "WARNING: msg"},
		{SeverityInfo, "INFO: msg"},
		{Severity(42), "UNKNOWN: msg"},
	}
	for _, tt := range tests {
		ev := DiffEvent{Severity: tt.severity, Message: "msg"}
		assert.Equal(t, tt.want, ev.String())
		assert.Equal(t, tt.severity == SeverityBreaking, ev.IsBreaking())
	}
}

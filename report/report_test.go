package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/erraggy/apidiff/differ"
	"github.com/erraggy/apidiff/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func sampleResult(t *testing.T) *differ.Result {
	t.Helper()
	oldDoc := &document.Document{Paths: []*document.PathItem{
		{Path: "/users", Operations: []*document.Operation{
			{
				Method: "POST",
				RequestBody: &document.RequestBody{Content: map[string]*document.Schema{
					document.MediaTypeJSON: {Type: "object", Properties: map[string]*document.Schema{
						"user_age": {Type: "string"},
					}},
				}},
			},
		}},
		{Path: "/users/{id}", Operations: []*document.Operation{{Method: "DELETE"}}},
	}}
	newDoc := &document.Document{Paths: []*document.PathItem{
		{Path: "/users", Operations: []*document.Operation{
			{
				Method: "POST",
				RequestBody: &document.RequestBody{Content: map[string]*document.Schema{
					document.MediaTypeJSON: {Type: "object", Properties: map[string]*document.Schema{
						"user_age": {Type: "integer"},
					}},
				}},
			},
		}},
	}}
	result, err := differ.Compare(oldDoc, newDoc)
	require.NoError(t, err)
	require.Len(t, result.Events, 2)
	return result
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Valid formats: text, json, yaml, markdown")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	get := &differ.OperationRef{Method: "GET", Path: "/a"}
	events := []differ.DiffEvent{
		{Severity: differ.SeverityBreaking, RuleID: differ.RuleResponseFieldRemoved, Operation: get},
		{Severity: differ.SeverityBreaking, RuleID: differ.RuleEndpointRemoved, Operation: &differ.OperationRef{Method: "DELETE", Path: "/b"}},
		{Severity: differ.SeverityWarning, RuleID: differ.RuleResponseFieldRemoved, Operation: get},
		{Severity: differ.SeverityInfo, RuleID: "CUSTOM"},
	}
	s := Summarize(events)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Breaking)
	assert.Equal(t, 1, s.Warning)
	assert.Equal(t, 1, s.Info)
	assert.Equal(t, []string{differ.RuleResponseFieldRemoved, differ.RuleEndpointRemoved, "CUSTOM"}, s.RuleIDs)
	assert.Equal(t, map[string]int{differ.RuleResponseFieldRemoved: 2, differ.RuleEndpointRemoved: 1, "CUSTOM": 1}, s.ByRule)
	assert.Equal(t, []string{"GET /a", "DELETE /b"}, s.Operations)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.RuleIDs)
}

func TestNew(t *testing.T) {
	r := New("a.yaml", "b.yaml", nil)
	require.NotNil(t, r.Result)
	assert.NotNil(t, r.Result.Events)
	assert.Equal(t, 0, r.Summary.Total)
	assert.NotEmpty(t, r.ToolVersion)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, New("v1.yaml", "v2.yaml", sampleResult(t))))
	out := buf.String()

	assert.Contains(t, out, "API Breaking Change Report")
	assert.Contains(t, out, "Old: v1.yaml (2 endpoints)")
	assert.Contains(t, out, "New: v2.yaml (1 endpoints)")
	assert.Contains(t, out, "Common operations: 1")
	assert.Contains(t, out, "Changes (2):")
	assert.Contains(t, out, "  ✗ BREAKING: DELETE /users/{id} removed [ENDPOINT_REMOVED]")
	assert.Contains(t, out, "  ✗ BREAKING: POST /users request field 'user_age' changed type from string to integer [REQ_FIELD_TYPE_CHANGED]")
	assert.Contains(t, out, "  Breaking: 2\n")
	assert.Contains(t, out, "  Warning: 0\n")
	assert.Contains(t, out, "  Info: 0\n")
	assert.Contains(t, out, "Affected operations: DELETE /users/{id}, POST /users")

	assert.Less(t, strings.Index(out, "ENDPOINT_REMOVED"), strings.Index(out, "REQ_FIELD_TYPE_CHANGED"))
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, New("", "", &differ.Result{})))
	out := buf.String()
	assert.Contains(t, out, "✓ No breaking changes detected.")
	assert.NotContains(t, out, "Old:")
	assert.NotContains(t, out, "Summary")
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, New("v1", "v2", sampleResult(t))))
	assert.Equal(t, "# API Breaking Change Report\n\n"+
		"- 🛑 **BREAKING**: DELETE /users/{id} removed\n"+
		"- 🛑 **BREAKING**: POST /users request field 'user\\_age' changed type from string to integer\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WriteMarkdown(&buf, New("v1", "v2", &differ.Result{})))
	assert.Equal(t, "# API Breaking Change Report\n\n✅ No breaking changes detected.\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteMarkdown(&buf, New("", "", &differ.Result{Events: []differ.DiffEvent{
		{Severity: differ.SeverityWarning, Message: "careful"},
		{Severity: differ.SeverityInfo, Message: "fyi"},
	}})))
	assert.Contains(t, buf.String(), "- ⚠️ **WARNING**: careful\n")
	assert.Contains(t, buf.String(), "- ℹ️ **INFO**: fyi\n")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, New("v1.yaml", "v2.yaml", sampleResult(t))))

	var decoded struct {
		Old     string  `json:"old"`
		Summary Summary `json:"summary"`
		Result  struct {
			Events []struct {
				Severity string         `json:"severity"`
				RuleID   string         `json:"ruleId"`
				Details  map[string]any `json:"details"`
				Location *struct {
					Area        string `json:"area"`
					JSONPointer string `json:"jsonPointer"`
				} `json:"location"`
			} `json:"events"`
			HasBreakingChanges bool `json:"hasBreakingChanges"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "v1.yaml", decoded.Old)
	assert.Equal(t, 2, decoded.Summary.Breaking)
	assert.True(t, decoded.Result.HasBreakingChanges)
	require.Len(t, decoded.Result.Events, 2)
	assert.Equal(t, "breaking", decoded.Result.Events[0].Severity)
	assert.Nil(t, decoded.Result.Events[0].Location)
	assert.Equal(t, "REQ_FIELD_TYPE_CHANGED", decoded.Result.Events[1].RuleID)
	assert.Equal(t, "integer", decoded.Result.Events[1].Details["newType"])
	assert.Equal(t, "requestBody", decoded.Result.Events[1].Location.Area)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, New("v1.yaml", "v2.yaml", sampleResult(t))))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "v1.yaml", decoded["old"])
	result, ok := decoded["result"].(map[string]any)
	require.True(t, ok)
	events, ok := result["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 2)
	first := events[0].(map[string]any)
	assert.Equal(t, "breaking", first["severity"])
	assert.Equal(t, "ENDPOINT_REMOVED", first["ruleId"])
}

func TestWriteDispatch(t *testing.T) {
	r := New("a", "b", sampleResult(t))
	for _, f := range []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, r), f)
		assert.NotEmpty(t, buf.String(), f)
	}
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), r))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrors(t *testing.T) {
	r := New("a", "b", sampleResult(t))
	for _, f := range []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown} {
		err := Write(failingWriter{}, f, r)
		require.Error(t, err, f)
		assert.Contains(t, err.Error(), "disk full")
	}
}

func TestExitCode(t *testing.T) {
	breaking := &differ.Result{HasBreakingChanges: true}
	clean := &differ.Result{}

	assert.Equal(t, ExitCodeOK, ExitCode(breaking, false))
	assert.Equal(t, ExitCodeBreaking, ExitCode(breaking, true))
	assert.Equal(t, ExitCodeOK, ExitCode(clean, true))
	assert.Equal(t, ExitCodeOK, ExitCode(nil, true))
	assert.Equal(t, 64, ExitCodeError)
}

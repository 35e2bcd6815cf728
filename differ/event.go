package differ

import (
	"github.com/erraggy/apidiff/internal/severity"
)

// Severity indicates the severity level of a finding
type Severity = severity.Severity

const (
	// SeverityInfo indicates an informational finding
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates a potentially problematic change
	SeverityWarning = severity.SeverityWarning
	// SeverityBreaking indicates a change that can break existing clients
	SeverityBreaking = severity.SeverityBreaking
)

// Rule IDs carried by DiffEvent.RuleID. They are stable across releases.
const (
	RuleEndpointRemoved           = "ENDPOINT_REMOVED"
	RuleRequestBodyAdded          = "REQ_BODY_ADDED"
	RuleRequestBodyBecameRequired = "REQ_BODY_BECAME_REQUIRED"
	RuleRequestFieldAdded         = "REQ_FIELD_ADDED"
	RuleRequestFieldTypeChanged   = "REQ_FIELD_TYPE_CHANGED"
	RuleRequestEnumValueRemoved   = "REQ_ENUM_VALUE_REMOVED"
	RuleResponseFieldRemoved      = "RES_FIELD_REMOVED"
	RuleResponseFieldTypeChanged  = "RES_FIELD_TYPE_CHANGED"
)

// Area identifies which part of an operation a finding refers to
type Area string

const (
	// AreaRequestBody refers to the operation's request body
	AreaRequestBody Area = "requestBody"
	// AreaResponses refers to the operation's responses
	AreaResponses Area = "responses"
)

// Keys used in DiffEvent.Details
const (
	DetailField        = "field"
	DetailOldType      = "oldType"
	DetailNewType      = "newType"
	DetailRemovedValue = "removedValue"
	DetailStatusCode   = "statusCode"
)

// OperationRef identifies the endpoint a finding belongs to
type OperationRef struct {
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
}

// String returns "METHOD path".
func (o OperationRef) String() string {
	return o.Method + " " + o.Path
}

// Location points at the element a finding refers to
type Location struct {
	// Area is requestBody or responses
	Area Area `json:"area" yaml:"area"`
	// ContentType is the media type inspected (always application/json today)
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	// JSONPointer is an RFC 6901 pointer into the document holding the element.
	// Removals and changes point into the old document, additions into the new one.
	// Pointers use the canonical OpenAPI field names, so the method token is
	// always lower case ("get") whatever case the Document Model carries.
	JSONPointer string `json:"jsonPointer,omitempty" yaml:"jsonPointer,omitempty"`
}

// DiffEvent is one detected incompatibility
type DiffEvent struct {
	// Severity is the impact level of the finding
	Severity Severity `json:"severity" yaml:"severity"`
	// RuleID is the stable identifier of the finding's category
	RuleID string `json:"ruleId" yaml:"ruleId"`
	// Message is a human-readable description
	Message string `json:"message" yaml:"message"`
	// Operation is the affected endpoint, if any
	Operation *OperationRef `json:"operation,omitempty" yaml:"operation,omitempty"`
	// Location is the affected element within the operation, if any
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
	// Details holds rule-specific structured data (see the Detail* keys)
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// String renders the event as "<SEVERITY>: <message>", for example
// "BREAKING: DELETE /users/{id} removed".
func (e DiffEvent) String() string {
	return severityLabel(e.Severity) + ": " + e.Message
}

// IsBreaking reports whether the event has breaking severity.
func (e DiffEvent) IsBreaking() bool {
	return e.Severity == SeverityBreaking
}

func severityLabel(s Severity) string {
	switch s {
	case SeverityBreaking:
		return "BREAKING"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

package document

import (
	"github.com/erraggy/apidiff/oaserrors"
)

// MediaTypeJSON is the only media type inspected by the comparison rules.
const MediaTypeJSON = "application/json"

// Document is the root of the Document Model.
type Document struct {
	// OpenAPI is the declared OpenAPI version (e.g. "3.0.3"); informational only
	OpenAPI string
	// Title is info.title; informational only
	Title string
	// Version is info.version; informational only
	Version string
	// Paths holds path items in source declaration order
	Paths []*PathItem
}

// PathItem groups the operations declared on one path template.
type PathItem struct {
	// Path is the path template exactly as declared (e.g. "/users/{id}")
	Path string
	// Operations holds the path's operations in source declaration order
	Operations []*Operation
}

// Operation is the request/response contract of one method on one path.
type Operation struct {
	// Method is the HTTP verb as declared; see NormalizeMethod
	Method string
	// RequestBody is nil when the operation declares no request body
	RequestBody *RequestBody
	// Responses holds responses in source declaration order
	Responses []*Response
}

// RequestBody describes an operation's request body.
type RequestBody struct {
	// Required is the request body's required flag
	Required bool
	// Content maps media type to schema; a nil schema means none was declared
	Content map[string]*Schema
}

// Response describes one declared response of an operation.
type Response struct {
	// StatusCode is the response key as declared ("200", "2XX", "default", ...)
	StatusCode string
	// Content maps media type to schema; a nil schema means none was declared
	Content map[string]*Schema
}

// Schema is one level of a JSON-Schema-like node. Nested member schemas are
// present but are never recursed into by the comparison rules.
type Schema struct {
	// Type is the literal type string; empty means the type is null/absent
	Type string
	// Properties maps property name to member schema
	Properties map[string]*Schema
	// Required lists the required property names; treated as a set
	Required []string
	// Enum lists the allowed literals in declaration order; a nil entry is the null literal
	Enum []*string
}

// Stats contains counts describing a Document.
type Stats struct {
	PathCount      int
	OperationCount int
}

// Stats returns path and operation counts for the document.
// Operations with unrecognized methods are counted too.
func (d *Document) Stats() Stats {
	var s Stats
	if d == nil {
		return s
	}
	for _, item := range d.Paths {
		if item == nil {
			continue
		}
		s.PathCount++
		for _, op := range item.Operations {
			if op != nil {
				s.OperationCount++
			}
		}
	}
	return s
}

// PathItem returns the first path item declared with exactly this path, or nil.
func (d *Document) PathItem(path string) *PathItem {
	if d == nil {
		return nil
	}
	for _, item := range d.Paths {
		if item != nil && item.Path == path {
			return item
		}
	}
	return nil
}

// Operation returns the first operation whose normalized method matches, or nil.
func (p *PathItem) Operation(method string) *Operation {
	if p == nil {
		return nil
	}
	want := NormalizeMethod(method)
	for _, op := range p.Operations {
		if op != nil && NormalizeMethod(op.Method) == want {
			return op
		}
	}
	return nil
}

// Response returns the first response declared with this status code, or nil.
func (o *Operation) Response(code string) *Response {
	if o == nil {
		return nil
	}
	for _, r := range o.Responses {
		if r != nil && r.StatusCode == code {
			return r
		}
	}
	return nil
}

// JSONSchema returns the application/json schema of the request body, or nil.
func (b *RequestBody) JSONSchema() *Schema {
	if b == nil {
		return nil
	}
	return b.Content[MediaTypeJSON]
}

// JSONSchema returns the application/json schema of the response, or nil.
func (r *Response) JSONSchema() *Schema {
	if r == nil {
		return nil
	}
	return r.Content[MediaTypeJSON]
}

// IsRequired reports whether name is in the schema's required set.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Validate reports whether doc can be compared at all. Only a missing document
// is structurally invalid; absent sub-structures are legitimate and mean
// "nothing to compare". source names the document in the returned error.
func Validate(doc *Document, source string) error {
	if doc == nil {
		return &oaserrors.MalformedInputError{Source: source, Message: "document is nil"}
	}
	return nil
}

// Strings returns enum literals for the given strings. It is a convenience for
// building schemas by hand.
func Strings(values ...string) []*string {
	out := make([]*string, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

// LiteralString renders an enum literal, using "null" for the null literal.
func LiteralString(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}

// TypeString renders a schema type literal, using "null" for the absent type.
func TypeString(t string) string {
	if t == "" {
		return "null"
	}
	return t
}

package differ

import (
	"slices"
	"strings"

	"github.com/erraggy/apidiff/document"
	"github.com/erraggy/apidiff/internal/httputil"
	"github.com/erraggy/apidiff/internal/pathutil"
	"github.com/samber/lo"
)

// requestSchema returns the application/json request schema of op, or nil.
func requestSchema(op *document.Operation) *document.Schema {
	if op == nil {
		return nil
	}
	return op.RequestBody.JSONSchema()
}

// successResponse returns the first declared response whose status code starts
// with "2" (see httputil.IsSuccessStatus). Later 2xx responses are never consulted, even when the first one
// carries no JSON content.
func successResponse(op *document.Operation) *document.Response {
	if op == nil {
		return nil
	}
	for _, r := range op.Responses {
		if r != nil && httputil.IsSuccessStatus(r.StatusCode) {
			return r
		}
	}
	return nil
}

// typeOf returns the type literal of s; a missing schema has the null type.
func typeOf(s *document.Schema) string {
	if s == nil {
		return ""
	}
	return s.Type
}

// propertyNames returns the property names of s in sorted order.
func propertyNames(s *document.Schema) []string {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	names := lo.Keys(s.Properties)
	slices.Sort(names)
	return names
}

// property looks up a member schema. A property declared with a nil schema is
// still present.
func property(s *document.Schema, name string) (*document.Schema, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.Properties[name]
	return p, ok
}

// requiredSet returns the distinct required names of s in declaration order.
func requiredSet(s *document.Schema) []string {
	if s == nil {
		return nil
	}
	return lo.Uniq(s.Required)
}

func sameLiteral(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func containsLiteral(list []*string, v *string) bool {
	return slices.ContainsFunc(list, func(e *string) bool { return sameLiteral(e, v) })
}

// distinctLiterals drops repeated enum literals, keeping the first occurrence.
func distinctLiterals(list []*string) []*string {
	out := make([]*string, 0, len(list))
	for _, v := range list {
		if !containsLiteral(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// literalValue converts an enum literal for use in event details.
func literalValue(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// operationPointer points at the operation object of key. OpenAPI operation
// fields are lower case, so the method is lowered.
func operationPointer(key EndpointKey, rest ...string) string {
	tokens := append([]string{"paths", key.Path, strings.ToLower(key.Method)}, rest...)
	return pathutil.Pointer(tokens...)
}

func requestBodyPointer(key EndpointKey, rest ...string) string {
	return operationPointer(key, append([]string{"requestBody"}, rest...)...)
}

func requestPropertyPointer(key EndpointKey, field string, rest ...string) string {
	tokens := append([]string{"content", document.MediaTypeJSON, "schema", "properties", field}, rest...)
	return requestBodyPointer(key, tokens...)
}

func responsePropertyPointer(key EndpointKey, code, field string) string {
	return operationPointer(key, "responses", code, "content", document.MediaTypeJSON, "schema", "properties", field)
}

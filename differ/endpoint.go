package differ

import (
	"github.com/erraggy/apidiff/document"
)

// EndpointKey is the identity of an endpoint: upper-cased method plus the exact,
// case-sensitive path template. Path templates are not normalized, so
// "/users/{id}" and "/users/{userId}" are different keys.
type EndpointKey struct {
	Method string
	Path   string
}

// String returns "METHOD path".
func (k EndpointKey) String() string {
	return k.Method + " " + k.Path
}

// Endpoint is one (method, path) pair of a document with its operation
type Endpoint struct {
	EndpointKey
	Operation *document.Operation
}

// EndpointIndex is the deduplicated, ordered set of endpoints of one document.
// It is read-only after construction.
type EndpointIndex struct {
	endpoints []Endpoint
	byKey     map[EndpointKey]int
}

// BuildEndpointIndex extracts the endpoints of doc in declaration order.
// Operations with unrecognized methods are excluded, and when the same
// (method, path) is declared more than once the first declaration wins.
// A nil or path-less document yields an empty index.
func BuildEndpointIndex(doc *document.Document) *EndpointIndex {
	idx := &EndpointIndex{byKey: make(map[EndpointKey]int)}
	if doc == nil {
		return idx
	}
	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		for _, op := range item.Operations {
			if op == nil || !document.IsRecognizedMethod(op.Method) {
				continue
			}
			key := EndpointKey{Method: document.NormalizeMethod(op.Method), Path: item.Path}
			if _, seen := idx.byKey[key]; seen {
				continue
			}
			idx.byKey[key] = len(idx.endpoints)
			idx.endpoints = append(idx.endpoints, Endpoint{EndpointKey: key, Operation: op})
		}
	}
	return idx
}

// Len returns the number of endpoints.
func (x *EndpointIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.endpoints)
}

// Endpoints returns the endpoints in declaration order. The returned slice is a copy.
func (x *EndpointIndex) Endpoints() []Endpoint {
	if x == nil {
		return nil
	}
	out := make([]Endpoint, len(x.endpoints))
	copy(out, x.endpoints)
	return out
}

// Lookup returns the endpoint for key, if present.
func (x *EndpointIndex) Lookup(key EndpointKey) (Endpoint, bool) {
	if x == nil {
		return Endpoint{}, false
	}
	i, ok := x.byKey[key]
	if !ok {
		return Endpoint{}, false
	}
	return x.endpoints[i], true
}

// Has reports whether the index contains key.
func (x *EndpointIndex) Has(key EndpointKey) bool {
	_, ok := x.Lookup(key)
	return ok
}

package differ

import (
	"github.com/erraggy/apidiff/document"
)

// CommonOperation is an endpoint present in both documents
type CommonOperation struct {
	EndpointKey
	Old *document.Operation
	New *document.Operation
}

// Ref returns the operation reference carried by events about this operation.
func (c CommonOperation) Ref() *OperationRef {
	return &OperationRef{Method: c.Method, Path: c.Path}
}

// Context is the read-only input shared by every rule of one comparison.
// Rules must not modify it or anything reachable from it.
type Context struct {
	OldDoc       *document.Document
	NewDoc       *document.Document
	OldEndpoints *EndpointIndex
	NewEndpoints *EndpointIndex
	// CommonOperations lists the endpoints found in both indexes, in the
	// declaration order of the old document
	CommonOperations []CommonOperation
}

// NewContext indexes both documents and joins them on the exact endpoint key.
func NewContext(oldDoc, newDoc *document.Document) *Context {
	ctx := &Context{
		OldDoc:       oldDoc,
		NewDoc:       newDoc,
		OldEndpoints: BuildEndpointIndex(oldDoc),
		NewEndpoints: BuildEndpointIndex(newDoc),
	}
	for _, ep := range ctx.OldEndpoints.endpoints {
		match, ok := ctx.NewEndpoints.Lookup(ep.EndpointKey)
		if !ok {
			continue
		}
		ctx.CommonOperations = append(ctx.CommonOperations, CommonOperation{
			EndpointKey: ep.EndpointKey,
			Old:         ep.Operation,
			New:         match.Operation,
		})
	}
	return ctx
}

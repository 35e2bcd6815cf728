package differ

import (
	"github.com/erraggy/apidiff/document"
)

// doc builds a document from path items.
func doc(items ...*document.PathItem) *document.Document {
	return &document.Document{OpenAPI: "3.0.3", Paths: items}
}

func path(p string, ops ...*document.Operation) *document.PathItem {
	return &document.PathItem{Path: p, Operations: ops}
}

func op(method string) *document.Operation {
	return &document.Operation{Method: method}
}

// withRequest sets a JSON request body on o.
func withRequest(o *document.Operation, required bool, schema *document.Schema) *document.Operation {
	o.RequestBody = &document.RequestBody{
		Required: required,
		Content:  map[string]*document.Schema{document.MediaTypeJSON: schema},
	}
	return o
}

// withResponse appends a JSON response to o; a nil schema adds a response
// without content.
func withResponse(o *document.Operation, code string, schema *document.Schema) *document.Operation {
	r := &document.Response{StatusCode: code}
	if schema != nil {
		r.Content = map[string]*document.Schema{document.MediaTypeJSON: schema}
	}
	o.Responses = append(o.Responses, r)
	return o
}

func object(props map[string]*document.Schema, required ...string) *document.Schema {
	return &document.Schema{Type: "object", Properties: props, Required: required}
}

func typed(t string) *document.Schema {
	return &document.Schema{Type: t}
}

func enum(t string, values ...string) *document.Schema {
	return &document.Schema{Type: t, Enum: document.Strings(values...)}
}

func ruleIDs(events []DiffEvent) []string {
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.RuleID
	}
	return ids
}

// richPair returns two documents that trigger every rule once.
func richPair() (*document.Document, *document.Document) {
	oldDoc := doc(
		path("/users",
			withResponse(op("get"), "200", object(map[string]*document.Schema{
				"id":   typed("integer"),
				"name": typed("string"),
			})),
			withRequest(op("post"), false, object(map[string]*document.Schema{
				"name":   typed("string"),
				"email":  typed("string"),
				"age":    typed("string"),
				"status": enum("string", "active", "inactive"),
			}, "name")),
			op("put"),
		),
		path("/users/{id}", op("delete")),
	)
	newDoc := doc(
		path("/users",
			withResponse(op("get"), "200", object(map[string]*document.Schema{
				"id": typed("string"),
			})),
			withRequest(op("post"), true, object(map[string]*document.Schema{
				"name":   typed("string"),
				"email":  typed("string"),
				"age":    typed("integer"),
				"status": enum("string", "active"),
			}, "name", "email")),
			withRequest(op("put"), true, object(nil)),
		),
	)
	return oldDoc, newDoc
}

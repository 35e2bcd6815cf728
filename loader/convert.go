package loader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/apidiff/document"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/samber/lo"
)

// convertDocument builds the Document Model from a resolved kin-openapi tree.
// Keys missing from order (or all keys, when order is nil) follow the
// declared ones: paths and status codes sorted, methods in canonical order.
func convertDocument(spec *openapi3.T, order *orderIndex) *document.Document {
	if order == nil {
		order = &orderIndex{}
	}
	doc := &document.Document{OpenAPI: spec.OpenAPI}
	if spec.Info != nil {
		doc.Title = spec.Info.Title
		doc.Version = spec.Info.Version
	}
	if spec.Paths == nil {
		return doc
	}

	items := spec.Paths.Map()
	for _, path := range orderedKeys(lo.Keys(items), order.paths) {
		item := items[path]
		if item == nil {
			continue
		}
		doc.Paths = append(doc.Paths, convertPathItem(path, item, order))
	}
	return doc
}

func convertPathItem(path string, item *openapi3.PathItem, order *orderIndex) *document.PathItem {
	out := &document.PathItem{Path: path}
	ops := item.Operations()
	declared := order.methods[path]
	for _, method := range orderedMethods(lo.Keys(ops), declared) {
		op := ops[method]
		if op == nil {
			continue
		}
		out.Operations = append(out.Operations, convertOperation(method, path, op, order))
	}
	return out
}

func convertOperation(method, path string, op *openapi3.Operation, order *orderIndex) *document.Operation {
	out := &document.Operation{Method: strings.ToUpper(method)}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		out.RequestBody = &document.RequestBody{
			Required: op.RequestBody.Value.Required,
			Content:  convertContent(op.RequestBody.Value.Content),
		}
	}
	if op.Responses == nil {
		return out
	}
	responses := op.Responses.Map()
	declared := order.responses[operationKey(method, path)]
	for _, code := range orderedKeys(lo.Keys(responses), declared) {
		ref := responses[code]
		resp := &document.Response{StatusCode: code}
		if ref != nil && ref.Value != nil {
			resp.Content = convertContent(ref.Value.Content)
		}
		out.Responses = append(out.Responses, resp)
	}
	return out
}

func convertContent(content openapi3.Content) map[string]*document.Schema {
	if len(content) == 0 {
		return nil
	}
	out := make(map[string]*document.Schema, len(content))
	for mediaType, mt := range content {
		if mt == nil {
			out[mediaType] = nil
			continue
		}
		out[mediaType] = convertSchema(mt.Schema, 1)
	}
	return out
}

// convertSchema converts ref and, while depth > 0, its properties. Deeper
// levels are never compared, so they are not materialized.
func convertSchema(ref *openapi3.SchemaRef, depth int) *document.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	s := ref.Value
	out := &document.Schema{
		Type:     typeLiteral(s.Type),
		Required: slices.Clone(s.Required),
		Enum:     enumLiterals(s.Enum),
	}
	if depth > 0 && len(s.Properties) > 0 {
		out.Properties = make(map[string]*document.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(prop, depth-1)
		}
	}
	return out
}

// typeLiteral joins OpenAPI 3.1 type arrays with ","; a missing type is null.
func typeLiteral(t *openapi3.Types) string {
	if t == nil {
		return ""
	}
	return strings.Join(t.Slice(), ",")
}

func enumLiterals(values []any) []*string {
	if values == nil {
		return nil
	}
	out := make([]*string, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		s := literal(v)
		out[i] = &s
	}
	return out
}

func literal(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// orderedKeys returns keys in declared order, followed by keys not declared
// in sorted order. Declared entries missing from keys are dropped.
func orderedKeys(keys, declared []string) []string {
	present := lo.SliceToMap(keys, func(k string) (string, bool) { return k, true })
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range declared {
		if present[k] && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	rest := lo.Filter(keys, func(k string, _ int) bool { return !seen[k] })
	slices.Sort(rest)
	return append(out, rest...)
}

// orderedMethods is orderedKeys for operation methods, with canonical
// method order for undeclared ones.
func orderedMethods(methods, declared []string) []string {
	upper := lo.Map(declared, func(m string, _ int) string { return strings.ToUpper(m) })
	present := lo.SliceToMap(methods, func(m string) (string, bool) { return m, true })
	out := make([]string, 0, len(methods))
	seen := make(map[string]bool, len(methods))
	for _, m := range upper {
		if present[m] && !seen[m] {
			out = append(out, m)
			seen[m] = true
		}
	}
	for _, m := range append(slices.Clone(document.Methods), "CONNECT") {
		if present[m] && !seen[m] {
			out = append(out, m)
			seen[m] = true
		}
	}
	return out
}

package loader

import (
	"errors"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
)

// orderIndex records the declaration order of map keys that kin-openapi
// stores in Go maps.
type orderIndex struct {
	paths []string
	// methods maps a path to its operation keys, upper-cased
	methods map[string][]string
	// responses maps "METHOD path" to its status code keys
	responses map[string][]string
}

func operationKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// parseTree decodes the raw document into a YAML node tree. JSON input is
// valid YAML, so one pass covers both formats. Repeated mapping keys are
// accepted and every repetition after the first is removed from the tree;
// the removed keys are returned as "line N: key" descriptions.
func parseTree(data []byte) (*yaml.Node, []string, error) {
	var root yaml.Node
	if err := yaml.Load(data, &root, yaml.WithUniqueKeys(false)); err != nil {
		return nil, nil, err
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil, errors.New("empty YAML document")
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return nil, nil, errors.New("empty YAML document")
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil, errors.New("document root is not a mapping")
	}
	var dropped []string
	dropDuplicateKeys(node, &dropped)
	return node, dropped, nil
}

// dropDuplicateKeys keeps the first occurrence of every key in each mapping
// below node.
func dropDuplicateKeys(node *yaml.Node, dropped *[]string) {
	if node == nil {
		return
	}
	if node.Kind == yaml.MappingNode {
		seen := make(map[string]bool, len(node.Content)/2)
		kept := node.Content[:0]
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if seen[key.Value] {
				*dropped = append(*dropped, fmt.Sprintf("line %d: %s", key.Line, key.Value))
				continue
			}
			seen[key.Value] = true
			kept = append(kept, key, value)
		}
		node.Content = kept
	}
	for _, child := range node.Content {
		dropDuplicateKeys(child, dropped)
	}
}

// buildOrderIndex records the key order of the paths section of root, a
// mapping node returned by parseTree.
func buildOrderIndex(root *yaml.Node) *orderIndex {
	idx := &orderIndex{
		methods:   make(map[string][]string),
		responses: make(map[string][]string),
	}
	paths := mappingValue(root, "paths")
	if paths == nil {
		return idx
	}
	eachPair(paths, func(path string, item *yaml.Node) {
		idx.paths = append(idx.paths, path)
		eachPair(item, func(method string, op *yaml.Node) {
			if !isOperationKey(method) {
				return
			}
			upper := strings.ToUpper(method)
			idx.methods[path] = append(idx.methods[path], upper)
			responses := mappingValue(op, "responses")
			if responses == nil {
				return
			}
			key := operationKey(upper, path)
			eachPair(responses, func(code string, _ *yaml.Node) {
				idx.responses[key] = append(idx.responses[key], code)
			})
		})
	})
	return idx
}

// isOperationKey reports whether a path item key names an operation.
// kin-openapi only knows lower-case field names.
func isOperationKey(key string) bool {
	switch key {
	case "get", "put", "post", "delete", "options", "head", "patch", "trace", "connect":
		return true
	}
	return false
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// eachPair calls fn for every key/value pair of a mapping node in order.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node)) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		fn(node.Content[i].Value, node.Content[i+1])
	}
}

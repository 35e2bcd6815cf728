// Package testutil provides test utilities and OpenAPI fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

// NewMinimalDocument creates an OpenAPI 3.0.3 document with no paths.
func NewMinimalDocument(title, version string) map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": title, "version": version},
		"paths":   map[string]any{},
	}
}

// PetsOptions varies the pets fixture so two versions can differ.
type PetsOptions struct {
	// Version is info.version. Default "1.0.0".
	Version string
	// Required lists the required fields of the POST /pets body. Default ["name"].
	Required []string
	// IDType is the type of the response "id" property. Default "integer".
	IDType string
	// Kinds is the enum of the request "kind" property. Default ["cat", "dog"].
	Kinds []any
	// WithDelete adds DELETE /pets/{id}.
	WithDelete bool
}

// NewPetsDocument creates a small pets API: POST /pets with a JSON body,
// GET /pets returning a pet object, and optionally DELETE /pets/{id}.
func NewPetsDocument(opts PetsOptions) map[string]any {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.Required == nil {
		opts.Required = []string{"name"}
	}
	if opts.IDType == "" {
		opts.IDType = "integer"
	}
	if opts.Kinds == nil {
		opts.Kinds = []any{"cat", "dog"}
	}

	pet := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": opts.IDType},
			"name": map[string]any{"type": "string"},
		},
	}
	newPet := map[string]any{
		"type":     "object",
		"required": opts.Required,
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"tag":  map[string]any{"type": "string"},
			"kind": map[string]any{"type": "string", "enum": opts.Kinds},
		},
	}
	jsonContent := func(schema map[string]any) map[string]any {
		return map[string]any{"application/json": map[string]any{"schema": schema}}
	}

	paths := map[string]any{
		"/pets": map[string]any{
			"post": map[string]any{
				"requestBody": map[string]any{"required": true, "content": jsonContent(newPet)},
				"responses": map[string]any{
					"201": map[string]any{"description": "Created", "content": jsonContent(pet)},
				},
			},
			"get": map[string]any{
				"responses": map[string]any{
					"200": map[string]any{"description": "OK", "content": jsonContent(pet)},
				},
			},
		},
	}
	if opts.WithDelete {
		paths["/pets/{id}"] = map[string]any{
			"delete": map[string]any{
				"parameters": []any{map[string]any{
					"name": "id", "in": "path", "required": true,
					"schema": map[string]any{"type": "string"},
				}},
				"responses": map[string]any{"204": map[string]any{"description": "Deleted"}},
			},
		}
	}

	doc := NewMinimalDocument("Pets API", opts.Version)
	doc["paths"] = paths
	return doc
}

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "openapi.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}

	return tmpFile
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "openapi.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary JSON file: %v", err)
	}

	return tmpFile
}

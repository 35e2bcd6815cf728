// Package apidiff detects backward-incompatible ("breaking") changes between two
// versions of an OpenAPI 3.x description.
//
// # Overview
//
// The module is organised around a small comparison core and thin adapters:
//
//   - document: the pre-parsed, de-referenced Document Model the core consumes
//   - differ: endpoint matching, the fixed set of comparison rules, and result aggregation
//   - loader: reads OpenAPI text from files, URLs, bytes or readers into a Document
//   - report: renders comparison results as text, JSON, YAML or Markdown
//
// # Quick Start
//
//	oldDoc, err := loader.LoadWithOptions(loader.WithFilePath("api-v1.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	newDoc, err := loader.LoadWithOptions(loader.WithFilePath("api-v2.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := differ.Compare(oldDoc, newDoc)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, event := range result.Events {
//		fmt.Println(event)
//	}
//
// # Rules
//
// Six rules are evaluated, always in this order:
//
//   - ENDPOINT_REMOVED
//   - REQ_BODY_ADDED / REQ_BODY_BECAME_REQUIRED
//   - REQ_FIELD_ADDED
//   - REQ_FIELD_TYPE_CHANGED
//   - REQ_ENUM_VALUE_REMOVED
//   - RES_FIELD_REMOVED / RES_FIELD_TYPE_CHANGED
//
// Only application/json request and response bodies are inspected, schemas are
// compared one level deep, and only the first declared 2xx response is checked.
package apidiff

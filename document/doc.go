// Package document defines the Document Model compared by the differ package.
//
// A Document is a pre-parsed, fully de-referenced view of an OpenAPI description
// reduced to what breaking-change detection needs: paths, the operations declared
// on each path, request bodies, responses, and one level of schema structure.
//
// Ordering matters in two places and is therefore modeled with slices rather than
// maps: the order of Paths and of Operations within a PathItem determines the order
// in which findings are reported, and the order of Responses determines which 2xx
// response is "the success response". Content and Properties are plain maps; the
// differ iterates properties in sorted order.
//
// Documents are built by the loader package or constructed directly, and must be
// treated as read-only once handed to the differ.
package document

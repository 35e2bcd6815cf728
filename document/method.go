package document

import "strings"

// HTTP methods recognized by the comparison. Operations declared with any other
// verb are ignored entirely.
const (
	MethodGet     = "GET"
	MethodPut     = "PUT"
	MethodPost    = "POST"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
	MethodHead    = "HEAD"
	MethodPatch   = "PATCH"
	MethodTrace   = "TRACE"
)

// Methods lists the recognized methods in OpenAPI path item field order.
var Methods = []string{
	MethodGet,
	MethodPut,
	MethodPost,
	MethodDelete,
	MethodOptions,
	MethodHead,
	MethodPatch,
	MethodTrace,
}

// NormalizeMethod returns the upper-cased method name.
func NormalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}

// IsRecognizedMethod reports whether method (in any case) is one of Methods.
func IsRecognizedMethod(method string) bool {
	switch NormalizeMethod(method) {
	case MethodGet, MethodPut, MethodPost, MethodDelete,
		MethodOptions, MethodHead, MethodPatch, MethodTrace:
		return true
	}
	return false
}

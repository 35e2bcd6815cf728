// Package differ detects breaking changes between two versions of an API
// description.
//
// The comparison works on two document.Document values that were loaded and
// de-referenced beforehand (see the loader package). It builds an endpoint index
// for each document, joins them into a read-only Context, and evaluates a fixed
// table of independent rules over that context.
//
// # Quick Start
//
//	result, err := differ.CompareWithOptions(
//	    differ.WithOld(oldDoc),
//	    differ.WithNew(newDoc),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ev := range result.Events {
//	    fmt.Println(ev)
//	}
//
// Or reuse a configured Differ:
//
//	d := differ.New()
//	d.Parallel = true
//	result, err := d.Compare(oldDoc, newDoc)
//
// # Rules
//
// Rules are evaluated, and their events reported, in this order:
//
//	ENDPOINT_REMOVED                            endpoint in old, absent from new
//	REQ_BODY_ADDED, REQ_BODY_BECAME_REQUIRED    request body now required
//	REQ_FIELD_ADDED                             new required request field
//	REQ_FIELD_TYPE_CHANGED                      request property type changed
//	REQ_ENUM_VALUE_REMOVED                      request enum literal removed
//	RES_FIELD_REMOVED, RES_FIELD_TYPE_CHANGED   success response property removed or retyped
//
// Within a rule, events follow the order of the old document's endpoints and,
// for schema rules, property names in sorted order. Repeated comparisons of the
// same inputs produce identical output.
//
// Only the application/json media type is inspected, only the first declared 2xx
// response counts as the success response, and schemas are compared one level
// deep. Every rule currently reports SeverityBreaking.
package differ

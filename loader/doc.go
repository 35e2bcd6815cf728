// Package loader reads OpenAPI 3.x descriptions and builds the de-referenced
// document.Document values compared by the differ package.
//
// Sources may be local files, http(s) URLs, byte slices, or readers, in YAML or
// JSON. Parsing and $ref resolution are done with kin-openapi; a second pass
// over the raw YAML node tree recovers the declaration order of paths,
// operations, and response status codes, which map-based parsers lose.
//
// URL fetches send a User-Agent header, honor the configured timeout, and are
// retried with exponential backoff on transport errors and 5xx responses.
// 4xx responses fail immediately.
//
// Example:
//
//	res, err := loader.LoadWithOptions(ctx,
//	    loader.WithFilePath("openapi.yaml"),
//	    loader.WithValidation(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Document.Stats().OperationCount)
package loader

package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/erraggy/apidiff"
	"github.com/erraggy/apidiff/document"
	"github.com/erraggy/apidiff/internal/httputil"
	"github.com/erraggy/apidiff/logging"
	"github.com/erraggy/apidiff/oaserrors"
	"github.com/getkin/kin-openapi/openapi3"
	"go.yaml.in/yaml/v4"
)

// Defaults used by New.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryInterval = 500 * time.Millisecond
)

// SourceFormat is the serialization format of a loaded document
type SourceFormat string

const (
	// SourceFormatYAML indicates YAML input
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates JSON input
	SourceFormatJSON SourceFormat = "json"
)

// Result contains a loaded document and metadata about its source
type Result struct {
	// Document is the de-referenced Document Model
	Document *document.Document
	// Source is the file path, URL, or caller-supplied name of the input
	Source string
	// Format is the detected serialization format
	Format SourceFormat
	// Data is the raw input
	Data []byte
	// LoadTime is how long loading took, fetch included
	LoadTime time.Duration
}

// Loader loads OpenAPI documents
type Loader struct {
	// HTTPClient is used for URL sources. Defaults to a client without a
	// timeout of its own; Timeout bounds the whole load instead.
	HTTPClient *http.Client
	// UserAgent is sent with URL requests. Defaults to apidiff.UserAgent().
	UserAgent string
	// Timeout bounds a whole load, retries included. Zero disables it.
	Timeout time.Duration
	// MaxRetries is the number of retries after a failed URL fetch
	MaxRetries int
	// RetryInterval is the initial backoff interval between retries
	RetryInterval time.Duration
	// Validate runs kin-openapi structural validation after parsing
	Validate bool
	// Logger receives load and fetch progress
	Logger logging.Logger
}

// New creates a Loader with default settings
func New() *Loader {
	return &Loader{
		Timeout:       DefaultTimeout,
		MaxRetries:    DefaultMaxRetries,
		RetryInterval: DefaultRetryInterval,
	}
}

func (l *Loader) log() logging.Logger {
	return logging.OrNop(l.Logger)
}

// Load reads a document from a local file path or an http(s) URL.
func (l *Loader) Load(ctx context.Context, source string) (*Result, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var data []byte
	var err error
	if IsURL(source) {
		data, err = l.fetchURL(ctx, source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		return nil, err
	}
	return l.load(ctx, data, source, start)
}

// LoadBytes parses an in-memory document. source names it in errors.
func (l *Loader) LoadBytes(ctx context.Context, data []byte, source string) (*Result, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.load(ctx, data, source, time.Now())
}

// LoadReader reads r to the end and parses the result. source names it in errors.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, source string) (*Result, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &oaserrors.FetchError{Location: source, Cause: err}
	}
	return l.load(ctx, data, source, start)
}

func (l *Loader) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.Timeout > 0 {
		return context.WithTimeout(ctx, l.Timeout)
	}
	return context.WithCancel(ctx)
}

func (l *Loader) load(ctx context.Context, data []byte, source string, start time.Time) (*Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.MalformedInputError{Source: source, Message: "document is empty"}
	}

	// kin-openapi decodes with last-wins semantics for repeated keys, so a
	// document with duplicates is re-encoded from the first-wins tree
	tree, dropped, treeErr := parseTree(data)
	parseData := data
	if treeErr == nil && len(dropped) > 0 {
		l.log().Warn("duplicate mapping keys ignored, first declaration kept",
			"source", source, "keys", dropped)
		deduped, err := yaml.Marshal(tree)
		if err != nil {
			return nil, &oaserrors.MalformedInputError{Source: source, Message: "failed to re-encode document", Cause: err}
		}
		parseData = deduped
	}

	spec, err := openapi3.NewLoader().LoadFromData(parseData)
	if err != nil {
		return nil, &oaserrors.MalformedInputError{Source: source, Message: "failed to parse document", Cause: err}
	}
	if err := checkVersion(spec); err != nil {
		err.Source = source
		return nil, err
	}
	if l.Validate {
		if err := spec.Validate(ctx); err != nil {
			return nil, &oaserrors.MalformedInputError{Source: source, Message: "validation failed", Cause: err}
		}
	}

	var order *orderIndex
	if treeErr != nil {
		// kin-openapi accepted the input, so only the ordering is lost
		l.log().Warn("declaration order unavailable, using canonical order", "source", source, "error", treeErr)
	} else {
		order = buildOrderIndex(tree)
	}

	doc := convertDocument(spec, order)
	l.warnInvalidStatusCodes(doc, source)
	res := &Result{
		Document: doc,
		Source:   source,
		Format:   detectFormat(data),
		Data:     data,
		LoadTime: time.Since(start),
	}
	stats := doc.Stats()
	l.log().Debug("document loaded",
		"source", source,
		"format", string(res.Format),
		"paths", stats.PathCount,
		"operations", stats.OperationCount,
		"duration", res.LoadTime)
	return res, nil
}

func checkVersion(spec *openapi3.T) *oaserrors.MalformedInputError {
	switch {
	case spec.OpenAPI == "":
		return &oaserrors.MalformedInputError{Message: "missing openapi version field (Swagger 2.0 documents are not supported)"}
	case !strings.HasPrefix(spec.OpenAPI, "3."):
		return &oaserrors.MalformedInputError{Message: fmt.Sprintf("unsupported OpenAPI version %q", spec.OpenAPI)}
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided input
	if err != nil {
		return nil, &oaserrors.FetchError{Location: path, Cause: err}
	}
	return data, nil
}

// IsURL reports whether source is an http:// or https:// URL.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func detectFormat(data []byte) SourceFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// userAgent returns the configured User-Agent or the default one.
func (l *Loader) userAgent() string {
	if l.UserAgent != "" {
		return l.UserAgent
	}
	return apidiff.UserAgent()
}

// warnInvalidStatusCodes logs responses keys that are not status codes,
// wildcards, "default" or extensions. They are kept; only a key starting
// with "2" is ever treated as a success response.
func (l *Loader) warnInvalidStatusCodes(doc *document.Document, source string) {
	for _, item := range doc.Paths {
		for _, op := range item.Operations {
			for _, resp := range op.Responses {
				if !httputil.ValidateStatusCode(resp.StatusCode) {
					l.log().Warn("invalid response status code",
						"source", source,
						"operation", op.Method+" "+item.Path,
						"code", resp.StatusCode)
				}
			}
		}
	}
}

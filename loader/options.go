package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/erraggy/apidiff/internal/options"
	"github.com/erraggy/apidiff/logging"
	"github.com/erraggy/apidiff/oaserrors"
)

// Option is a function that configures a load operation
type Option func(*loadConfig) error

type loadConfig struct {
	// Input sources (exactly one must be set)
	filePath *string
	data     []byte
	reader   io.Reader
	name     string

	httpClient    *http.Client
	userAgent     string
	timeout       time.Duration
	maxRetries    int
	retryInterval time.Duration
	validate      bool
	logger        logging.Logger
}

// LoadWithOptions loads a document using functional options.
//
// Example:
//
//	res, err := loader.LoadWithOptions(ctx,
//	    loader.WithFilePath("https://example.com/openapi.yaml"),
//	    loader.WithTimeout(10*time.Second),
//	    loader.WithMaxRetries(5),
//	)
func LoadWithOptions(ctx context.Context, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loader: invalid options: %w", err)
	}

	l := &Loader{
		HTTPClient:    cfg.httpClient,
		UserAgent:     cfg.userAgent,
		Timeout:       cfg.timeout,
		MaxRetries:    cfg.maxRetries,
		RetryInterval: cfg.retryInterval,
		Validate:      cfg.validate,
		Logger:        cfg.logger,
	}

	switch {
	case cfg.filePath != nil:
		return l.Load(ctx, *cfg.filePath)
	case cfg.data != nil:
		return l.LoadBytes(ctx, cfg.data, cfg.name)
	default:
		return l.LoadReader(ctx, cfg.reader, cfg.name)
	}
}

func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		name:          "<input>",
		timeout:       DefaultTimeout,
		maxRetries:    DefaultMaxRetries,
		retryInterval: DefaultRetryInterval,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath, WithBytes, or WithReader)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.data != nil, cfg.reader != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path or http(s) URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies an in-memory document as the input source
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.data = data
		return nil
	}
}

// WithReader specifies a reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "reader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithSourceName sets the name used for byte and reader sources in errors
// Default: "<input>"
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		cfg.name = name
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for URL sources
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *loadConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: apidiff.UserAgent()
func WithUserAgent(ua string) Option {
	return func(cfg *loadConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithTimeout bounds the whole load, retries included. Zero disables it.
// Default: 30s
func WithTimeout(d time.Duration) Option {
	return func(cfg *loadConfig) error {
		if d < 0 {
			return &oaserrors.ConfigError{Option: "timeout", Value: d, Message: "must not be negative"}
		}
		cfg.timeout = d
		return nil
	}
}

// WithMaxRetries sets how many times a failed URL fetch is retried
// Default: 3
func WithMaxRetries(n int) Option {
	return func(cfg *loadConfig) error {
		if n < 0 {
			return &oaserrors.ConfigError{Option: "max retries", Value: n, Message: "must not be negative"}
		}
		cfg.maxRetries = n
		return nil
	}
}

// WithRetryInterval sets the initial backoff interval between retries
// Default: 500ms
func WithRetryInterval(d time.Duration) Option {
	return func(cfg *loadConfig) error {
		if d <= 0 {
			return &oaserrors.ConfigError{Option: "retry interval", Value: d, Message: "must be positive"}
		}
		cfg.retryInterval = d
		return nil
	}
}

// WithValidation enables structural validation of the parsed document
// Default: false
func WithValidation(enabled bool) Option {
	return func(cfg *loadConfig) error {
		cfg.validate = enabled
		return nil
	}
}

// WithLogger sets the logger for load progress
// Default: no-op
func WithLogger(l logging.Logger) Option {
	return func(cfg *loadConfig) error {
		cfg.logger = l
		return nil
	}
}

package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/apidiff/loader"
	expirable "github.com/hashicorp/golang-lru/v2/expirable"
)

// specInput represents the three ways an OpenAPI document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI 3.x file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI 3.x document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI 3.x document content (JSON or YAML)"`
}

// specCacheStore is a session-scoped cache of loaded documents.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash. URL inputs are keyed by URL string.
// Expired entries are removed by the LRU's own background cleanup.
type specCacheStore struct {
	lru *expirable.LRU[string, *loader.Result]
}

func newSpecCache(maxSize int, ttl time.Duration) *specCacheStore {
	return &specCacheStore{
		lru: expirable.NewLRU[string, *loader.Result](maxSize, func(key string, _ *loader.Result) {
			logger.Debug("document evicted from cache", "key", key)
		}, ttl),
	}
}

var specCache = newSpecCache(cfg.CacheMaxSize, cfg.CacheTTL)

func (c *specCacheStore) get(key string) *loader.Result {
	if result, ok := c.lru.Get(key); ok {
		return result
	}
	return nil
}

func (c *specCacheStore) put(key string, result *loader.Result) {
	c.lru.Add(key, result)
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.lru.Purge()
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	return c.lru.Len()
}

// makeCacheKey creates a cache key for the given spec input.
// An empty key means the input must not be cached.
func makeCacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s", hex.EncodeToString(h[:]))
	case s.URL != "":
		return fmt.Sprintf("url:%s", s.URL)
	default:
		return ""
	}
}

// check reports whether exactly one input was provided and inline content
// is within cfg.MaxInlineSize.
func (s specInput) check() error {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APIDIFF_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	return nil
}

// resolve loads the document from whichever input was provided, using the
// cache for file, URL, and content inputs.
func (s specInput) resolve(ctx context.Context) (*loader.Result, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
	}
	if key != "" {
		if cached := specCache.get(key); cached != nil {
			logger.Debug("document cache hit", "source", cached.Source)
			return cached, nil
		}
	}

	opts := []loader.Option{loader.WithLogger(logger)}
	switch {
	case s.File != "":
		opts = append(opts, loader.WithFilePath(s.File))
	case s.URL != "":
		if !loader.IsURL(s.URL) {
			return nil, fmt.Errorf("url must use http or https: %q", s.URL)
		}
		opts = append(opts, loader.WithFilePath(s.URL))
		if !cfg.AllowPrivateIPs {
			opts = append(opts, loader.WithHTTPClient(newSafeHTTPClient()))
		}
	case s.Content != "":
		opts = append(opts, loader.WithBytes([]byte(s.Content)), loader.WithSourceName("<content>"))
	}

	result, err := loader.LoadWithOptions(ctx, opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		specCache.put(key, result)
	}

	return result, nil
}

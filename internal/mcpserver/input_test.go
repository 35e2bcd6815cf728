package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usersV1Path = "../../loader/testdata/users-v1.yaml"
	usersV2Path = "../../loader/testdata/users-v2.yaml"
)

const emptySpec = `openapi: "3.0.0"
info:
  title: Test
  version: "1.0"
paths: {}
`

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: usersV1Path}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Document)
	assert.Equal(t, usersV1Path, result.Source)
	assert.NotEmpty(t, result.Document.Paths)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	input := specInput{Content: emptySpec}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Document)
	assert.Equal(t, "3.0.0", result.Document.OpenAPI)
	assert.Equal(t, "<content>", result.Source)
}

func TestSpecInput_ResolveNoneProvided(t *testing.T) {
	input := specInput{}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveMultipleProvided(t *testing.T) {
	input := specInput{File: "foo.yaml", Content: "bar"}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.reset()
	input := specInput{File: "/nonexistent/path.yaml"}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, specCache.size())
}

func TestSpecInput_ResolveRejectsNonHTTPURL(t *testing.T) {
	input := specInput{URL: "file:///etc/passwd"}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http or https")
}

func TestSpecInput_ResolveBlocksLoopbackURL(t *testing.T) {
	specCache.reset()
	input := specInput{URL: "http://127.0.0.1:1/openapi.yaml"}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request to private/loopback IP")
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	saved := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = saved })

	input := specInput{Content: strings.Repeat("x", 17)}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum 16 bytes")
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: usersV1Path}

	// First call populates cache.
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	// Second call should return the same pointer (cache hit).
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()

	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	content1 := []byte(`openapi: "3.0.0"
info:
  title: Test V1
  version: "1.0"
paths: {}
`)
	require.NoError(t, os.WriteFile(path, content1, 0644))

	input := specInput{File: path}
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Test V1", result1.Document.Title)

	content2 := []byte(`openapi: "3.0.0"
info:
  title: Test V2
  version: "2.0"
paths: {}
`)
	require.NoError(t, os.WriteFile(path, content2, 0644))

	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Equal(t, "Test V2", result2.Document.Title)
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.reset()
	input := specInput{Content: emptySpec}

	result1, err := input.resolve(context.Background())
	require.NoError(t, err)

	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1, result2)
}

func TestSpecCache_Disabled(t *testing.T) {
	specCache.reset()
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = true })

	input := specInput{Content: emptySpec}
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, result1, result2)
	assert.Equal(t, 0, specCache.size())
}

func TestSpecCache_LRUEviction(t *testing.T) {
	specCache.reset()

	// Insert 11 specs into a cache of size 10.
	var firstKey string
	for i := range 11 {
		content := `openapi: "3.0.0"
info:
  title: "Spec ` + string(rune('A'+i)) + `"
  version: "1.0"
paths: {}
`
		if i == 0 {
			firstKey = makeCacheKey(specInput{Content: content})
		}
		_, err := specInput{Content: content}.resolve(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 10, specCache.size())
	assert.Nil(t, specCache.get(firstKey), "expected oldest entry to be evicted")
}

func TestSpecCache_TTLExpiry(t *testing.T) {
	c := newSpecCache(4, 20*time.Millisecond)
	key := makeCacheKey(specInput{Content: emptySpec})
	result, err := specInput{Content: emptySpec}.resolve(context.Background())
	require.NoError(t, err)

	c.put(key, result)
	assert.Same(t, result, c.get(key))

	assert.Eventually(t, func() bool { return c.get(key) == nil }, time.Second, 10*time.Millisecond)
}

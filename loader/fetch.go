package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erraggy/apidiff/oaserrors"
)

// statusError is a non-2xx HTTP response.
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %s", e.status)
}

// fetchURL GETs url, retrying transport errors and 5xx responses with
// exponential backoff. 4xx responses and context cancellation are final.
func (l *Loader) fetchURL(ctx context.Context, url string) ([]byte, error) {
	client := l.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	expo := backoff.NewExponentialBackOff()
	if l.RetryInterval > 0 {
		expo.InitialInterval = l.RetryInterval
	}
	expo.MaxInterval = 10 * time.Second
	expo.MaxElapsedTime = 0
	retries := max(l.MaxRetries, 0)
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(retries)), ctx)

	var (
		data     []byte
		attempts int
	)
	op := func() error {
		attempts++
		body, err := l.fetchOnce(ctx, client, url)
		if err == nil {
			data = body
			return nil
		}
		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		l.log().Warn("fetch failed, retrying", "url", url, "attempt", attempts, "wait", wait, "error", err)
	}

	start := time.Now()
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		fe := &oaserrors.FetchError{Location: url, Attempts: attempts, Cause: err}
		var se *statusError
		if errors.As(err, &se) {
			fe.StatusCode = se.code
		}
		return nil, fe
	}
	l.log().Debug("fetched document", "url", url, "bytes", len(data), "attempts", attempts, "duration", time.Since(start))
	return data, nil
}

func (l *Loader) fetchOnce(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", l.userAgent())
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.5")

	resp, err := client.Do(req) //nolint:gosec // URL is user-provided input
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

package syncer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// Target is a remote service that receives (document, record) pairs. A
// target that is not configured reports so instead of failing mid-sync.
type Target interface {
	// Name identifies the target in sync status and reports.
	Name() string

	// Configured reports whether the target has the credentials it needs.
	Configured() bool

	// Push sends the signed document and its record to the target.
	Push(ctx context.Context, doc state.Document, rec integrity.Record) error
}

// defaultTimeout bounds every outbound sync request.
const defaultTimeout = 30 * time.Second

// httpClient returns the client to use, defaulting the timeout when the
// target was built without one.
func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultTimeout}
}

// doJSON issues an HTTP request with a JSON body and decodes nothing: sync
// targets are judged on status codes alone.
func doJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	// Drain so the connection can be reused.
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp, nil
}

// statusErr builds the error for an unexpected response status.
func statusErr(target string, resp *http.Response, want int) error {
	return fmt.Errorf("%s: unexpected status %d (want %d)", target, resp.StatusCode, want)
}

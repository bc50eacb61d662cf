package syncer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// CloudflareKV pushes the signed state document into a Cloudflare KV
// namespace under a fixed key. The stored value is the full document with
// its integrity record embedded, so any reader can verify it standalone.
type CloudflareKV struct {
	Token       string
	AccountID   string
	NamespaceID string

	// Key is the KV key to write. Defaults to "kanban_state".
	Key string

	// BaseURL overrides the Cloudflare API endpoint in tests.
	BaseURL string

	Client *http.Client
}

func (t *CloudflareKV) Name() string { return "cloudflare" }

func (t *CloudflareKV) Configured() bool {
	return t.Token != "" && t.AccountID != "" && t.NamespaceID != ""
}

func (t *CloudflareKV) Push(ctx context.Context, doc state.Document, rec integrity.Record) error {
	base := t.BaseURL
	if base == "" {
		base = "https://api.cloudflare.com/client/v4"
	}
	key := t.Key
	if key == "" {
		key = "kanban_state"
	}

	body, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cloudflare: encode document: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/storage/kv/namespaces/%s/values/%s",
		base, t.AccountID, t.NamespaceID, key)
	headers := map[string]string{
		"Authorization": "Bearer " + t.Token,
	}

	resp, err := doJSON(ctx, httpClient(t.Client), http.MethodPut, url, headers, body)
	if err != nil {
		return fmt.Errorf("cloudflare: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusErr("cloudflare", resp, http.StatusOK)
	}
	return nil
}

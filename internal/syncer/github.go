package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// GitHubDispatch fires a repository_dispatch event carrying the digests, so
// a workflow in the repository can pick up the new state and re-verify it.
// GitHub never stores the document itself, only the proof.
type GitHubDispatch struct {
	Token string

	// Repo is the owner/name receiving the event.
	Repo string

	// Source labels where the sync originated. Defaults to "statesync".
	Source string

	// BaseURL overrides the GitHub API endpoint in tests.
	BaseURL string

	Client *http.Client
}

func (t *GitHubDispatch) Name() string { return "github" }

func (t *GitHubDispatch) Configured() bool {
	return t.Token != "" && t.Repo != ""
}

func (t *GitHubDispatch) Push(ctx context.Context, _ state.Document, rec integrity.Record) error {
	base := t.BaseURL
	if base == "" {
		base = "https://api.github.com"
	}
	source := t.Source
	if source == "" {
		source = "statesync"
	}

	payload := map[string]any{
		"event_type": "kanban_sync",
		"client_payload": map[string]any{
			"sha256":       rec.SHA256,
			"sha_infinity": rec.SHAInfinity,
			"timestamp":    rec.Timestamp,
			"source":       source,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("github: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/dispatches", base, t.Repo)
	headers := map[string]string{
		"Authorization": "Bearer " + t.Token,
		"Accept":        "application/vnd.github.v3+json",
	}

	resp, err := doJSON(ctx, httpClient(t.Client), http.MethodPost, url, headers, body)
	if err != nil {
		return fmt.Errorf("github: %w", err)
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusErr("github", resp, http.StatusNoContent)
	}
	return nil
}

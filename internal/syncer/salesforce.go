package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// Salesforce mirrors the latest state hash and card count onto a project
// record. It stores only the proof metadata, not the document.
type Salesforce struct {
	AccessToken string
	InstanceURL string

	// SObject is the object type receiving the update.
	// Defaults to "BlackRoad_Project__c".
	SObject string

	Client *http.Client
}

func (t *Salesforce) Name() string { return "salesforce" }

func (t *Salesforce) Configured() bool {
	return t.AccessToken != "" && t.InstanceURL != ""
}

func (t *Salesforce) Push(ctx context.Context, doc state.Document, rec integrity.Record) error {
	sobject := t.SObject
	if sobject == "" {
		sobject = "BlackRoad_Project__c"
	}

	payload := map[string]any{
		"Kanban_State_Hash__c": rec.SHA256,
		"Last_Sync__c":         rec.Timestamp,
		"Active_Cards__c":      totalCards(doc),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("salesforce: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/services/data/v59.0/sobjects/%s", t.InstanceURL, sobject)
	headers := map[string]string{
		"Authorization": "Bearer " + t.AccessToken,
	}

	resp, err := doJSON(ctx, httpClient(t.Client), http.MethodPost, url, headers, body)
	if err != nil {
		return fmt.Errorf("salesforce: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return statusErr("salesforce", resp, http.StatusCreated)
	}
	return nil
}

// totalCards reads statistics.total_cards, defaulting to 0 when absent.
func totalCards(doc state.Document) int64 {
	stats, ok := doc["statistics"].(state.Object)
	if !ok {
		return 0
	}
	n, ok := stats["total_cards"].(state.Int)
	if !ok {
		return 0
	}
	return int64(n)
}

package syncer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/blackroad-os/statesync/internal/config"
	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
	"github.com/blackroad-os/statesync/internal/store"
)

// TargetResult records one target's outcome within a run. A target missing
// its credentials is skipped, which does not count as failure: an operator
// syncing from a machine without Salesforce credentials has not lost data.
type TargetResult struct {
	Target  string `json:"target"`
	Synced  bool   `json:"synced"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report summarizes one sync run.
type Report struct {
	RunID      string           `json:"run_id"`
	Record     integrity.Record `json:"record"`
	BackupPath string           `json:"backup_path,omitempty"`
	Results    []TargetResult   `json:"results"`
	AllSynced  bool             `json:"all_synced"`
}

// Engine runs the record lifecycle end to end. The state file is the only
// shared resource; the engine owns the read/modify/write cycle around the
// pure core (backup, sign, push, save).
type Engine struct {
	Config  config.Config
	Signer  *integrity.Signer
	History *store.Store // optional snapshot history

	// now overrides the clock in tests.
	now func() time.Time
}

// NewEngine builds an engine from configuration.
func NewEngine(cfg config.Config) *Engine {
	return &Engine{
		Config: cfg,
		Signer: &integrity.Signer{Depth: cfg.ChainDepth, Policy: cfg.Depth},
	}
}

func (e *Engine) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

// Sync loads the state document, backs it up, signs it, pushes it to each
// target, stamps per-target sync status into the document, and saves it
// atomically. Individual target failures are reported per target and do not
// abort the rest of the run; only local failures (load, sign, save) do.
func (e *Engine) Sync(ctx context.Context, targets []Target) (*Report, error) {
	doc, err := state.LoadFile(e.Config.StateFile)
	if err != nil {
		return nil, err
	}

	backupPath, err := Backup(e.Config.BackupDir, doc, e.clock())
	if err != nil {
		return nil, err
	}
	if _, err := PruneBackups(e.Config.BackupDir, e.Config.BackupKeep); err != nil {
		return nil, err
	}

	signed, rec, err := e.Signer.Sign(doc)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:      uuid.NewString(),
		Record:     rec,
		BackupPath: backupPath,
		AllSynced:  true,
	}

	for _, target := range targets {
		result := TargetResult{Target: target.Name()}
		switch {
		case !target.Configured():
			result.Skipped = true
		default:
			if err := target.Push(ctx, signed, rec); err != nil {
				result.Error = err.Error()
				report.AllSynced = false
			} else {
				result.Synced = true
			}
		}
		report.Results = append(report.Results, result)
	}

	// Stamping sync_status changes the document bytes, so the file copy is
	// re-signed after stamping. The file on disk must always self-verify.
	final, finalRec, err := e.Signer.Sign(stampSyncStatus(signed, report))
	if err != nil {
		return report, err
	}
	if err := state.SaveFile(e.Config.StateFile, final); err != nil {
		return report, err
	}

	if e.History != nil {
		if _, err := e.History.SaveSnapshot(ctx, final, finalRec); err != nil {
			return report, err
		}
	}

	return report, nil
}

// BuildTargets assembles the targets selected by name. "all" (or an empty
// selection) yields every known target; unconfigured ones are still
// included so the report shows them as skipped.
func BuildTargets(cfg config.Config, creds config.Credentials, selection string) []Target {
	all := []Target{
		&CloudflareKV{
			Token:       creds.CloudflareAPIToken,
			AccountID:   creds.CloudflareAccountID,
			NamespaceID: creds.CloudflareKVNamespaceID,
		},
		&GitHubDispatch{
			Token: creds.GitHubToken,
			Repo:  cfg.GitHubRepo,
		},
		&Salesforce{
			AccessToken: creds.SalesforceAccessToken,
			InstanceURL: creds.SalesforceInstanceURL,
		},
	}

	if selection == "" || selection == "all" {
		if len(cfg.Targets) == 0 {
			return all
		}
		var out []Target
		for _, t := range all {
			for _, name := range cfg.Targets {
				if t.Name() == name {
					out = append(out, t)
				}
			}
		}
		return out
	}

	for _, t := range all {
		if t.Name() == selection {
			return []Target{t}
		}
	}
	return nil
}

// stampSyncStatus records each target's outcome under sync_status.<name>.
func stampSyncStatus(doc state.Document, report *Report) state.Document {
	out := doc.Clone()
	status, ok := out["sync_status"].(state.Object)
	if !ok {
		status = state.Object{}
		out["sync_status"] = status
	}
	for _, r := range report.Results {
		if r.Skipped {
			continue
		}
		status[r.Target] = state.Object{
			"synced":    state.Bool(r.Synced),
			"last_sync": state.String(report.Record.Timestamp),
		}
	}
	return out
}

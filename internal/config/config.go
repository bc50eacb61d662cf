// Package config loads the sync tool's file configuration and per-service
// credentials. Credentials come from the environment exactly once, into an
// explicit struct that is passed into orchestration calls - never read from
// ambient global scope at call sites.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/blackroad-os/statesync/internal/integrity"
)

// Defaults for a repository-local kanban state layout.
const (
	DefaultStateFile = ".kanban/state/current.json"
	DefaultBackupDir = ".kanban/state/backups"
	DefaultHistoryDB = ".kanban/state/history.db"
)

// Config holds file paths and sync tuning. Loaded from a YAML file when one
// exists; every field has a usable default.
type Config struct {
	StateFile  string                `yaml:"state_file"`
	BackupDir  string                `yaml:"backup_dir"`
	HistoryDB  string                `yaml:"history_db"`
	ChainDepth uint32                `yaml:"chain_depth"`
	Depth      integrity.DepthPolicy `yaml:"depth_policy"`

	// Targets restricts which sync targets run when the caller asks for
	// "all". Empty means every configured target.
	Targets []string `yaml:"targets"`

	// BackupKeep is how many timestamped file backups to retain.
	// Zero means keep everything.
	BackupKeep int `yaml:"backup_keep"`

	// GitHubRepo is the owner/name receiving dispatch events.
	GitHubRepo string `yaml:"github_repo"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		StateFile:  DefaultStateFile,
		BackupDir:  DefaultBackupDir,
		HistoryDB:  DefaultHistoryDB,
		ChainDepth: integrity.DefaultDepth,
		Depth:      integrity.DefaultDepthPolicy,
		GitHubRepo: "BlackRoad-OS/blackroad-earth",
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
// A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFile
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = DefaultBackupDir
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = DefaultHistoryDB
	}
	if cfg.ChainDepth == 0 {
		cfg.ChainDepth = integrity.DefaultDepth
	}
	if cfg.Depth == (integrity.DepthPolicy{}) {
		cfg.Depth = integrity.DefaultDepthPolicy
	}
	if cfg.GitHubRepo == "" {
		cfg.GitHubRepo = "BlackRoad-OS/blackroad-earth"
	}
}

// Credentials holds per-service tokens, parsed from the environment once at
// process start.
type Credentials struct {
	CloudflareAPIToken      string `env:"CLOUDFLARE_API_TOKEN"`
	CloudflareAccountID     string `env:"CLOUDFLARE_ACCOUNT_ID"`
	CloudflareKVNamespaceID string `env:"CLOUDFLARE_KV_NAMESPACE_ID"`
	SalesforceAccessToken   string `env:"SALESFORCE_ACCESS_TOKEN"`
	SalesforceInstanceURL   string `env:"SALESFORCE_INSTANCE_URL"`
	GitHubToken             string `env:"GITHUB_TOKEN"`
	VercelToken             string `env:"VERCEL_TOKEN"`
	DigitalOceanToken       string `env:"DIGITALOCEAN_TOKEN"`
	AnthropicAPIKey         string `env:"ANTHROPIC_API_KEY"`
}

// LoadCredentials parses credentials from the environment.
func LoadCredentials() (Credentials, error) {
	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return Credentials{}, fmt.Errorf("parse env: %w", err)
	}
	return creds, nil
}

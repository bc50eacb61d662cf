// Package health probes the configured integrations and the local state
// file, reporting per-check statuses and an overall verdict.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/blackroad-os/statesync/internal/config"
	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Overall is the aggregate verdict across all checks.
type Overall string

const (
	OverallHealthy   Overall = "HEALTHY"
	OverallDegraded  Overall = "DEGRADED"
	OverallUnhealthy Overall = "UNHEALTHY"
)

// Result is one check's outcome.
type Result struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// EndpointCheck describes a single HTTP probe: the check passes when the
// endpoint answers with the expected status code, warns on any other
// response, and fails when the connection itself fails.
type EndpointCheck struct {
	Name    string
	URL     string
	Headers map[string]string
	Expect  int
}

// checkTimeout bounds each probe.
const checkTimeout = 10 * time.Second

// Checker runs integration probes.
type Checker struct {
	Creds  config.Credentials
	Client *http.Client

	// BaseURLs overrides per-service API endpoints in tests, keyed by
	// service name.
	BaseURLs map[string]string
}

func (c *Checker) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return &http.Client{Timeout: checkTimeout}
}

func (c *Checker) base(service, fallback string) string {
	if url, ok := c.BaseURLs[service]; ok {
		return url
	}
	return fallback
}

// Probe runs a single endpoint check.
func (c *Checker) Probe(ctx context.Context, ec EndpointCheck) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ec.URL, nil)
	if err != nil {
		return Result{Name: ec.Name, Status: StatusFail, Detail: err.Error()}
	}
	for k, v := range ec.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return Result{Name: ec.Name, Status: StatusFail, Detail: "connection failed"}
	}
	resp.Body.Close()

	expect := ec.Expect
	if expect == 0 {
		expect = http.StatusOK
	}
	if resp.StatusCode == expect {
		return Result{Name: ec.Name, Status: StatusOK, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return Result{
		Name:   ec.Name,
		Status: StatusWarn,
		Detail: fmt.Sprintf("HTTP %d, expected %d", resp.StatusCode, expect),
	}
}

// CheckLocal inspects the local state file: present, parseable, and
// carrying a verifiable integrity record. A missing record is a warning,
// not a failure - there is simply no baseline yet.
func CheckLocal(stateFile string) []Result {
	doc, err := state.LoadFile(stateFile)
	if err != nil {
		return []Result{{Name: "state file", Status: StatusFail, Detail: err.Error()}}
	}

	results := []Result{{Name: "state file", Status: StatusOK, Detail: stateFile}}

	res, err := integrity.Verify(doc)
	switch {
	case err != nil:
		results = append(results, Result{Name: "state integrity", Status: StatusFail, Detail: err.Error()})
	case res.Outcome == integrity.OutcomeMissingRecord:
		results = append(results, Result{Name: "state integrity", Status: StatusWarn, Detail: "no integrity record to verify against"})
	case res.OverallValid:
		results = append(results, Result{Name: "state integrity", Status: StatusOK, Detail: fmt.Sprintf("verified at depth %d", res.ChainDepth)})
	default:
		results = append(results, Result{Name: "state integrity", Status: StatusFail, Detail: string(res.Outcome)})
	}
	return results
}

// Summarize reduces check results to an overall verdict: any failure is
// UNHEALTHY, any warning is DEGRADED, otherwise HEALTHY.
func Summarize(results []Result) Overall {
	overall := OverallHealthy
	for _, r := range results {
		switch r.Status {
		case StatusFail:
			return OverallUnhealthy
		case StatusWarn:
			overall = OverallDegraded
		}
	}
	return overall
}

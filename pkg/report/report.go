// Package report renders the machine-readable record of one test run for
// archival and lab dashboards.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/denisbrodbeck/machineid"

	"github.com/firmworks/hiltest.go/pkg/runner"
)

// Report is the record of one test run.
type Report struct {
	Station     string    `json:"station"`
	Platform    string    `json:"platform"`
	Image       string    `json:"image"`
	Verdict     string    `json:"verdict"`
	Reason      string    `json:"reason,omitempty"`
	Errors      int       `json:"errors"`
	Warnings    int       `json:"warnings"`
	AssertFails int       `json:"assert_fails"`
	DurationSec float64   `json:"duration_s"`
	Time        time.Time `json:"time"`
}

// New assembles a Report from a run Result.
func New(platformID, imagePath string, res runner.Result) *Report {
	r := &Report{
		Station:     StationID(),
		Platform:    platformID,
		Image:       filepath.Base(imagePath),
		Verdict:     res.Verdict.String(),
		DurationSec: res.Duration.Seconds(),
		Time:        time.Now().UTC(),
	}
	if res.Session != nil {
		r.Reason = res.Session.Reason.String()
		r.Errors = res.Session.Counters.Errors
		r.Warnings = res.Session.Counters.Warnings
		r.AssertFails = res.Session.Counters.AssertFails
	}
	return r
}

// Encode renders the report as JSON.
func (r *Report) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// StationID identifies the host running the tests, stable across reboots.
// Falls back to the hostname when no machine id is available.
func StationID() string {
	if id, err := machineid.ProtectedID("hiltest"); err == nil && len(id) >= 12 {
		return id[:12]
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

package auditlog

import "time"

// OutcomeSuccess marks entries recorded outside an apply exchange, such
// as dry runs. Apply attempts store the execution outcome taxonomy
// verbatim (success/auth_failure/connectivity_failure/server_rejected).
const OutcomeSuccess = "success"

// Entry represents a persisted audit event for one zone operation.
type Entry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	Zone       string    `json:"zone,omitempty"`
	Server     string    `json:"server,omitempty"`
	DryRun     bool      `json:"dry_run"`
	Adds       int       `json:"adds"`
	Deletes    int       `json:"deletes"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

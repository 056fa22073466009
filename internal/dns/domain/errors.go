package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the DNS packages so callers can classify
// failures without importing transport-specific code.
var (
	// ErrZoneNotFound indicates the named zone is not present in the
	// configuration.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrKeyNotFound indicates no TSIG secret is stored for a key name.
	ErrKeyNotFound = errors.New("tsig key not found")
)

// ValidationError reports a record or zone that violates a construction
// rule. It always names the offending field and the rule that rejected
// it. Validation failures are local and never retried.
type ValidationError struct {
	// Field is the offending field, e.g. "ttl" or "srv.port".
	Field string

	// Rule is the constraint that failed, e.g. "minimum 60 seconds".
	Rule string

	// Detail describes the rejected value.
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%s): %s", e.Field, e.Rule, e.Detail)
}

// PlanningError reports an impossible diff or plan state, such as a CNAME
// coexistence conflict that slipped past zone validation. It indicates a
// bug and halts reconciliation for the zone.
type PlanningError struct {
	Zone   string
	Detail string
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning invariant violated for zone %s: %s", e.Zone, e.Detail)
}

// Outcome classifies the result of submitting an update transaction.
type Outcome string

const (
	// OutcomeSuccess means every primitive in the transaction committed.
	OutcomeSuccess Outcome = "success"

	// OutcomeAuthFailure means the server rejected the TSIG signature or
	// key. Fatal; retrying with the same credentials cannot succeed.
	OutcomeAuthFailure Outcome = "auth_failure"

	// OutcomeConnectivityFailure means the server was unreachable or the
	// exchange timed out. The caller may retry after re-querying state;
	// the core never retries on its own.
	OutcomeConnectivityFailure Outcome = "connectivity_failure"

	// OutcomeServerRejected means the server refused the update as
	// malformed or policy-violating. Fatal for this plan.
	OutcomeServerRejected Outcome = "server_rejected"
)

// ExecutionError reports a failed apply attempt with enough structure for
// the caller to decide on remediation. A failed apply leaves live state
// unknown: re-run the state query and diff before any further action.
type ExecutionError struct {
	// Outcome is the failure classification.
	Outcome Outcome

	// Zone is the zone the transaction targeted.
	Zone string

	// Detail carries the raw server response code or transport error.
	Detail string

	// Err is the underlying error, if any.
	Err error
}

func (e *ExecutionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("update for zone %s failed (%s): %s", e.Zone, e.Outcome, e.Detail)
	}
	return fmt.Sprintf("update for zone %s failed (%s)", e.Zone, e.Outcome)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

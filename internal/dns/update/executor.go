// Package update submits a plan to the authoritative server as one
// atomic transaction.
//
// The Submitter interface is the I/O boundary; the production
// implementation speaks RFC 2136 with TSIG (client.go) and tests
// substitute a fake. The executor never retries and never resubmits a
// failed plan: after a failed apply the live state is unknown, so the
// caller must re-query and re-diff before acting again.
package update

import (
	"context"
	"errors"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/dns/plan"
)

// Submitter submits one plan as a single transaction. A nil return means
// every primitive committed; failures are reported as
// *domain.ExecutionError.
type Submitter interface {
	Submit(ctx context.Context, p plan.Plan) error
}

// Executor serializes plans and drives the Submitter.
type Executor struct {
	submitter Submitter
}

// NewExecutor returns an Executor backed by the given Submitter.
func NewExecutor(submitter Submitter) *Executor {
	return &Executor{submitter: submitter}
}

// DryRun renders the plan's update script without performing any network
// I/O. It cannot fail: validation happened when the zone was built.
func (e *Executor) DryRun(p plan.Plan) string {
	return p.Render()
}

// Apply submits the plan and classifies the outcome. The plan is never
// mutated and never partially resubmitted; cancelling an in-flight apply
// is unsafe because the transaction may already be committing, so ctx
// should only carry a deadline, not an eager cancel.
func (e *Executor) Apply(ctx context.Context, p plan.Plan) error {
	if p.IsEmpty() {
		return nil
	}

	err := e.submitter.Submit(ctx, p)
	if err == nil {
		return nil
	}

	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		return err
	}
	// Submitters classify their own failures; anything unclassified is a
	// transport-level surprise.
	return &domain.ExecutionError{
		Outcome: domain.OutcomeConnectivityFailure,
		Zone:    p.Zone.Name,
		Detail:  err.Error(),
		Err:     err,
	}
}

// Package services provides the reconciliation service layer.
//
// The Reconciler wires the pure diff and plan stages to the two I/O
// boundaries (state query and update submission) and records an audit
// entry per apply attempt. CLI commands construct a Reconciler from
// resolved collaborators and call it rather than driving the stages
// directly.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/zoneup/internal/auditlog"
	"nathanbeddoewebdev/zoneup/internal/dns/diff"
	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/dns/plan"
	"nathanbeddoewebdev/zoneup/internal/dns/query"
	"nathanbeddoewebdev/zoneup/internal/dns/update"
)

// Reconciler runs the check/apply pipeline for one zone at a time.
// Independent zones may be reconciled concurrently; callers must not run
// two operations against the same zone at once (advisory locking is the
// caller's job, typically one invocation per zone).
type Reconciler struct {
	query    *query.Service
	executor *update.Executor
	audit    auditlog.Repository
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithAudit records an audit entry for every apply attempt. Audit
// persistence failures never fail the operation itself.
func WithAudit(repo auditlog.Repository) Option {
	return func(r *Reconciler) { r.audit = repo }
}

// New returns a Reconciler using the given query service and executor.
func New(q *query.Service, e *update.Executor, opts ...Option) *Reconciler {
	r := &Reconciler{query: q, executor: e}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CheckResult is everything a single reconciliation pass produced: the
// classification of desired vs observed records, the plan that would
// reconcile them, and any non-fatal lookup warnings.
type CheckResult struct {
	Diff     diff.Diff
	Plan     plan.Plan
	Warnings []query.QueryWarning
}

// Check validates the zone, queries live state, and computes the diff
// and plan. It performs read-only I/O; nothing is submitted.
func (r *Reconciler) Check(ctx context.Context, zone domain.Zone) (CheckResult, error) {
	if err := zone.Validate(); err != nil {
		return CheckResult{}, fmt.Errorf("zone %s: %w", zone.Name, err)
	}

	state, err := r.query.State(ctx, zone)
	if err != nil {
		return CheckResult{}, fmt.Errorf("query state for zone %s: %w", zone.Name, err)
	}

	d, err := diff.Compute(zone, state.Records)
	if err != nil {
		return CheckResult{}, err
	}

	return CheckResult{
		Diff:     d,
		Plan:     plan.Build(zone, d),
		Warnings: state.Warnings,
	}, nil
}

// DryRun renders the script for a previously computed plan. No network
// I/O is performed.
func (r *Reconciler) DryRun(p plan.Plan) string {
	return r.executor.DryRun(p)
}

// Apply submits the plan as one atomic transaction and records the
// attempt in the audit log. A failed apply leaves the live state
// unknown; callers must run Check again before anything else — the plan
// must not be resubmitted.
func (r *Reconciler) Apply(ctx context.Context, p plan.Plan) error {
	start := time.Now()
	err := r.executor.Apply(ctx, p)
	r.recordApply(p, err, time.Since(start))
	return err
}

func (r *Reconciler) recordApply(p plan.Plan, applyErr error, took time.Duration) {
	if r.audit == nil {
		return
	}

	deletes, adds := p.Counts()
	entry := &auditlog.Entry{
		Command:    "apply",
		Zone:       p.Zone.Name,
		Server:     p.Zone.Server,
		Deletes:    deletes,
		Adds:       adds,
		Outcome:    string(domain.OutcomeSuccess),
		DurationMs: took.Milliseconds(),
	}
	if applyErr != nil {
		entry.Outcome = string(outcomeOf(applyErr))
		entry.Detail = applyErr.Error()
	}
	// Best effort: a full audit log must not block DNS management.
	_ = r.audit.Save(entry)
}

func outcomeOf(err error) domain.Outcome {
	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Outcome
	}
	return domain.OutcomeConnectivityFailure
}

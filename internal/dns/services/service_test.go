package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"nathanbeddoewebdev/zoneup/internal/auditlog"
	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/dns/plan"
	"nathanbeddoewebdev/zoneup/internal/dns/query"
	"nathanbeddoewebdev/zoneup/internal/dns/update"
	"nathanbeddoewebdev/zoneup/internal/retry"
)

// --- Fakes ---

type fakeLookuper struct {
	answers map[string][]domain.ObservedRecord
}

func (f *fakeLookuper) Lookup(_ context.Context, _ domain.Zone, label string, rtype domain.RecordType) ([]domain.ObservedRecord, error) {
	return f.answers[label+"/"+string(rtype)], nil
}

type fakeSubmitter struct {
	err   error
	calls int
}

func (f *fakeSubmitter) Submit(_ context.Context, _ plan.Plan) error {
	f.calls++
	return f.err
}

func testZone() domain.Zone {
	return domain.Zone{
		Name:       "example.com",
		Server:     "ns1.example.com",
		KeyName:    "tsig-example.com.",
		DefaultTTL: 3600,
		Records: []domain.Record{
			{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.10"},
		},
	}
}

func newTestReconciler(t *testing.T, lookuper query.Lookuper, submitter update.Submitter) (*Reconciler, *auditlog.SQLiteRepository) {
	t.Helper()

	repo, err := auditlog.OpenAt(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	q := query.New(lookuper, query.WithRetry(retry.Config{MaxAttempts: 1}))
	return New(q, update.NewExecutor(submitter), WithAudit(repo)), repo
}

// --- Tests ---

func TestCheckComputesPlan(t *testing.T) {
	lookuper := &fakeLookuper{answers: map[string][]domain.ObservedRecord{}}
	reconciler, _ := newTestReconciler(t, lookuper, &fakeSubmitter{})

	result, err := reconciler.Check(context.Background(), testZone())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if len(result.Diff.ToCreate) != 1 {
		t.Fatalf("ToCreate = %d, want 1", len(result.Diff.ToCreate))
	}
	deletes, adds := result.Plan.Counts()
	if deletes != 0 || adds != 1 {
		t.Errorf("plan counts = %d deletes, %d adds; want 0, 1", deletes, adds)
	}
}

func TestCheckUpToDateZone(t *testing.T) {
	lookuper := &fakeLookuper{answers: map[string][]domain.ObservedRecord{
		"www/A": {{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.10", TTL: 3600}},
	}}
	reconciler, _ := newTestReconciler(t, lookuper, &fakeSubmitter{})

	result, err := reconciler.Check(context.Background(), testZone())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Diff.HasChanges() {
		t.Errorf("HasChanges() = true for matching state: %+v", result.Diff)
	}
	if !result.Plan.IsEmpty() {
		t.Errorf("plan not empty for matching state")
	}
}

func TestCheckRejectsInvalidZone(t *testing.T) {
	reconciler, _ := newTestReconciler(t, &fakeLookuper{}, &fakeSubmitter{})

	zone := testZone()
	zone.KeyName = ""
	if _, err := reconciler.Check(context.Background(), zone); err == nil {
		t.Fatal("Check() = nil error for invalid zone")
	}
}

func TestApplyRecordsAuditEntry(t *testing.T) {
	lookuper := &fakeLookuper{}
	submitter := &fakeSubmitter{}
	reconciler, repo := newTestReconciler(t, lookuper, submitter)

	result, err := reconciler.Check(context.Background(), testZone())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if err := reconciler.Apply(context.Background(), result.Plan); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	entries, err := repo.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Zone != "example.com" || entry.Outcome != string(domain.OutcomeSuccess) {
		t.Errorf("entry = %+v, want success for example.com", entry)
	}
	if entry.Adds != 1 || entry.Deletes != 0 {
		t.Errorf("entry counts = +%d/-%d, want +1/-0", entry.Adds, entry.Deletes)
	}
}

func TestApplyRecordsFailureOutcome(t *testing.T) {
	submitter := &fakeSubmitter{err: &domain.ExecutionError{
		Outcome: domain.OutcomeAuthFailure,
		Zone:    "example.com",
		Detail:  "BADSIG",
	}}
	reconciler, repo := newTestReconciler(t, &fakeLookuper{}, submitter)

	result, err := reconciler.Check(context.Background(), testZone())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	applyErr := reconciler.Apply(context.Background(), result.Plan)
	if applyErr == nil {
		t.Fatal("Apply() = nil, want error")
	}
	var execErr *domain.ExecutionError
	if !errors.As(applyErr, &execErr) || execErr.Outcome != domain.OutcomeAuthFailure {
		t.Fatalf("Apply() error = %v, want auth failure", applyErr)
	}

	entries, err := repo.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if entries[0].Outcome != string(domain.OutcomeAuthFailure) {
		t.Errorf("entry outcome = %q, want %q", entries[0].Outcome, domain.OutcomeAuthFailure)
	}
}

func TestDryRunDoesNotSubmitOrAudit(t *testing.T) {
	submitter := &fakeSubmitter{}
	reconciler, repo := newTestReconciler(t, &fakeLookuper{}, submitter)

	result, err := reconciler.Check(context.Background(), testZone())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	script := reconciler.DryRun(result.Plan)
	if script == "" {
		t.Error("DryRun() returned empty script for non-empty plan")
	}
	if submitter.calls != 0 {
		t.Errorf("DryRun reached the submitter %d times", submitter.calls)
	}

	entries, err := repo.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("DryRun wrote %d audit entries", len(entries))
	}
}

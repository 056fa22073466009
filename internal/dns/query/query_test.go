package query

import (
	"context"
	"errors"
	"testing"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/retry"

	"github.com/google/go-cmp/cmp"
)

// fakeLookuper serves canned answers keyed by "label/type" and records
// every lookup it receives.
type fakeLookuper struct {
	answers map[string][]domain.ObservedRecord
	errs    map[string]error
	calls   []string

	// failuresBeforeSuccess makes a key fail n times, then succeed.
	failuresBeforeSuccess map[string]int
}

// timeoutError satisfies net.Error so the retry predicate treats it as
// transient.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func key(label string, rtype domain.RecordType) string {
	return label + "/" + string(rtype)
}

func (f *fakeLookuper) Lookup(_ context.Context, _ domain.Zone, label string, rtype domain.RecordType) ([]domain.ObservedRecord, error) {
	k := key(label, rtype)
	f.calls = append(f.calls, k)

	if n, ok := f.failuresBeforeSuccess[k]; ok && n > 0 {
		f.failuresBeforeSuccess[k] = n - 1
		return nil, timeoutError{}
	}
	if err, ok := f.errs[k]; ok {
		return nil, err
	}
	return f.answers[k], nil
}

func testZone() domain.Zone {
	return domain.Zone{
		Name:    "example.com",
		Server:  "ns1.example.com",
		KeyName: "tsig-example.com.",
		Records: []domain.Record{
			{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.10"},
			{Label: "@", Type: domain.RecordTypeTXT, Value: "v=spf1 mx -all"},
		},
	}
}

// immediate retries keep the tests fast.
func immediateRetry(attempts int) Option {
	return WithRetry(retry.Config{MaxAttempts: attempts})
}

func TestStateQueriesEveryLabelAndType(t *testing.T) {
	lookuper := &fakeLookuper{}
	svc := New(lookuper, immediateRetry(1))

	_, err := svc.State(context.Background(), testZone())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}

	wantCalls := len(testZone().Labels()) * len(domain.AllRecordTypes)
	if len(lookuper.calls) != wantCalls {
		t.Errorf("got %d lookups, want %d", len(lookuper.calls), wantCalls)
	}

	// Undeclared labels are never queried.
	for _, call := range lookuper.calls {
		if call[:1] != "@" && call[:3] != "www" {
			t.Errorf("unexpected lookup %q for undeclared label", call)
		}
	}
}

func TestStateCollectsAndSortsRecords(t *testing.T) {
	lookuper := &fakeLookuper{
		answers: map[string][]domain.ObservedRecord{
			key("www", domain.RecordTypeA): {
				{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.20", TTL: 300},
				{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.10", TTL: 300},
			},
			key("@", domain.RecordTypeTXT): {
				{Label: "@", Type: domain.RecordTypeTXT, Value: "v=spf1 mx -all", TTL: 3600},
			},
		},
	}
	svc := New(lookuper, immediateRetry(1))

	res, err := svc.State(context.Background(), testZone())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}

	want := []domain.ObservedRecord{
		{Label: "@", Type: domain.RecordTypeTXT, Value: "v=spf1 mx -all", TTL: 3600},
		{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.10", TTL: 300},
		{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.20", TTL: 300},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestStatePersistentFailureBecomesWarning(t *testing.T) {
	lookuper := &fakeLookuper{
		errs: map[string]error{
			key("www", domain.RecordTypeA): errors.New("connection refused"),
		},
		answers: map[string][]domain.ObservedRecord{
			key("@", domain.RecordTypeTXT): {
				{Label: "@", Type: domain.RecordTypeTXT, Value: "v=spf1 mx -all", TTL: 3600},
			},
		},
	}
	svc := New(lookuper, immediateRetry(1))

	res, err := svc.State(context.Background(), testZone())
	if err != nil {
		t.Fatalf("State() error = %v, want warnings instead", err)
	}

	if len(res.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Label != "www" || w.Type != domain.RecordTypeA {
		t.Errorf("warning = %+v, want www/A", w)
	}

	// The rest of the inventory still resolved.
	if len(res.Records) != 1 || res.Records[0].Label != "@" {
		t.Errorf("records = %+v, want the TXT record despite the failed lookup", res.Records)
	}
}

func TestStateRetriesTransientFailures(t *testing.T) {
	lookuper := &fakeLookuper{
		failuresBeforeSuccess: map[string]int{
			key("www", domain.RecordTypeA): 1,
		},
		answers: map[string][]domain.ObservedRecord{
			key("www", domain.RecordTypeA): {
				{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.10", TTL: 300},
			},
		},
	}
	// Retry everything, no delay.
	svc := New(lookuper, WithRetry(retry.Config{MaxAttempts: 2}))

	zone := testZone()
	zone.Records = zone.Records[:1] // only www

	res, err := svc.State(context.Background(), zone)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings = %v, want retry to succeed", res.Warnings)
	}
	if len(res.Records) != 1 {
		t.Errorf("records = %+v, want one A record", res.Records)
	}
}

func TestStateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New(&fakeLookuper{}, immediateRetry(1))
	_, err := svc.State(ctx, testZone())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("State() error = %v, want context.Canceled", err)
	}
}

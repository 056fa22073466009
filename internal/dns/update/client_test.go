package update

import (
	"context"
	"errors"
	"testing"

	"github.com/miekg/dns"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/dns/plan"
)

func planFor(zone domain.Zone, ops ...plan.Op) plan.Plan {
	return plan.Plan{Zone: zone, Ops: ops}
}

func tsigZone() domain.Zone {
	return domain.Zone{
		Name:         "example.com",
		Server:       "ns1.example.com",
		KeyName:      "tsig-example.com.",
		KeyAlgorithm: "hmac-sha256",
	}
}

func TestSubmitUnsupportedAlgorithmIsAuthFailure(t *testing.T) {
	client := NewClient(func(string) (string, error) { return "c2VjcmV0", nil }, 0)

	zone := tsigZone()
	zone.KeyAlgorithm = "hmac-md5"
	err := client.Submit(context.Background(), planFor(zone))

	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.Outcome != domain.OutcomeAuthFailure {
		t.Errorf("Outcome = %v, want %v", execErr.Outcome, domain.OutcomeAuthFailure)
	}
}

func TestSubmitMissingSecretIsAuthFailure(t *testing.T) {
	notFound := errors.New("secret not found")
	client := NewClient(func(string) (string, error) { return "", notFound }, 0)

	err := client.Submit(context.Background(), planFor(tsigZone()))

	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.Outcome != domain.OutcomeAuthFailure {
		t.Errorf("Outcome = %v, want %v", execErr.Outcome, domain.OutcomeAuthFailure)
	}
	if !errors.Is(err, notFound) {
		t.Errorf("execution error does not wrap the store error")
	}
}

func TestBuildUpdateMsg(t *testing.T) {
	zone := tsigZone()
	p := planFor(zone,
		plan.Op{Kind: plan.OpDelete, Record: domain.Record{Label: "old", Type: domain.RecordTypeA, Value: "198.51.100.1"}},
		plan.Op{Kind: plan.OpAdd, Record: domain.Record{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.10", TTL: 3600}},
		plan.Op{Kind: plan.OpAdd, Record: domain.Record{Label: "@", Type: domain.RecordTypeMX, Value: "mail.example.com", TTL: 3600, MX: &domain.MXData{Preference: 10}}},
	)

	msg, err := buildUpdateMsg(p)
	if err != nil {
		t.Fatalf("buildUpdateMsg() error = %v", err)
	}

	if msg.Question[0].Name != "example.com." {
		t.Errorf("update zone = %q, want %q", msg.Question[0].Name, "example.com.")
	}
	if len(msg.Ns) != 3 {
		t.Fatalf("update section has %d RRs, want 3", len(msg.Ns))
	}

	// Remove ops use class NONE per the update protocol.
	if msg.Ns[0].Header().Class != dns.ClassNONE {
		t.Errorf("delete op class = %d, want ClassNONE", msg.Ns[0].Header().Class)
	}
	if msg.Ns[1].Header().Class != dns.ClassINET {
		t.Errorf("add op class = %d, want ClassINET", msg.Ns[1].Header().Class)
	}

	mx, ok := msg.Ns[2].(*dns.MX)
	if !ok {
		t.Fatalf("third RR type = %T, want *dns.MX", msg.Ns[2])
	}
	if mx.Preference != 10 || mx.Mx != "mail.example.com." {
		t.Errorf("MX RR = %d %q, want 10 %q", mx.Preference, mx.Mx, "mail.example.com.")
	}
}

func TestBuildUpdateMsgRejectsBadRdata(t *testing.T) {
	p := planFor(tsigZone(),
		plan.Op{Kind: plan.OpAdd, Record: domain.Record{Label: "www", Type: domain.RecordTypeA, Value: "not-an-ip", TTL: 3600}},
	)
	if _, err := buildUpdateMsg(p); err == nil {
		t.Fatal("buildUpdateMsg() = nil error for invalid rdata")
	}
}

func TestClassifyRcode(t *testing.T) {
	tests := []struct {
		rcode   int
		outcome domain.Outcome
		ok      bool
	}{
		{dns.RcodeSuccess, "", true},
		{dns.RcodeNotAuth, domain.OutcomeAuthFailure, false},
		{dns.RcodeBadSig, domain.OutcomeAuthFailure, false},
		{dns.RcodeBadKey, domain.OutcomeAuthFailure, false},
		{dns.RcodeBadTime, domain.OutcomeAuthFailure, false},
		{dns.RcodeRefused, domain.OutcomeServerRejected, false},
		{dns.RcodeFormatError, domain.OutcomeServerRejected, false},
		{dns.RcodeServerFailure, domain.OutcomeServerRejected, false},
	}

	for _, tt := range tests {
		t.Run(dns.RcodeToString[tt.rcode], func(t *testing.T) {
			err := classifyRcode("example.com", tt.rcode)
			if tt.ok {
				if err != nil {
					t.Fatalf("classifyRcode() = %v, want nil", err)
				}
				return
			}
			var execErr *domain.ExecutionError
			if !errors.As(err, &execErr) {
				t.Fatalf("error type = %T, want *ExecutionError", err)
			}
			if execErr.Outcome != tt.outcome {
				t.Errorf("Outcome = %v, want %v", execErr.Outcome, tt.outcome)
			}
		})
	}
}

func TestClassifyExchangeError(t *testing.T) {
	err := classifyExchangeError("example.com", dns.ErrSig)
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.Outcome != domain.OutcomeAuthFailure {
		t.Errorf("TSIG error Outcome = %v, want %v", execErr.Outcome, domain.OutcomeAuthFailure)
	}

	err = classifyExchangeError("example.com", errors.New("connection refused"))
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.Outcome != domain.OutcomeConnectivityFailure {
		t.Errorf("transport error Outcome = %v, want %v", execErr.Outcome, domain.OutcomeConnectivityFailure)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ns1.example.com", "ns1.example.com:53"},
		{"ns1.example.com:5353", "ns1.example.com:5353"},
		{"192.0.2.1", "192.0.2.1:53"},
		{"[2001:db8::1]:53", "[2001:db8::1]:53"},
	}
	for _, tt := range tests {
		if got := serverAddr(tt.in); got != tt.want {
			t.Errorf("serverAddr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

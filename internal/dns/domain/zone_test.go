package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func validZone() Zone {
	return Zone{
		Name:    "example.com",
		Server:  "ns1.example.com",
		KeyName: "tsig-example.com.",
		Records: []Record{
			{Label: "@", Type: RecordTypeA, Value: "203.0.113.10"},
			{Label: "www", Type: RecordTypeCNAME, Value: "@"},
		},
	}
}

func TestZoneValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Zone)
		wantErr bool
	}{
		{
			name:   "valid zone",
			mutate: func(z *Zone) {},
		},
		{
			name:    "missing name",
			mutate:  func(z *Zone) { z.Name = "" },
			wantErr: true,
		},
		{
			name:    "missing server",
			mutate:  func(z *Zone) { z.Server = "" },
			wantErr: true,
		},
		{
			name:    "missing key name",
			mutate:  func(z *Zone) { z.KeyName = "" },
			wantErr: true,
		},
		{
			name:    "default ttl below floor",
			mutate:  func(z *Zone) { z.DefaultTTL = 30 },
			wantErr: true,
		},
		{
			name: "duplicate record",
			mutate: func(z *Zone) {
				z.Records = append(z.Records, Record{Label: "@", Type: RecordTypeA, Value: "203.0.113.10"})
			},
			wantErr: true,
		},
		{
			name: "same value different ttl is still duplicate",
			mutate: func(z *Zone) {
				z.Records = append(z.Records, Record{Label: "@", Type: RecordTypeA, Value: "203.0.113.10", TTL: 300})
			},
			wantErr: true,
		},
		{
			name: "two MX records with different preferences",
			mutate: func(z *Zone) {
				z.Records = append(z.Records,
					Record{Label: "@", Type: RecordTypeMX, Value: "mail.example.com", MX: &MXData{Preference: 10}},
					Record{Label: "@", Type: RecordTypeMX, Value: "backup.example.com", MX: &MXData{Preference: 20}},
				)
			},
		},
		{
			name: "two CNAMEs at one label",
			mutate: func(z *Zone) {
				z.Records = append(z.Records, Record{Label: "www", Type: RecordTypeCNAME, Value: "other.example.com"})
			},
			wantErr: true,
		},
		{
			name: "CNAME next to another type",
			mutate: func(z *Zone) {
				z.Records = append(z.Records, Record{Label: "www", Type: RecordTypeTXT, Value: "hello"})
			},
			wantErr: true,
		},
		{
			name: "invalid record rejected",
			mutate: func(z *Zone) {
				z.Records = append(z.Records, Record{Label: "mail", Type: RecordTypeA, Value: "not-an-ip"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone := validZone()
			tt.mutate(&zone)

			err := zone.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestZoneFQDN(t *testing.T) {
	zone := Zone{Name: "example.com"}

	tests := []struct {
		label string
		want  string
	}{
		{"@", "example.com."},
		{"www", "www.example.com."},
		{"_sip._tcp", "_sip._tcp.example.com."},
	}
	for _, tt := range tests {
		if got := zone.FQDN(tt.label); got != tt.want {
			t.Errorf("FQDN(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}

	// A dot-terminated zone name must not double the dot.
	zone.Name = "example.com."
	if got := zone.FQDN("www"); got != "www.example.com." {
		t.Errorf("FQDN with dot-terminated zone = %q, want %q", got, "www.example.com.")
	}
}

func TestZoneLabels(t *testing.T) {
	zone := validZone()
	zone.Records = append(zone.Records,
		Record{Label: "@", Type: RecordTypeTXT, Value: "v=spf1 mx -all"},
		Record{Label: "mail", Type: RecordTypeA, Value: "203.0.113.20"},
	)

	want := []string{"@", "mail", "www"}
	if diff := cmp.Diff(want, zone.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
}

func TestZoneDeclaresApexNS(t *testing.T) {
	zone := validZone()
	if zone.DeclaresApexNS() {
		t.Error("DeclaresApexNS() = true for zone without apex NS")
	}

	zone.Records = append(zone.Records, Record{Label: "delegated", Type: RecordTypeNS, Value: "ns1.other.example"})
	if zone.DeclaresApexNS() {
		t.Error("DeclaresApexNS() = true for non-apex NS record")
	}

	zone.Records = append(zone.Records, Record{Label: "@", Type: RecordTypeNS, Value: "ns1.example.com"})
	if !zone.DeclaresApexNS() {
		t.Error("DeclaresApexNS() = false for zone with apex NS")
	}
}

func TestZoneResolvedDefaultTTL(t *testing.T) {
	zone := validZone()
	if got := zone.ResolvedDefaultTTL(); got != DefaultZoneTTL {
		t.Errorf("ResolvedDefaultTTL() = %d, want %d", got, DefaultZoneTTL)
	}
	zone.DefaultTTL = 600
	if got := zone.ResolvedDefaultTTL(); got != 600 {
		t.Errorf("ResolvedDefaultTTL() = %d, want 600", got)
	}
}

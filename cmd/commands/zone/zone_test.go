package zone

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/zoneup/internal/config"
	"nathanbeddoewebdev/zoneup/internal/dns/domain"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.yaml"))
	t.Cleanup(config.ResetPath)
}

func seedZone(t *testing.T) domain.Zone {
	t.Helper()
	zone := domain.Zone{
		Name:       "example.com",
		Server:     "ns1.example.com",
		KeyName:    "tsig-example.com.",
		DefaultTTL: 3600,
		Records: []domain.Record{
			{Label: "www", Type: domain.RecordTypeA, Value: "203.0.113.10"},
		},
	}
	cfg := &config.Config{}
	if err := cfg.AddZone(zone, false); err != nil {
		t.Fatalf("AddZone() error = %v", err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return zone
}

// execZone runs the zone command tree with the given args.
func execZone(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestList_ShowsDeclaredZones(t *testing.T) {
	setupTestConfig(t)
	seedZone(t)

	stdout, _, err := execZone(t, "list")
	if err != nil {
		t.Fatalf("zone list error = %v", err)
	}
	if !strings.Contains(stdout, "example.com") || !strings.Contains(stdout, "ns1.example.com") {
		t.Errorf("zone list output missing zone details:\n%s", stdout)
	}
}

func TestList_EmptyConfig(t *testing.T) {
	setupTestConfig(t)

	stdout, _, err := execZone(t, "list")
	if err != nil {
		t.Fatalf("zone list error = %v", err)
	}
	if !strings.Contains(stdout, "No zones declared") {
		t.Errorf("zone list output = %q, want empty-config hint", stdout)
	}
}

func TestShow_PrintsRecords(t *testing.T) {
	setupTestConfig(t)
	seedZone(t)

	stdout, _, err := execZone(t, "show", "example.com")
	if err != nil {
		t.Fatalf("zone show error = %v", err)
	}
	for _, want := range []string{"www", "A", "203.0.113.10", "3600"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("zone show output missing %q:\n%s", want, stdout)
		}
	}
}

func TestShow_NormalizesZoneName(t *testing.T) {
	setupTestConfig(t)
	seedZone(t)

	if _, _, err := execZone(t, "show", "Example.COM."); err != nil {
		t.Errorf("zone show with unnormalized name error = %v", err)
	}
}

func TestShow_UnknownZone(t *testing.T) {
	setupTestConfig(t)
	seedZone(t)

	if _, _, err := execZone(t, "show", "missing.example"); err == nil {
		t.Fatal("zone show for unknown zone succeeded")
	}
}

func TestAddRecord_NonInteractive(t *testing.T) {
	setupTestConfig(t)
	seedZone(t)

	_, _, err := execZone(t, "add-record", "example.com",
		"--label", "@", "--type", "MX", "--value", "mail.example.com", "--preference", "10")
	if err != nil {
		t.Fatalf("zone add-record error = %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	zone, err := cfg.Zone("example.com")
	if err != nil {
		t.Fatalf("Zone() error = %v", err)
	}
	if len(zone.Records) != 2 {
		t.Fatalf("zone has %d records, want 2", len(zone.Records))
	}
	added := zone.Records[1]
	if added.Type != domain.RecordTypeMX || added.MX == nil || added.MX.Preference != 10 {
		t.Errorf("added record = %+v, want MX with preference 10", added)
	}
}

func TestAddRecord_RejectsInvalidRecord(t *testing.T) {
	setupTestConfig(t)
	seedZone(t)

	_, _, err := execZone(t, "add-record", "example.com",
		"--label", "bad", "--type", "A", "--value", "not-an-ip")
	if err == nil {
		t.Fatal("zone add-record accepted an invalid value")
	}

	// Nothing was persisted.
	cfg, _ := config.Load()
	zone, _ := cfg.Zone("example.com")
	if len(zone.Records) != 1 {
		t.Errorf("zone has %d records after failed add, want 1", len(zone.Records))
	}
}

func TestAddRecord_RejectsDuplicate(t *testing.T) {
	setupTestConfig(t)
	seedZone(t)

	_, _, err := execZone(t, "add-record", "example.com",
		"--label", "www", "--type", "A", "--value", "203.0.113.10")
	if err == nil {
		t.Fatal("zone add-record accepted a duplicate record")
	}
}

func TestAddRecord_TypeIsCaseInsensitive(t *testing.T) {
	setupTestConfig(t)
	seedZone(t)

	_, _, err := execZone(t, "add-record", "example.com",
		"--label", "mail", "--type", "a", "--value", "203.0.113.20")
	if err != nil {
		t.Fatalf("zone add-record with lowercase type error = %v", err)
	}
}

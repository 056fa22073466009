package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultZoneTTL is the TTL applied to records that do not set their own
// when the zone itself does not override it.
const DefaultZoneTTL = 3600

// Zone represents a DNS zone managed through transactional updates: the
// zone name, the authoritative server to target, the TSIG key used to
// authenticate updates, and the declared record set.
//
// Zones are loaded from configuration once per operation and never
// mutated in place; any edit produces a new Zone value.
type Zone struct {
	// Name is the FQDN of the zone (e.g. "example.com").
	Name string `yaml:"name"`

	// Server is the authoritative name server updates and queries target.
	// A bare host defaults to port 53.
	Server string `yaml:"server"`

	// KeyName is the TSIG key name used to sign update transactions. The
	// secret itself is stored in the OS keychain, never in configuration.
	KeyName string `yaml:"key_name"`

	// KeyAlgorithm is the TSIG algorithm (e.g. "hmac-sha256").
	KeyAlgorithm string `yaml:"key_algorithm,omitempty"`

	// DefaultTTL applies to records that leave TTL unset.
	DefaultTTL int `yaml:"default_ttl,omitempty"`

	// Notes is an optional human-readable annotation on the zone.
	Notes string `yaml:"notes,omitempty"`

	// Records is the declared record set. Order carries no meaning;
	// consumers sort by (label, type, value) before diffing.
	Records []Record `yaml:"records"`
}

// FQDN returns the fully-qualified, dot-terminated name for one of the
// zone's labels ("@" maps to the zone apex).
func (z Zone) FQDN(label string) string {
	name := strings.TrimSuffix(z.Name, ".")
	if label == Apex {
		return name + "."
	}
	return label + "." + name + "."
}

// Labels returns the distinct labels referenced by the zone's desired
// records, sorted. These are the labels a state query inventories and the
// labels the diff engine is allowed to manage.
func (z Zone) Labels() []string {
	seen := make(map[string]bool, len(z.Records))
	var labels []string
	for _, r := range z.Records {
		if !seen[r.Label] {
			seen[r.Label] = true
			labels = append(labels, r.Label)
		}
	}
	sort.Strings(labels)
	return labels
}

// DeclaresApexNS reports whether the zone explicitly manages NS records
// at the apex. When it does not, observed apex NS records are left alone
// rather than planned for deletion.
func (z Zone) DeclaresApexNS() bool {
	for _, r := range z.Records {
		if r.Type == RecordTypeNS && r.IsApex() {
			return true
		}
	}
	return false
}

// Validate checks zone-level fields and every record, then enforces the
// cross-record invariants: a CNAME must be the only record at its label,
// and no two records may share a full comparison key.
func (z Zone) Validate() error {
	if strings.TrimSpace(z.Name) == "" {
		return &ValidationError{Field: "name", Rule: "required", Detail: "zone name cannot be empty"}
	}
	if strings.TrimSpace(z.Server) == "" {
		return &ValidationError{Field: "server", Rule: "required", Detail: fmt.Sprintf("zone %q has no server", z.Name)}
	}
	if strings.TrimSpace(z.KeyName) == "" {
		return &ValidationError{Field: "key_name", Rule: "required", Detail: fmt.Sprintf("zone %q has no TSIG key name", z.Name)}
	}
	if z.DefaultTTL != 0 && z.DefaultTTL < MinTTL {
		return &ValidationError{Field: "default_ttl", Rule: fmt.Sprintf("minimum %d seconds", MinTTL), Detail: fmt.Sprintf("default_ttl %d below floor", z.DefaultTTL)}
	}

	byLabel := make(map[string][]RecordType)
	keys := make(map[string]bool, len(z.Records))
	for _, r := range z.Records {
		if err := r.Validate(); err != nil {
			return err
		}
		key := r.Key()
		if keys[key] {
			return &ValidationError{Field: "records", Rule: "no duplicate records", Detail: fmt.Sprintf("record %s %s %q declared twice", r.Label, r.Type, r.Value)}
		}
		keys[key] = true
		byLabel[r.Label] = append(byLabel[r.Label], r.Type)
	}

	for label, types := range byLabel {
		var cnames, others int
		for _, t := range types {
			if t == RecordTypeCNAME {
				cnames++
			} else {
				others++
			}
		}
		if cnames > 1 {
			return &ValidationError{Field: "records", Rule: "CNAME is singleton per label", Detail: fmt.Sprintf("label %q declares %d CNAME records", label, cnames)}
		}
		if cnames > 0 && others > 0 {
			return &ValidationError{Field: "records", Rule: "CNAME may not coexist with other types", Detail: fmt.Sprintf("label %q mixes CNAME with another record type", label)}
		}
	}
	return nil
}

// ResolvedDefaultTTL returns the zone default TTL, substituting
// DefaultZoneTTL when unset.
func (z Zone) ResolvedDefaultTTL() int {
	if z.DefaultTTL > 0 {
		return z.DefaultTTL
	}
	return DefaultZoneTTL
}

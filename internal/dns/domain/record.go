// Package domain holds the core DNS data model: validated records, zones,
// and their observed counterparts read back from a live server.
//
// Records are constructed from declared configuration and are immutable
// once validated. Values read back from the network use the separate
// ObservedRecord type so that validation and default-TTL resolution never
// leak into observed data.
package domain

import (
	"fmt"
	"net/netip"
	"sort"
	"strconv"
	"strings"
)

// RecordType represents a DNS record type.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeMX    RecordType = "MX"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeNS    RecordType = "NS"
	RecordTypeCAA   RecordType = "CAA"
)

// AllRecordTypes lists every record type a label could plausibly carry.
// State queries inventory all of them regardless of which types the
// desired zone declares, so the diff can detect extra records of
// unmanaged types.
var AllRecordTypes = []RecordType{
	RecordTypeA,
	RecordTypeAAAA,
	RecordTypeCNAME,
	RecordTypeMX,
	RecordTypeTXT,
	RecordTypeSRV,
	RecordTypeNS,
	RecordTypeCAA,
}

// validRecordTypes is the closed set of supported DNS record types.
var validRecordTypes = map[RecordType]bool{
	RecordTypeA:     true,
	RecordTypeAAAA:  true,
	RecordTypeCNAME: true,
	RecordTypeMX:    true,
	RecordTypeTXT:   true,
	RecordTypeSRV:   true,
	RecordTypeNS:    true,
	RecordTypeCAA:   true,
}

const (
	// MinTTL is the lowest TTL (seconds) accepted for any record or zone
	// default.
	MinTTL = 60

	// MaxTXTLength caps the logical (unsplit) TXT value length. Splitting
	// into 255-byte wire chunks happens in the plan builder, not here.
	MaxTXTLength = 4096

	// Apex is the label used for records at the zone apex.
	Apex = "@"
)

// caaTags is the accepted CAA property tag whitelist.
var caaTags = map[string]bool{
	"issue":     true,
	"issuewild": true,
	"iodef":     true,
}

// MXData carries the MX-specific field.
type MXData struct {
	// Preference orders mail exchangers; lower is preferred. 0-65535.
	Preference int `yaml:"preference"`
}

// SRVData carries the SRV-specific fields.
type SRVData struct {
	// Priority orders targets; lower is tried first. 0-65535.
	Priority int `yaml:"priority"`

	// Weight balances load among targets of equal priority. 0-65535.
	Weight int `yaml:"weight"`

	// Port is the TCP/UDP port of the service. 1-65535.
	Port int `yaml:"port"`
}

// Record represents a single desired DNS record within a zone.
//
// The Type field discriminates which extras payload is legal: MX must be
// set for MX records, SRV for SRV records, and both must be nil for every
// other type. Validate enforces this so illegal combinations never
// survive construction.
type Record struct {
	// Label is the relative record name, or "@" for the zone apex.
	Label string `yaml:"label"`

	// Type is the DNS record type.
	Type RecordType `yaml:"type"`

	// Value is the type-dependent payload: IPv4 literal for A, IPv6
	// literal for AAAA, target name for CNAME/NS/SRV, mail host for MX,
	// free text for TXT, and a "flags tag value" triple for CAA.
	Value string `yaml:"value"`

	// TTL is the time-to-live in seconds. Zero means inherit the zone's
	// default TTL; explicit values must be at least MinTTL.
	TTL int `yaml:"ttl,omitempty"`

	// MX holds the MX-specific field. Set exactly when Type is MX.
	MX *MXData `yaml:"mx,omitempty"`

	// SRV holds the SRV-specific fields. Set exactly when Type is SRV.
	SRV *SRVData `yaml:"srv,omitempty"`
}

// NewRecord constructs a validated Record. It is the only supported way
// to build a Record from raw field values; the returned record is
// immutable by convention.
func NewRecord(label string, rtype RecordType, value string, ttl int, mx *MXData, srv *SRVData) (Record, error) {
	r := Record{Label: label, Type: rtype, Value: value, TTL: ttl, MX: mx, SRV: srv}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// IsApex reports whether the record applies to the zone apex.
func (r Record) IsApex() bool { return r.Label == Apex }

// Validate checks every per-record invariant. Cross-record rules (CNAME
// exclusivity across a zone) live on Zone.Validate.
func (r Record) Validate() error {
	if err := ValidateLabel(r.Label); err != nil {
		return err
	}
	if !validRecordTypes[r.Type] {
		return &ValidationError{Field: "type", Rule: "supported record type", Detail: fmt.Sprintf("unsupported record type %q", r.Type)}
	}
	if r.TTL != 0 && r.TTL < MinTTL {
		return &ValidationError{Field: "ttl", Rule: fmt.Sprintf("minimum %d seconds", MinTTL), Detail: fmt.Sprintf("ttl %d below floor", r.TTL)}
	}
	if r.Type == RecordTypeCNAME && r.IsApex() {
		return &ValidationError{Field: "label", Rule: "CNAME not allowed at zone apex", Detail: "label @ cannot hold a CNAME"}
	}
	if err := r.validateExtras(); err != nil {
		return err
	}
	return r.validateValue()
}

func (r Record) validateExtras() error {
	switch r.Type {
	case RecordTypeMX:
		if r.MX == nil {
			return &ValidationError{Field: "mx", Rule: "required for MX records", Detail: "MX record missing preference"}
		}
		if r.SRV != nil {
			return &ValidationError{Field: "srv", Rule: "only valid for SRV records", Detail: "SRV fields set on MX record"}
		}
		if r.MX.Preference < 0 || r.MX.Preference > 65535 {
			return &ValidationError{Field: "mx.preference", Rule: "0-65535", Detail: fmt.Sprintf("preference %d out of range", r.MX.Preference)}
		}
	case RecordTypeSRV:
		if r.SRV == nil {
			return &ValidationError{Field: "srv", Rule: "required for SRV records", Detail: "SRV record missing priority/weight/port"}
		}
		if r.MX != nil {
			return &ValidationError{Field: "mx", Rule: "only valid for MX records", Detail: "MX fields set on SRV record"}
		}
		if r.SRV.Priority < 0 || r.SRV.Priority > 65535 {
			return &ValidationError{Field: "srv.priority", Rule: "0-65535", Detail: fmt.Sprintf("priority %d out of range", r.SRV.Priority)}
		}
		if r.SRV.Weight < 0 || r.SRV.Weight > 65535 {
			return &ValidationError{Field: "srv.weight", Rule: "0-65535", Detail: fmt.Sprintf("weight %d out of range", r.SRV.Weight)}
		}
		if r.SRV.Port < 1 || r.SRV.Port > 65535 {
			return &ValidationError{Field: "srv.port", Rule: "1-65535", Detail: fmt.Sprintf("port %d out of range", r.SRV.Port)}
		}
	default:
		if r.MX != nil {
			return &ValidationError{Field: "mx", Rule: "only valid for MX records", Detail: fmt.Sprintf("MX fields set on %s record", r.Type)}
		}
		if r.SRV != nil {
			return &ValidationError{Field: "srv", Rule: "only valid for SRV records", Detail: fmt.Sprintf("SRV fields set on %s record", r.Type)}
		}
	}
	return nil
}

func (r Record) validateValue() error {
	value := r.Value
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: "value", Rule: "required", Detail: "record value cannot be empty"}
	}

	switch r.Type {
	case RecordTypeA:
		// netip rejects leading-zero octets, so only canonical dotted-quad
		// IPv4 text is accepted. BIND disagrees with inet_aton-style octal
		// parsing, so silently normalising would be worse than rejecting.
		addr, err := netip.ParseAddr(value)
		if err != nil || !addr.Is4() {
			return &ValidationError{Field: "value", Rule: "canonical IPv4 literal", Detail: fmt.Sprintf("%q is not a valid IPv4 address", value)}
		}
	case RecordTypeAAAA:
		addr, err := netip.ParseAddr(value)
		if err != nil || !addr.Is6() || addr.Is4In6() {
			return &ValidationError{Field: "value", Rule: "IPv6 literal", Detail: fmt.Sprintf("%q is not a valid IPv6 address", value)}
		}
	case RecordTypeCNAME, RecordTypeNS, RecordTypeMX, RecordTypeSRV:
		if err := validateTargetName(value); err != nil {
			return err
		}
	case RecordTypeTXT:
		if len(value) > MaxTXTLength {
			return &ValidationError{Field: "value", Rule: fmt.Sprintf("at most %d characters", MaxTXTLength), Detail: fmt.Sprintf("TXT value is %d characters", len(value))}
		}
	case RecordTypeCAA:
		if err := validateCAAValue(value); err != nil {
			return err
		}
	}
	return nil
}

// validateTargetName checks hostname-shaped values (CNAME/NS targets, MX
// mail hosts, SRV targets). "@" refers to the zone apex and is accepted.
func validateTargetName(value string) error {
	if value == Apex {
		return nil
	}
	name := strings.TrimSuffix(value, ".")
	if name == "" {
		return &ValidationError{Field: "value", Rule: "hostname", Detail: "target name cannot be empty"}
	}
	for _, part := range strings.Split(name, ".") {
		if err := validateLabelPart(part, "value"); err != nil {
			return err
		}
	}
	return nil
}

// validateCAAValue checks the "flags tag value" triple stored verbatim in
// Record.Value.
func validateCAAValue(value string) error {
	parts := strings.SplitN(value, " ", 3)
	if len(parts) != 3 {
		return &ValidationError{Field: "value", Rule: `CAA "flags tag value" triple`, Detail: fmt.Sprintf("%q does not have three fields", value)}
	}
	flags, err := strconv.Atoi(parts[0])
	if err != nil || flags < 0 || flags > 255 {
		return &ValidationError{Field: "value", Rule: "CAA flags 0-255", Detail: fmt.Sprintf("invalid CAA flags %q", parts[0])}
	}
	if !caaTags[parts[1]] {
		return &ValidationError{Field: "value", Rule: "CAA tag one of issue, issuewild, iodef", Detail: fmt.Sprintf("unknown CAA tag %q", parts[1])}
	}
	v := strings.Trim(strings.TrimSpace(parts[2]), `"`)
	if v == "" {
		return &ValidationError{Field: "value", Rule: "CAA value required", Detail: "CAA property value is empty"}
	}
	return nil
}

// CanonicalCAA renders a CAA triple in its fully-quoted canonical text
// form: `flags tag "value"`. Desired and observed CAA records are both
// normalised through this before comparison so quoting differences never
// register as drift. Input that is not a three-field triple is returned
// unchanged; validation rejects it elsewhere.
func CanonicalCAA(value string) string {
	parts := strings.SplitN(value, " ", 3)
	if len(parts) != 3 {
		return value
	}
	v := strings.TrimSpace(parts[2])
	v = strings.TrimPrefix(v, `"`)
	v = strings.TrimSuffix(v, `"`)
	return fmt.Sprintf(`%s %s "%s"`, parts[0], parts[1], v)
}

// ValidateLabel checks a relative record label: "@" for the apex, or one
// or more DNS labels joined by dots (e.g. "www" or "_sip._tcp"). Each
// part must be ASCII, at most 63 characters, and must not start or end
// with a hyphen.
func ValidateLabel(label string) error {
	if label == "" {
		return &ValidationError{Field: "label", Rule: "required", Detail: "label cannot be empty"}
	}
	if label == Apex {
		return nil
	}
	for _, part := range strings.Split(label, ".") {
		if err := validateLabelPart(part, "label"); err != nil {
			return err
		}
	}
	return nil
}

func validateLabelPart(part, field string) error {
	if part == "" {
		return &ValidationError{Field: field, Rule: "no empty label parts", Detail: "name contains an empty label"}
	}
	if len(part) > 63 {
		return &ValidationError{Field: field, Rule: "label parts at most 63 characters", Detail: fmt.Sprintf("label %q is %d characters", part, len(part))}
	}
	if part == "*" {
		return nil
	}
	for i := 0; i < len(part); i++ {
		c := part[i]
		ok := c == '-' || c == '_' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !ok {
			return &ValidationError{Field: field, Rule: "ASCII letters, digits, hyphens, underscores", Detail: fmt.Sprintf("label %q contains invalid character %q", part, string(c))}
		}
	}
	if part[0] == '-' || part[len(part)-1] == '-' {
		return &ValidationError{Field: field, Rule: "no leading or trailing hyphen", Detail: fmt.Sprintf("label %q starts or ends with a hyphen", part)}
	}
	return nil
}

// ResolveTTL returns the record's effective TTL, substituting the zone
// default when the record leaves TTL unset. Diffing always operates on
// resolved TTLs.
func (r Record) ResolveTTL(defaultTTL int) int {
	if r.TTL > 0 {
		return r.TTL
	}
	return defaultTTL
}

// Key returns the comparison key identifying this record within a diff:
// label, type, and value, extended by preference for MX and by
// priority/weight/port for SRV. TTL is deliberately excluded; TTL-only
// differences are classified as updates, not as distinct records.
func (r Record) Key() string {
	return recordKey(r.Label, r.Type, r.Value, r.MX, r.SRV)
}

// recordKey is the shared comparison-key projection used by both Record
// and ObservedRecord so the two provenances compare identically.
func recordKey(label string, rtype RecordType, value string, mx *MXData, srv *SRVData) string {
	var b strings.Builder
	b.WriteString(label)
	b.WriteByte('|')
	b.WriteString(string(rtype))
	b.WriteByte('|')
	b.WriteString(value)
	if mx != nil {
		fmt.Fprintf(&b, "|p%d", mx.Preference)
	}
	if srv != nil {
		fmt.Fprintf(&b, "|p%d|w%d|port%d", srv.Priority, srv.Weight, srv.Port)
	}
	return b.String()
}

// SortRecords orders records by (label, type, value) in place. Every diff
// and plan consumer relies on this ordering for determinism.
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return recordLess(records[i].Label, records[i].Type, records[i].Value, records[i].Key(),
			records[j].Label, records[j].Type, records[j].Value, records[j].Key())
	})
}

// recordLess compares two records by (label, type, value), falling back
// to the full comparison key so MX/SRV siblings with equal values still
// order deterministically.
func recordLess(la string, ta RecordType, va, ka, lb string, tb RecordType, vb, kb string) bool {
	if la != lb {
		return la < lb
	}
	if ta != tb {
		return ta < tb
	}
	if va != vb {
		return va < vb
	}
	return ka < kb
}

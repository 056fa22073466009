package domain

import "sort"

// ObservedRecord is a record-shaped value read back from the live server.
// It shares the comparison-key projection with Record but is a distinct
// type: observed values always carry the TTL the server published (never
// a configuration default) and are never run through desired-record
// validation.
type ObservedRecord struct {
	// Label is the relative record name within the queried zone.
	Label string

	// Type is the DNS record type.
	Type RecordType

	// Value is the record payload in the same textual form a desired
	// Record would use (trailing dots trimmed, TXT chunks joined, CAA as
	// the "flags tag value" triple).
	Value string

	// TTL is the published TTL in seconds.
	TTL int

	// MX holds the MX-specific field when Type is MX.
	MX *MXData

	// SRV holds the SRV-specific fields when Type is SRV.
	SRV *SRVData
}

// Key returns the comparison key for this observed record. It matches
// Record.Key for a desired record describing the same data.
func (o ObservedRecord) Key() string {
	return recordKey(o.Label, o.Type, o.Value, o.MX, o.SRV)
}

// Record converts the observed value into a Record shape for plan
// primitives that must name existing data (deletes). The result is not
// validated; observed data may legally contain values the desired-record
// rules reject.
func (o ObservedRecord) Record() Record {
	return Record{Label: o.Label, Type: o.Type, Value: o.Value, TTL: o.TTL, MX: o.MX, SRV: o.SRV}
}

// SortObserved orders observed records by (label, type, value) in place,
// mirroring SortRecords.
func SortObserved(records []ObservedRecord) {
	sort.Slice(records, func(i, j int) bool {
		return recordLess(records[i].Label, records[i].Type, records[i].Value, records[i].Key(),
			records[j].Label, records[j].Type, records[j].Value, records[j].Key())
	})
}

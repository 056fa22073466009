// Package diff computes the difference between a zone's desired record
// set and the records observed on the live server.
//
// Compute is a pure function: no I/O, no shared state, safe to run
// concurrently across independent zones. Its output ordering is fully
// deterministic so that identical inputs always produce byte-identical
// plans.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
)

// UpdatePair holds a record whose key matches on both sides but whose
// remaining data (TTL, or value for singleton types) differs.
type UpdatePair struct {
	// Desired is the record as declared, with TTL already resolved.
	Desired domain.Record

	// Observed is the record currently published.
	Observed domain.ObservedRecord
}

// Diff classifies every desired and observed record for one zone into
// disjoint change sets. All slices are sorted by (label, type, value).
// A Diff is produced fresh per reconciliation and never persisted.
type Diff struct {
	Zone      string
	ToCreate  []domain.Record
	ToUpdate  []UpdatePair
	ToDelete  []domain.ObservedRecord
	Unchanged int
}

// HasChanges reports whether applying the diff would alter the zone.
func (d Diff) HasChanges() bool {
	return len(d.ToCreate)+len(d.ToUpdate)+len(d.ToDelete) > 0
}

// Summary returns the change counts for audit and display.
func (d Diff) Summary() (creates, updates, deletes, unchanged int) {
	return len(d.ToCreate), len(d.ToUpdate), len(d.ToDelete), d.Unchanged
}

// Compute compares the zone's desired records against the observed set
// for the same labels.
//
// Desired TTLs are resolved against the zone default before comparison,
// so TTL-only drift is detected. CNAME records are treated as singletons
// per label; every other type is multi-valued and keyed by the full
// comparison key (value plus MX preference or SRV priority/weight/port).
//
// Only labels the zone declares are managed: observed records at other
// labels are ignored, and observed apex NS records are preserved unless
// the zone declares apex NS records itself (deleting delegation records
// that were never under management would break the zone).
func Compute(zone domain.Zone, observed []domain.ObservedRecord) (Diff, error) {
	d := Diff{Zone: zone.Name}
	defaultTTL := zone.ResolvedDefaultTTL()

	managed := make(map[string]bool)
	for _, r := range zone.Records {
		managed[r.Label] = true
	}
	keepApexNS := !zone.DeclaresApexNS()

	desired := make([]domain.Record, len(zone.Records))
	for i, r := range zone.Records {
		r.TTL = r.ResolveTTL(defaultTTL)
		r.Value = normalizeValue(zone, r)
		desired[i] = r
	}
	domain.SortRecords(desired)

	inScope := observed[:0:0]
	for _, o := range observed {
		if !managed[o.Label] {
			continue
		}
		if keepApexNS && o.Label == domain.Apex && o.Type == domain.RecordTypeNS {
			continue
		}
		inScope = append(inScope, o)
	}
	domain.SortObserved(inScope)

	if err := checkCoexistence(zone.Name, desired, inScope); err != nil {
		return Diff{}, err
	}

	singleDesired, multiDesired := splitSingletons(desired)
	singleObserved, multiObserved := splitObservedSingletons(inScope)

	diffSingletons(&d, singleDesired, singleObserved)
	diffMultiValue(&d, multiDesired, multiObserved)
	pairExtrasChanges(&d)

	sortDiff(&d)
	return d, nil
}

// normalizeValue rewrites hostname-shaped desired values into the
// textual form lookups return: "@" expands to the zone name and trailing
// dots are trimmed. Without this a CNAME declared as "@" would never
// compare equal to its observed target.
func normalizeValue(zone domain.Zone, r domain.Record) string {
	switch r.Type {
	case domain.RecordTypeCNAME, domain.RecordTypeNS, domain.RecordTypeMX, domain.RecordTypeSRV:
		if r.Value == domain.Apex {
			return strings.TrimSuffix(zone.Name, ".")
		}
		return strings.TrimSuffix(r.Value, ".")
	case domain.RecordTypeCAA:
		return domain.CanonicalCAA(r.Value)
	default:
		return r.Value
	}
}

// checkCoexistence guards against impossible states reaching the plan
// builder: a desired CNAME sharing a label with another desired type
// should have been rejected by zone validation already.
func checkCoexistence(zone string, desired []domain.Record, observed []domain.ObservedRecord) error {
	cnameLabels := make(map[string]bool)
	otherLabels := make(map[string]bool)
	for _, r := range desired {
		if r.Type == domain.RecordTypeCNAME {
			if cnameLabels[r.Label] {
				return &domain.PlanningError{Zone: zone, Detail: fmt.Sprintf("duplicate desired CNAME at label %q", r.Label)}
			}
			cnameLabels[r.Label] = true
		} else {
			otherLabels[r.Label] = true
		}
	}
	for label := range cnameLabels {
		if otherLabels[label] {
			return &domain.PlanningError{Zone: zone, Detail: fmt.Sprintf("desired CNAME coexists with another type at label %q", label)}
		}
	}
	return nil
}

// splitSingletons separates CNAME records (singleton per label) from the
// multi-value types, indexing singletons by label.
func splitSingletons(records []domain.Record) (map[string]domain.Record, []domain.Record) {
	singles := make(map[string]domain.Record)
	var multi []domain.Record
	for _, r := range records {
		if r.Type == domain.RecordTypeCNAME {
			singles[r.Label] = r
		} else {
			multi = append(multi, r)
		}
	}
	return singles, multi
}

func splitObservedSingletons(records []domain.ObservedRecord) (map[string]domain.ObservedRecord, []domain.ObservedRecord) {
	singles := make(map[string]domain.ObservedRecord)
	var multi []domain.ObservedRecord
	for _, o := range records {
		if o.Type == domain.RecordTypeCNAME {
			singles[o.Label] = o
		} else {
			multi = append(multi, o)
		}
	}
	return singles, multi
}

func diffSingletons(d *Diff, desired map[string]domain.Record, observed map[string]domain.ObservedRecord) {
	for label, want := range desired {
		have, ok := observed[label]
		switch {
		case !ok:
			d.ToCreate = append(d.ToCreate, want)
		case have.Value != want.Value || have.TTL != want.TTL:
			d.ToUpdate = append(d.ToUpdate, UpdatePair{Desired: want, Observed: have})
		default:
			d.Unchanged++
		}
	}
	for label, have := range observed {
		if _, ok := desired[label]; !ok {
			d.ToDelete = append(d.ToDelete, have)
		}
	}
}

func diffMultiValue(d *Diff, desired []domain.Record, observed []domain.ObservedRecord) {
	observedByKey := make(map[string]domain.ObservedRecord, len(observed))
	for _, o := range observed {
		observedByKey[o.Key()] = o
	}

	desiredKeys := make(map[string]bool, len(desired))
	for _, want := range desired {
		key := want.Key()
		desiredKeys[key] = true
		have, ok := observedByKey[key]
		switch {
		case !ok:
			d.ToCreate = append(d.ToCreate, want)
		case have.TTL != want.TTL:
			d.ToUpdate = append(d.ToUpdate, UpdatePair{Desired: want, Observed: have})
		default:
			d.Unchanged++
		}
	}

	for _, have := range observed {
		if !desiredKeys[have.Key()] {
			d.ToDelete = append(d.ToDelete, have)
		}
	}
}

// pairExtrasChanges promotes a create/delete pair that shares (label,
// type, value) but differs only in MX preference or SRV numerics into a
// single update. An MX record whose preference moved from 20 to 10 is a
// change to one record, not an unrelated add and remove.
func pairExtrasChanges(d *Diff) {
	if len(d.ToCreate) == 0 || len(d.ToDelete) == 0 {
		return
	}

	deleteByIdentity := make(map[string]int)
	for i, o := range d.ToDelete {
		deleteByIdentity[identity(o.Label, o.Type, o.Value)] = i
	}

	var creates []domain.Record
	claimed := make(map[int]bool)
	for _, want := range d.ToCreate {
		idx, ok := deleteByIdentity[identity(want.Label, want.Type, want.Value)]
		if ok && !claimed[idx] {
			claimed[idx] = true
			d.ToUpdate = append(d.ToUpdate, UpdatePair{Desired: want, Observed: d.ToDelete[idx]})
			continue
		}
		creates = append(creates, want)
	}

	var deletes []domain.ObservedRecord
	for i, o := range d.ToDelete {
		if !claimed[i] {
			deletes = append(deletes, o)
		}
	}
	d.ToCreate = creates
	d.ToDelete = deletes
}

func identity(label string, rtype domain.RecordType, value string) string {
	return label + "|" + string(rtype) + "|" + value
}

// sortDiff restores (label, type, value) order on every list. The map
// walks above are order-unstable, so this pass is what makes repeated
// runs byte-identical.
func sortDiff(d *Diff) {
	domain.SortRecords(d.ToCreate)
	domain.SortObserved(d.ToDelete)
	sort.Slice(d.ToUpdate, func(i, j int) bool {
		return d.ToUpdate[i].Desired.Key() < d.ToUpdate[j].Desired.Key()
	})
}

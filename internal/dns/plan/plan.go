// Package plan converts a computed diff into an ordered sequence of
// primitive update operations and serializes that sequence into the
// line-oriented update script format.
//
// Build is pure; it performs no I/O and never mutates its input. A Plan
// is scoped to a single zone, forms one atomic transaction, and is
// consumed exactly once by the update executor.
package plan

import (
	"nathanbeddoewebdev/zoneup/internal/dns/diff"
	"nathanbeddoewebdev/zoneup/internal/dns/domain"
)

// OpKind discriminates the two update primitives.
type OpKind string

const (
	OpDelete OpKind = "delete"
	OpAdd    OpKind = "add"
)

// Op is one primitive update operation. Delete ops identify the record
// to remove by label, type, and rdata; Add ops carry the full record
// including its resolved TTL.
type Op struct {
	Kind   OpKind
	Record domain.Record
}

// Plan is the ordered operation sequence for one zone's transaction.
type Plan struct {
	Zone domain.Zone
	Ops  []Op
}

// IsEmpty reports whether the plan contains no operations.
func (p Plan) IsEmpty() bool { return len(p.Ops) == 0 }

// Counts returns the number of delete and add primitives.
func (p Plan) Counts() (deletes, adds int) {
	for _, op := range p.Ops {
		if op.Kind == OpDelete {
			deletes++
		} else {
			adds++
		}
	}
	return deletes, adds
}

// Build translates a diff into primitives. Ordering is fixed: every
// stale record is deleted first, each update pair emits its delete
// immediately before its add, and creates come last. Delete-before-add
// is mandatory: the update protocol applies operations in the order
// given, and an add-before-delete would leave a stale record behind on a
// multi-value type or momentarily duplicate a singleton.
func Build(zone domain.Zone, d diff.Diff) Plan {
	p := Plan{Zone: zone}

	for _, o := range d.ToDelete {
		p.Ops = append(p.Ops, Op{Kind: OpDelete, Record: o.Record()})
	}
	for _, pair := range d.ToUpdate {
		p.Ops = append(p.Ops,
			Op{Kind: OpDelete, Record: pair.Observed.Record()},
			Op{Kind: OpAdd, Record: pair.Desired},
		)
	}
	for _, r := range d.ToCreate {
		p.Ops = append(p.Ops, Op{Kind: OpAdd, Record: r})
	}

	return p
}

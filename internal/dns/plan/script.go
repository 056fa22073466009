package plan

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
)

// txtChunkSize is the per-string byte limit for TXT rdata. Longer values
// are split into multiple quoted strings the server concatenates.
const txtChunkSize = 255

// Render serializes the plan into the nsupdate-compatible script format:
// a server directive, a zone directive, one update line per primitive,
// and a terminating send. The same script is what dry-run mode returns
// and what the audit log records for an apply.
func (p Plan) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "server %s\n", p.Zone.Server)
	fmt.Fprintf(&b, "zone %s\n", strings.TrimSuffix(p.Zone.Name, ".")+".")
	for _, op := range p.Ops {
		b.WriteString(p.renderOp(op))
		b.WriteByte('\n')
	}
	b.WriteString("send\n")
	return b.String()
}

func (p Plan) renderOp(op Op) string {
	fqdn := p.Zone.FQDN(op.Record.Label)
	if op.Kind == OpDelete {
		rdata := Rdata(op.Record)
		if rdata == "" {
			return fmt.Sprintf("update delete %s %s", fqdn, op.Record.Type)
		}
		return fmt.Sprintf("update delete %s %s %s", fqdn, op.Record.Type, rdata)
	}
	return fmt.Sprintf("update add %s %d %s %s", fqdn, op.Record.TTL, op.Record.Type, Rdata(op.Record))
}

// Rdata renders the type-specific rdata portion of an update line. MX
// and SRV prepend their numeric fields, TXT values are quoted and
// chunked, CAA triples pass through verbatim, and hostname-shaped
// targets are fully qualified.
func Rdata(r domain.Record) string {
	switch r.Type {
	case domain.RecordTypeMX:
		pref := 0
		if r.MX != nil {
			pref = r.MX.Preference
		}
		return fmt.Sprintf("%d %s", pref, qualifyTarget(r.Value))
	case domain.RecordTypeSRV:
		var prio, weight, port int
		if r.SRV != nil {
			prio, weight, port = r.SRV.Priority, r.SRV.Weight, r.SRV.Port
		}
		return fmt.Sprintf("%d %d %d %s", prio, weight, port, qualifyTarget(r.Value))
	case domain.RecordTypeTXT:
		return quoteTXT(r.Value)
	case domain.RecordTypeCAA:
		return r.Value
	case domain.RecordTypeCNAME, domain.RecordTypeNS:
		return qualifyTarget(r.Value)
	default:
		return r.Value
	}
}

// qualifyTarget appends the trailing dot to hostname targets so the
// server does not re-anchor them under the zone. Values already ending
// in a dot pass through.
func qualifyTarget(value string) string {
	if strings.HasSuffix(value, ".") {
		return value
	}
	return value + "."
}

// quoteTXT escapes embedded quotes and splits the logical TXT value into
// quoted strings of at most txtChunkSize bytes each.
func quoteTXT(value string) string {
	escaped := strings.ReplaceAll(value, `"`, `\"`)
	if len(escaped) <= txtChunkSize {
		return `"` + escaped + `"`
	}

	var chunks []string
	for len(escaped) > 0 {
		n := txtChunkSize
		if n > len(escaped) {
			n = len(escaped)
		}
		chunks = append(chunks, `"`+escaped[:n]+`"`)
		escaped = escaped[n:]
	}
	return strings.Join(chunks, " ")
}

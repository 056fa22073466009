package query

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
)

// DefaultLookupTimeout bounds a single DNS exchange.
const DefaultLookupTimeout = 5 * time.Second

// qtypeFor maps the domain record types onto wire query types.
var qtypeFor = map[domain.RecordType]uint16{
	domain.RecordTypeA:     dns.TypeA,
	domain.RecordTypeAAAA:  dns.TypeAAAA,
	domain.RecordTypeCNAME: dns.TypeCNAME,
	domain.RecordTypeMX:    dns.TypeMX,
	domain.RecordTypeTXT:   dns.TypeTXT,
	domain.RecordTypeSRV:   dns.TypeSRV,
	domain.RecordTypeNS:    dns.TypeNS,
	domain.RecordTypeCAA:   dns.TypeCAA,
}

// Resolver implements Lookuper with direct queries against the zone's
// authoritative server.
type Resolver struct {
	client *dns.Client
}

// NewResolver returns a Resolver with the given per-exchange timeout.
// Zero means DefaultLookupTimeout.
func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Resolver{client: &dns.Client{Timeout: timeout}}
}

// Lookup queries the zone's server for one label and type. NXDOMAIN and
// empty answers are an empty set, not an error; only transport failures
// and hard server errors surface as errors.
func (r *Resolver) Lookup(ctx context.Context, zone domain.Zone, label string, rtype domain.RecordType) ([]domain.ObservedRecord, error) {
	qtype, ok := qtypeFor[rtype]
	if !ok {
		return nil, fmt.Errorf("query: unsupported record type %q", rtype)
	}

	fqdn := zone.FQDN(label)
	msg := new(dns.Msg)
	msg.SetQuestion(fqdn, qtype)
	msg.RecursionDesired = false

	resp, err := r.exchange(ctx, msg, serverAddr(zone.Server))
	if err != nil {
		return nil, fmt.Errorf("query %s %s: %w", fqdn, rtype, err)
	}

	switch resp.Rcode {
	case dns.RcodeSuccess, dns.RcodeNameError:
		// NXDOMAIN means the label has no records at all; treat it the
		// same as an empty answer section.
	default:
		return nil, fmt.Errorf("query %s %s: server returned %s", fqdn, rtype, dns.RcodeToString[resp.Rcode])
	}

	var records []domain.ObservedRecord
	for _, rr := range resp.Answer {
		if rr.Header().Rrtype != qtype || !strings.EqualFold(rr.Header().Name, fqdn) {
			continue
		}
		obs, ok := observedFromRR(label, rtype, rr)
		if ok {
			records = append(records, obs)
		}
	}
	return records, nil
}

// exchange performs the DNS round trip, retrying once over TCP when the
// UDP response is truncated.
func (r *Resolver) exchange(ctx context.Context, msg *dns.Msg, addr string) (*dns.Msg, error) {
	resp, _, err := r.client.ExchangeContext(ctx, msg, addr)
	if err != nil {
		return nil, err
	}
	if resp.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: r.client.Timeout}
		resp, _, err = tcp.ExchangeContext(ctx, msg, addr)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// serverAddr appends the default DNS port when the configured server has
// none.
func serverAddr(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, "53")
}

// observedFromRR converts a wire answer into the textual ObservedRecord
// form the diff engine compares: trailing dots trimmed from hostname
// targets, TXT chunks joined into the logical value, CAA rendered as its
// "flags tag value" triple.
func observedFromRR(label string, rtype domain.RecordType, rr dns.RR) (domain.ObservedRecord, bool) {
	obs := domain.ObservedRecord{
		Label: label,
		Type:  rtype,
		TTL:   int(rr.Header().Ttl),
	}

	switch t := rr.(type) {
	case *dns.A:
		obs.Value = t.A.String()
	case *dns.AAAA:
		obs.Value = t.AAAA.String()
	case *dns.CNAME:
		obs.Value = strings.TrimSuffix(t.Target, ".")
	case *dns.NS:
		obs.Value = strings.TrimSuffix(t.Ns, ".")
	case *dns.MX:
		obs.Value = strings.TrimSuffix(t.Mx, ".")
		obs.MX = &domain.MXData{Preference: int(t.Preference)}
	case *dns.SRV:
		obs.Value = strings.TrimSuffix(t.Target, ".")
		obs.SRV = &domain.SRVData{
			Priority: int(t.Priority),
			Weight:   int(t.Weight),
			Port:     int(t.Port),
		}
	case *dns.TXT:
		obs.Value = strings.Join(t.Txt, "")
	case *dns.CAA:
		obs.Value = domain.CanonicalCAA(fmt.Sprintf("%d %s %s", t.Flag, t.Tag, t.Value))
	default:
		return domain.ObservedRecord{}, false
	}
	return obs, true
}

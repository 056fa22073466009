package update

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/dns/plan"
)

// DefaultSubmitTimeout bounds the update exchange.
const DefaultSubmitTimeout = 10 * time.Second

// SecretFunc resolves a TSIG key name to its shared secret. The CLI
// wires this to the OS keychain store.
type SecretFunc func(keyName string) (string, error)

// tsigAlgorithms maps configured algorithm names onto wire identifiers.
var tsigAlgorithms = map[string]string{
	"hmac-sha1":   dns.HmacSHA1,
	"hmac-sha224": dns.HmacSHA224,
	"hmac-sha256": dns.HmacSHA256,
	"hmac-sha384": dns.HmacSHA384,
	"hmac-sha512": dns.HmacSHA512,
}

// DefaultTSIGAlgorithm applies when a zone does not configure one.
const DefaultTSIGAlgorithm = "hmac-sha256"

// Client submits plans over RFC 2136 dynamic update with TSIG
// authentication. Updates always travel over TCP so transaction size is
// never limited by UDP payloads.
type Client struct {
	secrets SecretFunc
	timeout time.Duration
}

// NewClient returns a Client resolving TSIG secrets through secrets.
// Zero timeout means DefaultSubmitTimeout.
func NewClient(secrets SecretFunc, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &Client{secrets: secrets, timeout: timeout}
}

// Submit builds one update message containing every primitive in plan
// order and exchanges it with the zone's server. The server applies the
// message atomically: either all primitives commit or none do.
func (c *Client) Submit(ctx context.Context, p plan.Plan) error {
	zone := p.Zone

	algoName := zone.KeyAlgorithm
	if algoName == "" {
		algoName = DefaultTSIGAlgorithm
	}
	algo, ok := tsigAlgorithms[strings.ToLower(algoName)]
	if !ok {
		return &domain.ExecutionError{
			Outcome: domain.OutcomeAuthFailure,
			Zone:    zone.Name,
			Detail:  fmt.Sprintf("unsupported TSIG algorithm %q", algoName),
		}
	}

	secret, err := c.secrets(zone.KeyName)
	if err != nil {
		return &domain.ExecutionError{
			Outcome: domain.OutcomeAuthFailure,
			Zone:    zone.Name,
			Detail:  fmt.Sprintf("no secret for TSIG key %q", zone.KeyName),
			Err:     err,
		}
	}

	msg, err := buildUpdateMsg(p)
	if err != nil {
		return &domain.ExecutionError{
			Outcome: domain.OutcomeServerRejected,
			Zone:    zone.Name,
			Detail:  err.Error(),
			Err:     err,
		}
	}

	keyFQDN := dns.Fqdn(zone.KeyName)
	msg.SetTsig(keyFQDN, algo, 300, time.Now().Unix())

	client := &dns.Client{Net: "tcp", Timeout: c.timeout}
	client.TsigSecret = map[string]string{keyFQDN: secret}

	resp, _, err := client.ExchangeContext(ctx, msg, serverAddr(zone.Server))
	if err != nil {
		return classifyExchangeError(zone.Name, err)
	}
	return classifyRcode(zone.Name, resp.Rcode)
}

// buildUpdateMsg translates plan primitives into update sections. Each
// op is rendered through the same rdata serialization the script format
// uses, then parsed into a wire RR, which keeps the dry-run script and
// the applied transaction in exact agreement.
func buildUpdateMsg(p plan.Plan) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetUpdate(dns.Fqdn(p.Zone.Name))

	for _, op := range p.Ops {
		fqdn := p.Zone.FQDN(op.Record.Label)
		rr, err := dns.NewRR(fmt.Sprintf("%s %d IN %s %s", fqdn, op.Record.TTL, op.Record.Type, plan.Rdata(op.Record)))
		if err != nil {
			return nil, fmt.Errorf("build %s op for %s %s: %w", op.Kind, fqdn, op.Record.Type, err)
		}
		switch op.Kind {
		case plan.OpDelete:
			msg.Remove([]dns.RR{rr})
		case plan.OpAdd:
			msg.Insert([]dns.RR{rr})
		default:
			return nil, fmt.Errorf("unknown op kind %q", op.Kind)
		}
	}
	return msg, nil
}

// classifyExchangeError maps transport and signature errors onto the
// execution outcome taxonomy.
func classifyExchangeError(zone string, err error) error {
	outcome := domain.OutcomeConnectivityFailure
	if isTsigError(err) {
		outcome = domain.OutcomeAuthFailure
	}
	return &domain.ExecutionError{
		Outcome: outcome,
		Zone:    zone,
		Detail:  err.Error(),
		Err:     err,
	}
}

func isTsigError(err error) bool {
	switch err {
	case dns.ErrSig, dns.ErrAuth, dns.ErrSecret, dns.ErrKeyAlg, dns.ErrKey, dns.ErrTime:
		return true
	}
	return false
}

// classifyRcode maps the server's response code onto the outcome
// taxonomy. NOERROR means the whole transaction committed.
func classifyRcode(zone string, rcode int) error {
	switch rcode {
	case dns.RcodeSuccess:
		return nil
	case dns.RcodeNotAuth, dns.RcodeBadSig, dns.RcodeBadKey, dns.RcodeBadTime:
		return &domain.ExecutionError{
			Outcome: domain.OutcomeAuthFailure,
			Zone:    zone,
			Detail:  dns.RcodeToString[rcode],
		}
	default:
		return &domain.ExecutionError{
			Outcome: domain.OutcomeServerRejected,
			Zone:    zone,
			Detail:  dns.RcodeToString[rcode],
		}
	}
}

// serverAddr appends the default DNS port when the configured server has
// none.
func serverAddr(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, "53")
}

// Package query retrieves the currently published records for every
// label a zone's desired records reference.
//
// The Lookuper interface is the only I/O boundary; tests substitute a
// fake and the production implementation lives in resolver.go. Partial
// failure degrades gracefully: a label/type lookup that keeps failing
// becomes a QueryWarning and the remaining lookups continue, so a diff
// can still be computed for whatever did resolve.
package query

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/retry"
)

// Lookuper answers a single-label, single-type DNS query against an
// authoritative server. An empty result with a nil error means the label
// publishes no records of that type.
type Lookuper interface {
	Lookup(ctx context.Context, zone domain.Zone, label string, rtype domain.RecordType) ([]domain.ObservedRecord, error)
}

// QueryWarning records a lookup that failed after retries. Warnings are
// non-fatal diagnostics attached to the query result; they never abort
// the zone.
type QueryWarning struct {
	Label string
	Type  domain.RecordType
	Err   error
}

func (w QueryWarning) String() string {
	return fmt.Sprintf("lookup %s %s failed: %v", w.Label, w.Type, w.Err)
}

// Result is the observed inventory for one zone plus any lookup
// warnings.
type Result struct {
	Records  []domain.ObservedRecord
	Warnings []QueryWarning
}

// Service runs zone state queries against a Lookuper.
type Service struct {
	lookuper Lookuper
	retry    retry.Config
}

// Option configures a Service.
type Option func(*Service)

// WithRetry overrides the retry policy for transient lookup failures.
func WithRetry(cfg retry.Config) Option {
	return func(s *Service) { s.retry = cfg }
}

// New returns a query service backed by the given Lookuper.
func New(lookuper Lookuper, opts ...Option) *Service {
	s := &Service{
		lookuper: lookuper,
		retry: retry.Config{
			MaxAttempts: 2,
			BaseDelay:   200 * time.Millisecond,
			MaxDelay:    2 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State queries every distinct label the zone declares, across all
// record types a label could carry. The full type inventory is needed so
// the diff engine can detect extra records of types the zone never
// declares. Labels outside the declared set are not queried at all; they
// are out of management scope.
func (s *Service) State(ctx context.Context, zone domain.Zone) (Result, error) {
	var res Result

	for _, label := range zone.Labels() {
		for _, rtype := range domain.AllRecordTypes {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			var records []domain.ObservedRecord
			err := retry.Do(ctx, s.retry, func() error {
				var lookupErr error
				records, lookupErr = s.lookuper.Lookup(ctx, zone, label, rtype)
				return lookupErr
			})
			if err != nil {
				res.Warnings = append(res.Warnings, QueryWarning{Label: label, Type: rtype, Err: err})
				continue
			}
			res.Records = append(res.Records, records...)
		}
	}

	domain.SortObserved(res.Records)
	return res, nil
}

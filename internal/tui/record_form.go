package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"

	"github.com/charmbracelet/huh"
)

// ErrRecordFormAborted is returned when the user cancels the record form.
var ErrRecordFormAborted = errors.New("record form aborted")

// RunRecordForm walks the user through declaring a new record for the
// zone. The returned record is validated; an aborted form returns
// ErrRecordFormAborted.
func RunRecordForm(zone domain.Zone) (domain.Record, error) {
	var (
		rtype      = string(domain.RecordTypeA)
		label      string
		value      string
		ttl        string
		preference string
		priority   string
		weight     string
		port       string
		confirmed  bool
	)

	typeOptions := make([]huh.Option[string], 0, len(domain.AllRecordTypes))
	for _, t := range domain.AllRecordTypes {
		typeOptions = append(typeOptions, huh.NewOption(string(t), string(t)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Record type").
				Options(typeOptions...).
				Value(&rtype),
			huh.NewInput().
				Title("Label").
				Placeholder("e.g. www, or @ for the zone apex").
				Validate(validateLabelInput).
				Value(&label),
			huh.NewInput().
				Title("Value").
				Placeholder("e.g. 203.0.113.10").
				Validate(requireNonEmpty("value")).
				Value(&value),
			huh.NewInput().
				Title("TTL (seconds)").
				Placeholder(fmt.Sprintf("empty for zone default (%d)", zone.ResolvedDefaultTTL())).
				Validate(validateOptionalUint("ttl")).
				Value(&ttl),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Preference").
				Placeholder("e.g. 10 (lower is preferred)").
				Validate(validateRequiredUint("preference")).
				Value(&preference),
		).WithHideFunc(func() bool { return rtype != string(domain.RecordTypeMX) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Priority").
				Validate(validateRequiredUint("priority")).
				Value(&priority),
			huh.NewInput().
				Title("Weight").
				Validate(validateRequiredUint("weight")).
				Value(&weight),
			huh.NewInput().
				Title("Port").
				Validate(validateRequiredUint("port")).
				Value(&port),
		).WithHideFunc(func() bool { return rtype != string(domain.RecordTypeSRV) }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Add this record to the config?").
				Affirmative("Add").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return domain.Record{}, ErrRecordFormAborted
		}
		return domain.Record{}, fmt.Errorf("tui: record form failed: %w", err)
	}
	if !confirmed {
		return domain.Record{}, ErrRecordFormAborted
	}

	ttlValue := 0
	if strings.TrimSpace(ttl) != "" {
		ttlValue, _ = strconv.Atoi(strings.TrimSpace(ttl))
	}

	var mx *domain.MXData
	var srv *domain.SRVData
	switch domain.RecordType(rtype) {
	case domain.RecordTypeMX:
		p, _ := strconv.Atoi(strings.TrimSpace(preference))
		mx = &domain.MXData{Preference: p}
	case domain.RecordTypeSRV:
		pr, _ := strconv.Atoi(strings.TrimSpace(priority))
		w, _ := strconv.Atoi(strings.TrimSpace(weight))
		po, _ := strconv.Atoi(strings.TrimSpace(port))
		srv = &domain.SRVData{Priority: pr, Weight: w, Port: po}
	}

	return domain.NewRecord(strings.TrimSpace(label), domain.RecordType(rtype), strings.TrimSpace(value), ttlValue, mx, srv)
}

func validateLabelInput(s string) error {
	return domain.ValidateLabel(strings.TrimSpace(s))
}

func requireNonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateRequiredUint(field string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative number", field)
		}
		return nil
	}
}

func validateOptionalUint(field string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative number", field)
		}
		return nil
	}
}

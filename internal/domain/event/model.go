package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Modality constants. An event may accept one discipline or both.
const (
	ModalityKyorugi = "KYORUGI"
	ModalityPoomsae = "POOMSAE"
	ModalityBoth    = "AMBAS"
)

// Max length constants.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
	MaxVenueLength       = 200
	MaxCityLength        = 100
	MaxCountryLength     = 100
)

// UpcomingWindow is how far ahead an event counts as "closing in" for badges.
const UpcomingWindow = 7 * 24 * time.Hour

// ValidModalities contains all accepted modality values.
var ValidModalities = []string{ModalityKyorugi, ModalityPoomsae, ModalityBoth}

// Domain errors.
var (
	ErrEmptyName           = errors.New("event name cannot be empty")
	ErrMissingDate         = errors.New("event date is required")
	ErrDateInPast          = errors.New("event date cannot be in the past")
	ErrMissingDeadline     = errors.New("registration deadline is required")
	ErrDeadlineInPast      = errors.New("registration deadline cannot be in the past")
	ErrDeadlineAfterEvent  = errors.New("registration deadline must be before the event date")
	ErrEmptyVenue          = errors.New("event venue cannot be empty")
	ErrInvalidModality     = errors.New("modality must be KYORUGI, POOMSAE or AMBAS")
	ErrEmptyDescription    = errors.New("event description cannot be empty")
	ErrRegistrationsClosed = errors.New("registrations for this event are closed")
)

// Event represents a scheduled competition athletes can be enrolled into.
// PRE: Name is non-empty. Date is set. Modality is one of ValidModalities.
// INVARIANT: RegistrationDeadline, when set, is strictly before Date.
type Event struct {
	ID                   string
	Name                 string
	Date                 time.Time
	RegistrationDeadline time.Time // zero value means open until the event date
	Country              string
	City                 string
	Venue                string
	Modality             string
	Description          string
	ImagePath            string // blob store reference, empty when no poster
	CreatedBy            string // account ID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Name) > MaxNameLength {
		return errors.New("event name cannot exceed 200 characters")
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if strings.TrimSpace(e.Venue) == "" {
		return ErrEmptyVenue
	}
	if len(e.Venue) > MaxVenueLength {
		return errors.New("event venue cannot exceed 200 characters")
	}
	if len(e.City) > MaxCityLength {
		return errors.New("event city cannot exceed 100 characters")
	}
	if len(e.Country) > MaxCountryLength {
		return errors.New("event country cannot exceed 100 characters")
	}
	if !isValidModality(e.Modality) {
		return ErrInvalidModality
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > MaxDescriptionLength {
		return errors.New("event description cannot exceed 2000 characters")
	}
	if !e.RegistrationDeadline.IsZero() && !e.RegistrationDeadline.Before(e.Date) {
		return ErrDeadlineAfterEvent
	}
	return nil
}

// ValidateSchedule checks date rules that depend on the current time.
// Kept separate from Validate so stored events with past dates still load.
// PRE: now is the reference instant
// POST: returns nil when the event can be created or rescheduled at now
func (e *Event) ValidateSchedule(now time.Time) error {
	today := startOfDay(now)
	if e.Date.Before(today) {
		return ErrDateInPast
	}
	if e.RegistrationDeadline.IsZero() {
		return ErrMissingDeadline
	}
	if e.RegistrationDeadline.Before(today) {
		return ErrDeadlineInPast
	}
	return nil
}

// IsUpcoming returns true if the event date is strictly after now.
// INVARIANT: Event fields are not mutated
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}

// IsClosingSoon returns true if the event is upcoming and within one week.
// Used for the "Próximo" badge on public listings.
func (e *Event) IsClosingSoon(now time.Time) bool {
	return e.Date.After(now) && e.Date.Sub(now) <= UpcomingWindow
}

// AcceptsEnrollments returns true while the registration window is open.
// An event with no deadline accepts enrollments until its date.
// INVARIANT: Event fields are not mutated
func (e *Event) AcceptsEnrollments(now time.Time) bool {
	if !e.Date.After(now) {
		return false
	}
	if e.RegistrationDeadline.IsZero() {
		return true
	}
	return !now.After(endOfDay(e.RegistrationDeadline))
}

// ModalityLabel returns the display form of the modality.
// "AMBAS" expands to both discipline names.
func (e *Event) ModalityLabel() string {
	if e.Modality == ModalityBoth {
		return "KYORUGI y POOMSAE"
	}
	return e.Modality
}

func isValidModality(m string) bool {
	for _, v := range ValidModalities {
		if v == m {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ParseInstant parses an RFC3339 instant as carried in API payloads.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: %w", s, err)
	}
	return t, nil
}

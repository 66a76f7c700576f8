package academy

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Max length constants.
const (
	MaxNameLength         = 150
	MaxAbbreviationLength = 10
)

// Domain errors.
var (
	ErrEmptyName           = errors.New("academy name cannot be empty")
	ErrEmptyAbbreviation   = errors.New("academy abbreviation cannot be empty")
	ErrInvalidAbbreviation = errors.New("abbreviation must be 2-10 letters or digits")
	ErrEmptyRepresentative = errors.New("representative name cannot be empty")
	ErrInvalidDNI          = errors.New("representative DNI must be 8 digits")
)

var (
	abbrevPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
	dniPattern    = regexp.MustCompile(`^[0-9]{8}$`)
)

// Academy is a delegation's profile. Its ID matches the account ID of the
// principal that registered it, so enrollments key on the same identifier.
type Academy struct {
	ID                 string
	Name               string
	Abbreviation       string // unique federation-wide, stored uppercase
	RepresentativeName string
	RepresentativeDNI  string // unique federation-wide
	Phone              string
	Email              string
	CreatedAt          time.Time
}

// Normalize trims whitespace and uppercases the abbreviation.
// POST: fields are in canonical storage form
func (a *Academy) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Abbreviation = strings.ToUpper(strings.TrimSpace(a.Abbreviation))
	a.RepresentativeName = strings.TrimSpace(a.RepresentativeName)
	a.RepresentativeDNI = strings.TrimSpace(a.RepresentativeDNI)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Email = strings.TrimSpace(a.Email)
}

// Validate checks the academy's invariants. Call Normalize first.
// POST: returns nil if valid, error describing the first violation otherwise
func (a *Academy) Validate() error {
	if a.Name == "" {
		return ErrEmptyName
	}
	if len(a.Name) > MaxNameLength {
		return errors.New("academy name cannot exceed 150 characters")
	}
	if a.Abbreviation == "" {
		return ErrEmptyAbbreviation
	}
	if !abbrevPattern.MatchString(a.Abbreviation) {
		return ErrInvalidAbbreviation
	}
	if a.RepresentativeName == "" {
		return ErrEmptyRepresentative
	}
	if !dniPattern.MatchString(a.RepresentativeDNI) {
		return ErrInvalidDNI
	}
	return nil
}

// DisplayName returns the abbreviation when set, otherwise the full name.
// Roster tables prefer the short form.
func (a *Academy) DisplayName() string {
	if a.Abbreviation != "" {
		return a.Abbreviation
	}
	return a.Name
}

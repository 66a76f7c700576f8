package enrollment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Sex constants.
const (
	SexMale   = "Masculino"
	SexFemale = "Femenino"
)

// Age divisions, youngest to oldest.
const (
	DivisionBaby         = "Baby"
	DivisionPreInfantil  = "Pre-Infantil"
	DivisionInfantil     = "Infantil"
	DivisionInfantilSr   = "Infantil Mayor"
	DivisionCadete       = "Cadete"
	DivisionJunior       = "Junior"
	DivisionJuvenil      = "Juvenil"
	DivisionSenior       = "Senior"
)

// Competition levels derived from belt rank.
const (
	LevelFestival  = "Festival"
	LevelNoveles   = "Noveles"
	LevelAvanzados = "Avanzados"
)

// Weight bounds accepted on registration forms.
const (
	MinWeightKG = 15.0
	MaxWeightKG = 200.0
)

// Domain errors.
var (
	ErrMissingEventID    = errors.New("enrollment must reference an event")
	ErrMissingAcademyID  = errors.New("enrollment must reference an academy")
	ErrNoAthletes        = errors.New("enrollment must contain at least one athlete")
	ErrAthleteIndex      = errors.New("athlete index out of range")
	ErrEmptyFirstName    = errors.New("athlete first name cannot be empty")
	ErrEmptyLastName     = errors.New("athlete last name cannot be empty")
	ErrInvalidDNI        = errors.New("athlete DNI must be 8 digits")
	ErrMissingBirthDate  = errors.New("athlete birth date is required")
	ErrInvalidWeight     = errors.New("athlete weight must be between 15 and 200 kg")
	ErrInvalidSex        = errors.New("athlete sex must be Masculino or Femenino")
	ErrInvalidBelt       = errors.New("athlete belt must be KUP-n or DAN-n")
	ErrInvalidModality   = errors.New("athlete modality must be KYORUGI or POOMSAE")
)

var dniPattern = regexp.MustCompile(`^[0-9]{8}$`)

// Athlete is one competitor on an academy's roster for an event.
// Derived fields (Age, AgeDivision, Level, WeightCategory) are computed by
// Categorize and stored alongside the entered data so rosters and brackets
// read them without recomputing.
type Athlete struct {
	FirstName string
	LastName  string
	DNI       string
	BirthDate time.Time
	WeightKG  float64
	Belt      string // "KUP-8" .. "KUP-1", "DAN-1" ..
	Sex       string
	Modality  string // KYORUGI or POOMSAE; per athlete, not per event

	Age            int
	AgeDivision    string
	Level          string
	WeightCategory string
}

// Enrollment is one academy's athlete roster for one event.
// INVARIANT: Athletes is non-empty; removing the last athlete deletes the
// enrollment itself rather than leaving it empty.
type Enrollment struct {
	ID        string
	EventID   string
	AcademyID string
	Athletes  []Athlete
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the enrollment's invariants, including every athlete.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Enrollment) Validate() error {
	if e.EventID == "" {
		return ErrMissingEventID
	}
	if e.AcademyID == "" {
		return ErrMissingAcademyID
	}
	if len(e.Athletes) == 0 {
		return ErrNoAthletes
	}
	for i := range e.Athletes {
		if err := e.Athletes[i].Validate(); err != nil {
			return fmt.Errorf("athlete %d: %w", i, err)
		}
	}
	return nil
}

// Size returns the number of athletes on the roster.
// INVARIANT: Enrollment fields are not mutated
func (e *Enrollment) Size() int {
	return len(e.Athletes)
}

// AddAthlete appends an athlete to the roster.
// PRE: a passed Validate
// POST: roster grows by one
func (e *Enrollment) AddAthlete(a Athlete) {
	e.Athletes = append(e.Athletes, a)
}

// ReplaceAthlete swaps the athlete at idx for a.
// PRE: 0 <= idx < len(Athletes)
// POST: roster unchanged in size, entry idx replaced
func (e *Enrollment) ReplaceAthlete(idx int, a Athlete) error {
	if idx < 0 || idx >= len(e.Athletes) {
		return ErrAthleteIndex
	}
	e.Athletes[idx] = a
	return nil
}

// RemoveAthlete deletes the athlete at idx, preserving roster order.
// Returns true when the roster is now empty, which obliges the caller to
// delete the whole enrollment.
// PRE: 0 <= idx < len(Athletes)
func (e *Enrollment) RemoveAthlete(idx int) (empty bool, err error) {
	if idx < 0 || idx >= len(e.Athletes) {
		return false, ErrAthleteIndex
	}
	e.Athletes = append(e.Athletes[:idx], e.Athletes[idx+1:]...)
	return len(e.Athletes) == 0, nil
}

// Validate checks one athlete's registration fields.
func (a *Athlete) Validate() error {
	if strings.TrimSpace(a.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(a.LastName) == "" {
		return ErrEmptyLastName
	}
	if !dniPattern.MatchString(a.DNI) {
		return ErrInvalidDNI
	}
	if a.BirthDate.IsZero() {
		return ErrMissingBirthDate
	}
	if a.WeightKG < MinWeightKG || a.WeightKG > MaxWeightKG {
		return ErrInvalidWeight
	}
	if a.Sex != SexMale && a.Sex != SexFemale {
		return ErrInvalidSex
	}
	if _, _, err := parseBelt(a.Belt); err != nil {
		return err
	}
	if a.Modality != "KYORUGI" && a.Modality != "POOMSAE" {
		return ErrInvalidModality
	}
	return nil
}

// Categorize fills the derived competition fields from the entered data.
// PRE: athlete passed Validate; now is the reference instant for age
// POST: Age, AgeDivision, Level and WeightCategory are set
func (a *Athlete) Categorize(now time.Time) {
	a.Age = ageAt(a.BirthDate, now)
	a.AgeDivision = divisionForAge(a.Age)
	a.Level = levelForBelt(a.Belt)
	a.WeightCategory = weightCategory(a.WeightKG, a.Sex)
}

// FullName returns "First Last" for roster listings.
func (a *Athlete) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func ageAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

func divisionForAge(age int) string {
	switch {
	case age <= 5:
		return DivisionBaby
	case age <= 7:
		return DivisionPreInfantil
	case age <= 9:
		return DivisionInfantil
	case age <= 11:
		return DivisionInfantilSr
	case age <= 13:
		return DivisionCadete
	case age <= 15:
		return DivisionJunior
	case age <= 17:
		return DivisionJuvenil
	default:
		return DivisionSenior
	}
}

// levelForBelt maps belt rank to competition level: KUP 8+ is Festival,
// KUP 4-7 Noveles, KUP 1-3 and every DAN Avanzados.
func levelForBelt(belt string) string {
	kind, n, err := parseBelt(belt)
	if err != nil || kind == "DAN" {
		return LevelAvanzados
	}
	switch {
	case n >= 8:
		return LevelFestival
	case n >= 4:
		return LevelNoveles
	default:
		return LevelAvanzados
	}
}

// weightCategory returns the WT-style weight class label for the athlete.
// Female athletes use the female table regardless of the male cutoffs.
func weightCategory(kg float64, sex string) string {
	if sex == SexFemale {
		switch {
		case kg <= 46:
			return "-46kg"
		case kg <= 49:
			return "-49kg"
		case kg <= 53:
			return "-53kg"
		case kg <= 57:
			return "-57kg"
		case kg <= 62:
			return "-62kg"
		case kg <= 67:
			return "-67kg"
		case kg <= 73:
			return "-73kg"
		default:
			return "+73kg"
		}
	}
	switch {
	case kg <= 54:
		return "-54kg"
	case kg <= 58:
		return "-58kg"
	case kg <= 63:
		return "-63kg"
	case kg <= 68:
		return "-68kg"
	case kg <= 74:
		return "-74kg"
	case kg <= 80:
		return "-80kg"
	case kg <= 87:
		return "-87kg"
	default:
		return "+87kg"
	}
}

func parseBelt(belt string) (kind string, n int, err error) {
	parts := strings.SplitN(belt, "-", 2)
	if len(parts) != 2 {
		return "", 0, ErrInvalidBelt
	}
	kind = parts[0]
	if kind != "KUP" && kind != "DAN" {
		return "", 0, ErrInvalidBelt
	}
	n, convErr := strconv.Atoi(parts[1])
	if convErr != nil || n < 1 || (kind == "KUP" && n > 10) || (kind == "DAN" && n > 9) {
		return "", 0, ErrInvalidBelt
	}
	return kind, n, nil
}

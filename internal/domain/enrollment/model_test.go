package enrollment

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validAthlete() Athlete {
	return Athlete{
		FirstName: "Luis",
		LastName:  "Paredes",
		DNI:       "45678912",
		BirthDate: time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC),
		WeightKG:  52.5,
		Belt:      "KUP-5",
		Sex:       SexMale,
		Modality:  "KYORUGI",
	}
}

// TestAthlete_Validate tests athlete registration field rules.
func TestAthlete_Validate(t *testing.T) {
	valid := validAthlete()
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid athlete, got: %v", err)
	}

	tests := []struct {
		name   string
		modify func(a *Athlete)
		want   error
	}{
		{"empty first name", func(a *Athlete) { a.FirstName = " " }, ErrEmptyFirstName},
		{"empty last name", func(a *Athlete) { a.LastName = "" }, ErrEmptyLastName},
		{"short dni", func(a *Athlete) { a.DNI = "1234567" }, ErrInvalidDNI},
		{"non-numeric dni", func(a *Athlete) { a.DNI = "1234567a" }, ErrInvalidDNI},
		{"missing birth date", func(a *Athlete) { a.BirthDate = time.Time{} }, ErrMissingBirthDate},
		{"weight too low", func(a *Athlete) { a.WeightKG = 10 }, ErrInvalidWeight},
		{"weight too high", func(a *Athlete) { a.WeightKG = 250 }, ErrInvalidWeight},
		{"invalid sex", func(a *Athlete) { a.Sex = "M" }, ErrInvalidSex},
		{"invalid belt format", func(a *Athlete) { a.Belt = "ROJO" }, ErrInvalidBelt},
		{"kup out of range", func(a *Athlete) { a.Belt = "KUP-11" }, ErrInvalidBelt},
		{"dan out of range", func(a *Athlete) { a.Belt = "DAN-10" }, ErrInvalidBelt},
		{"invalid modality", func(a *Athlete) { a.Modality = "AMBAS" }, ErrInvalidModality},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := valid
			tc.modify(&a)
			if err := a.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

// TestAthlete_Categorize tests derivation of age division, level and weight class.
func TestAthlete_Categorize(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	a := validAthlete()
	a.Categorize(now)
	if a.Age != 16 {
		t.Errorf("Age = %d, want 16", a.Age)
	}
	if a.AgeDivision != DivisionJuvenil {
		t.Errorf("AgeDivision = %q, want %q", a.AgeDivision, DivisionJuvenil)
	}
	if a.Level != LevelNoveles {
		t.Errorf("Level = %q, want %q", a.Level, LevelNoveles)
	}
	if a.WeightCategory != "-54kg" {
		t.Errorf("WeightCategory = %q, want -54kg", a.WeightCategory)
	}

	// Birthday later this year: age counts from the last anniversary.
	b := validAthlete()
	b.BirthDate = time.Date(2010, 12, 25, 0, 0, 0, 0, time.UTC)
	b.Categorize(now)
	if b.Age != 15 {
		t.Errorf("pre-birthday Age = %d, want 15", b.Age)
	}
	if b.AgeDivision != DivisionJunior {
		t.Errorf("pre-birthday AgeDivision = %q, want %q", b.AgeDivision, DivisionJunior)
	}
}

// TestDivisionForAge tests every age-division boundary.
func TestDivisionForAge(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{4, DivisionBaby},
		{5, DivisionBaby},
		{6, DivisionPreInfantil},
		{7, DivisionPreInfantil},
		{9, DivisionInfantil},
		{11, DivisionInfantilSr},
		{13, DivisionCadete},
		{15, DivisionJunior},
		{17, DivisionJuvenil},
		{18, DivisionSenior},
		{35, DivisionSenior},
	}
	for _, tc := range tests {
		if got := divisionForAge(tc.age); got != tc.want {
			t.Errorf("divisionForAge(%d) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

// TestLevelForBelt tests belt-to-level mapping.
func TestLevelForBelt(t *testing.T) {
	tests := []struct {
		belt string
		want string
	}{
		{"KUP-10", LevelFestival},
		{"KUP-8", LevelFestival},
		{"KUP-7", LevelNoveles},
		{"KUP-4", LevelNoveles},
		{"KUP-3", LevelAvanzados},
		{"KUP-1", LevelAvanzados},
		{"DAN-1", LevelAvanzados},
		{"DAN-4", LevelAvanzados},
	}
	for _, tc := range tests {
		if got := levelForBelt(tc.belt); got != tc.want {
			t.Errorf("levelForBelt(%q) = %q, want %q", tc.belt, got, tc.want)
		}
	}
}

// TestWeightCategory tests the male and female weight tables.
func TestWeightCategory(t *testing.T) {
	tests := []struct {
		kg   float64
		sex  string
		want string
	}{
		{54, SexMale, "-54kg"},
		{54.1, SexMale, "-58kg"},
		{68, SexMale, "-68kg"},
		{87, SexMale, "-87kg"},
		{95, SexMale, "+87kg"},
		{46, SexFemale, "-46kg"},
		{46.5, SexFemale, "-49kg"},
		{62, SexFemale, "-62kg"},
		{73, SexFemale, "-73kg"},
		{80, SexFemale, "+73kg"},
		// A weight under every male cutoff still uses the female table.
		{40, SexFemale, "-46kg"},
	}
	for _, tc := range tests {
		if got := weightCategory(tc.kg, tc.sex); got != tc.want {
			t.Errorf("weightCategory(%v, %s) = %q, want %q", tc.kg, tc.sex, got, tc.want)
		}
	}
}

// TestEnrollment_Validate tests enrollment invariants.
func TestEnrollment_Validate(t *testing.T) {
	e := Enrollment{
		ID:        "n1",
		EventID:   "e1",
		AcademyID: "a1",
		Athletes:  []Athlete{validAthlete()},
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("expected valid enrollment, got: %v", err)
	}

	noEvent := e
	noEvent.EventID = ""
	if err := noEvent.Validate(); !errors.Is(err, ErrMissingEventID) {
		t.Errorf("missing event: got %v", err)
	}

	noAcademy := e
	noAcademy.AcademyID = ""
	if err := noAcademy.Validate(); !errors.Is(err, ErrMissingAcademyID) {
		t.Errorf("missing academy: got %v", err)
	}

	empty := e
	empty.Athletes = nil
	if err := empty.Validate(); !errors.Is(err, ErrNoAthletes) {
		t.Errorf("empty roster: got %v", err)
	}

	badAthlete := e
	badAthlete.Athletes = []Athlete{validAthlete(), {}}
	err := badAthlete.Validate()
	if err == nil || !strings.Contains(err.Error(), "athlete 1:") {
		t.Errorf("invalid athlete: got %v, want position-wrapped error", err)
	}
}

// TestEnrollment_RemoveAthlete tests roster removal including the
// last-athlete case that obliges deleting the enrollment.
func TestEnrollment_RemoveAthlete(t *testing.T) {
	a := validAthlete()
	b := validAthlete()
	b.DNI = "11223344"
	e := Enrollment{EventID: "e1", AcademyID: "a1", Athletes: []Athlete{a, b}}

	empty, err := e.RemoveAthlete(0)
	if err != nil {
		t.Fatalf("RemoveAthlete: %v", err)
	}
	if empty {
		t.Error("roster with one athlete left should not report empty")
	}
	if e.Size() != 1 || e.Athletes[0].DNI != "11223344" {
		t.Errorf("unexpected roster after removal: %+v", e.Athletes)
	}

	empty, err = e.RemoveAthlete(0)
	if err != nil {
		t.Fatalf("RemoveAthlete: %v", err)
	}
	if !empty {
		t.Error("removing the last athlete must report empty")
	}

	if _, err := e.RemoveAthlete(0); !errors.Is(err, ErrAthleteIndex) {
		t.Errorf("out-of-range removal: got %v", err)
	}
}

// TestEnrollment_ReplaceAthlete tests in-place athlete edits.
func TestEnrollment_ReplaceAthlete(t *testing.T) {
	e := Enrollment{EventID: "e1", AcademyID: "a1", Athletes: []Athlete{validAthlete()}}

	edited := validAthlete()
	edited.WeightKG = 60
	if err := e.ReplaceAthlete(0, edited); err != nil {
		t.Fatalf("ReplaceAthlete: %v", err)
	}
	if e.Athletes[0].WeightKG != 60 {
		t.Errorf("WeightKG = %v, want 60", e.Athletes[0].WeightKG)
	}

	if err := e.ReplaceAthlete(5, edited); !errors.Is(err, ErrAthleteIndex) {
		t.Errorf("out-of-range replace: got %v", err)
	}
}

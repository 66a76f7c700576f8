package academy

import (
	"errors"
	"testing"
)

func validAcademy() Academy {
	return Academy{
		ID:                 "a1",
		Name:               "Academia Tigres del Norte",
		Abbreviation:       "TDN",
		RepresentativeName: "Carmen Quispe",
		RepresentativeDNI:  "40404040",
		Phone:              "+51 999 888 777",
		Email:              "tigres@example.com",
	}
}

// TestAcademy_Normalize tests canonicalization of stored fields.
func TestAcademy_Normalize(t *testing.T) {
	a := Academy{
		Name:               "  Dragones Rojos ",
		Abbreviation:       " drg ",
		RepresentativeName: " Juan Soto ",
		RepresentativeDNI:  " 12345678 ",
	}
	a.Normalize()
	if a.Name != "Dragones Rojos" {
		t.Errorf("Name = %q", a.Name)
	}
	if a.Abbreviation != "DRG" {
		t.Errorf("Abbreviation = %q, want DRG", a.Abbreviation)
	}
	if a.RepresentativeDNI != "12345678" {
		t.Errorf("RepresentativeDNI = %q", a.RepresentativeDNI)
	}
}

// TestAcademy_Validate tests profile validation rules.
func TestAcademy_Validate(t *testing.T) {
	valid := validAcademy()
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid academy, got: %v", err)
	}

	tests := []struct {
		name   string
		modify func(a *Academy)
		want   error
	}{
		{"empty name", func(a *Academy) { a.Name = "" }, ErrEmptyName},
		{"empty abbreviation", func(a *Academy) { a.Abbreviation = "" }, ErrEmptyAbbreviation},
		{"abbreviation too short", func(a *Academy) { a.Abbreviation = "X" }, ErrInvalidAbbreviation},
		{"lowercase abbreviation", func(a *Academy) { a.Abbreviation = "tdn" }, ErrInvalidAbbreviation},
		{"empty representative", func(a *Academy) { a.RepresentativeName = "" }, ErrEmptyRepresentative},
		{"bad dni", func(a *Academy) { a.RepresentativeDNI = "123" }, ErrInvalidDNI},
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

// TestAcademy_DisplayName prefers the abbreviation.
func TestAcademy_DisplayName(t *testing.T) {
	a := validAcademy()
	if got := a.DisplayName(); got != "TDN" {
		t.Errorf("DisplayName() = %q, want TDN", got)
	}
	a.Abbreviation = ""
	if got := a.DisplayName(); got != a.Name {
		t.Errorf("DisplayName() = %q, want full name", got)
	}
}

package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/email"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/academy"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/account"
)

// AccountStoreForRegister defines the account store interface needed by RegisterAcademy.
type AccountStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// AcademyStoreForRegister defines the academy store interface needed by RegisterAcademy.
type AcademyStoreForRegister interface {
	GetByAbbreviation(ctx context.Context, abbreviation string) (academy.Academy, error)
	GetByRepresentativeDNI(ctx context.Context, dni string) (academy.Academy, error)
	Save(ctx context.Context, a academy.Academy) error
}

// RegisterAcademyInput carries the sign-up form fields.
type RegisterAcademyInput struct {
	Email              string
	Password           string
	Name               string
	Abbreviation       string
	RepresentativeName string
	RepresentativeDNI  string
	Phone              string
	ContactEmail       string
}

// RegisterAcademyDeps holds dependencies for RegisterAcademy.
type RegisterAcademyDeps struct {
	AccountStore AccountStoreForRegister
	AcademyStore AcademyStoreForRegister
	Invalidator  CacheInvalidator
	Email        email.Sender
	EmailFrom    string
	Now          Clock
}

var (
	ErrEmailAlreadyExists        = errors.New("an account with this email already exists")
	ErrAbbreviationAlreadyExists = errors.New("an academy with this abbreviation already exists")
	ErrDNIAlreadyExists          = errors.New("an academy with this representative DNI already exists")
)

// ExecuteRegisterAcademy creates the login account and academy profile in one step.
// PRE: Valid email, password >= 8 chars, academy fields per domain rules
// POST: Account and academy saved under one ID; welcome email queued
// INVARIANT: Email, abbreviation, and representative DNI are unique
func ExecuteRegisterAcademy(ctx context.Context, input RegisterAcademyInput, deps RegisterAcademyDeps) (string, error) {
	now := deps.Now()

	acad := academy.Academy{
		ID:                 uuid.New().String(),
		Name:               input.Name,
		Abbreviation:       input.Abbreviation,
		RepresentativeName: input.RepresentativeName,
		RepresentativeDNI:  input.RepresentativeDNI,
		Phone:              input.Phone,
		Email:              input.ContactEmail,
		CreatedAt:          now,
	}
	acad.Normalize()
	if err := acad.Validate(); err != nil {
		return "", err
	}

	acct := account.Account{
		ID:        acad.ID,
		Email:     input.Email,
		Role:      account.RoleAcademy,
		CreatedAt: now,
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	// Uniqueness checks before any write
	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailAlreadyExists
	}
	if _, err := deps.AcademyStore.GetByAbbreviation(ctx, acad.Abbreviation); err == nil {
		return "", ErrAbbreviationAlreadyExists
	}
	if _, err := deps.AcademyStore.GetByRepresentativeDNI(ctx, acad.RepresentativeDNI); err == nil {
		return "", ErrDNIAlreadyExists
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}
	if err := deps.AcademyStore.Save(ctx, acad); err != nil {
		return "", err
	}

	deps.Invalidator.InvalidateAll()
	slog.Info("auth_event", "event", "academy_registered", "email", input.Email, "abbreviation", acad.Abbreviation)

	if deps.Email != nil {
		_, err := deps.Email.Send(ctx, email.SendRequest{
			To:      []string{input.Email},
			From:    deps.EmailFrom,
			Subject: "Bienvenido a MEXXUS ARENA",
			HTML: fmt.Sprintf("<p>Hola %s,</p><p>Tu academia <strong>%s</strong> ya puede inscribir atletas en los próximos eventos.</p>",
				acad.RepresentativeName, acad.DisplayName()),
		})
		if err != nil {
			// Registration already succeeded; a lost welcome mail is not fatal.
			slog.Warn("welcome_email_failed", "email", input.Email, "error", err.Error())
		}
	}

	return acad.ID, nil
}

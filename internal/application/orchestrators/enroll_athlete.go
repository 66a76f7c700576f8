package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/email"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// EventStoreForEnroll defines the event store interface needed by the
// enrollment orchestrators.
type EventStoreForEnroll interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

// EnrollmentStoreForEnroll defines the enrollment store interface needed by
// the enrollment orchestrators.
type EnrollmentStoreForEnroll interface {
	GetByID(ctx context.Context, id string) (enrollment.Enrollment, error)
	ListByEvent(ctx context.Context, eventID string) ([]enrollment.Enrollment, error)
	Save(ctx context.Context, e enrollment.Enrollment) error
	Delete(ctx context.Context, id string) error
}

// AthleteInput carries one athlete's form fields.
type AthleteInput struct {
	FirstName string
	LastName  string
	DNI       string
	BirthDate string // YYYY-MM-DD
	WeightKG  float64
	Belt      string
	Sex       string
	Modality  string
}

// EnrollAthleteInput identifies the event and the athlete to add.
type EnrollAthleteInput struct {
	EventID string
	Athlete AthleteInput
	// NotifyEmail receives the confirmation mail; empty skips notification.
	NotifyEmail string
}

// EnrollDeps holds dependencies shared by the enrollment orchestrators.
type EnrollDeps struct {
	EventStore      EventStoreForEnroll
	EnrollmentStore EnrollmentStoreForEnroll
	Invalidator     CacheInvalidator
	Email           email.Sender
	EmailFrom       string
	Now             Clock
}

var (
	ErrEnrollmentClosed   = errors.New("enrollment for this event is closed")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotEnrollmentOwner = errors.New("enrollment belongs to another academy")
)

// ExecuteEnrollAthlete adds one athlete to the academy's enrollment for the
// event, creating the enrollment when the academy has none yet. When the
// academy already has several (a data anomaly), the most recently updated one
// is treated as canonical.
// PRE: principalID is the enrolling academy's account ID
// POST: Athlete appended with derived categories; caches invalidated
func ExecuteEnrollAthlete(ctx context.Context, input EnrollAthleteInput, principalID string, deps EnrollDeps) (string, error) {
	now := deps.Now()

	ev, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		return "", ErrEventNotFound
	}
	if !ev.AcceptsEnrollments(now) {
		return "", ErrEnrollmentClosed
	}

	athlete, err := buildAthlete(input.Athlete, now)
	if err != nil {
		return "", err
	}

	enr, found, err := canonicalEnrollment(ctx, deps.EnrollmentStore, input.EventID, principalID)
	if err != nil {
		return "", err
	}
	if !found {
		enr = enrollment.Enrollment{
			ID:        uuid.New().String(),
			EventID:   input.EventID,
			AcademyID: principalID,
			CreatedAt: now,
		}
	}
	enr.AddAthlete(athlete)
	enr.UpdatedAt = now

	if err := enr.Validate(); err != nil {
		return "", err
	}
	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return "", err
	}
	deps.Invalidator.InvalidateAll()

	slog.Info("enrollment_event", "event", "athlete_enrolled",
		"enrollment_id", enr.ID, "event_id", input.EventID,
		"academy_id", principalID, "athletes", enr.Size())

	if deps.Email != nil && !found && input.NotifyEmail != "" {
		_, err := deps.Email.Send(ctx, email.SendRequest{
			To:      []string{input.NotifyEmail},
			From:    deps.EmailFrom,
			Subject: "Inscripción registrada: " + ev.Name,
			HTML: fmt.Sprintf("<p>Tu academia quedó inscrita en <strong>%s</strong> (%s).</p>",
				ev.Name, ev.ModalityLabel()),
		})
		if err != nil {
			slog.Warn("enrollment_email_failed", "enrollment_id", enr.ID, "error", err.Error())
		}
	}

	return enr.ID, nil
}

// buildAthlete validates the form fields and derives the athlete's
// competition categories as of now.
func buildAthlete(input AthleteInput, now time.Time) (enrollment.Athlete, error) {
	birth, err := time.Parse("2006-01-02", input.BirthDate)
	if err != nil {
		return enrollment.Athlete{}, fmt.Errorf("invalid birth date %q: %w", input.BirthDate, err)
	}
	a := enrollment.Athlete{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		DNI:       input.DNI,
		BirthDate: birth,
		WeightKG:  input.WeightKG,
		Belt:      input.Belt,
		Sex:       input.Sex,
		Modality:  input.Modality,
	}
	if err := a.Validate(); err != nil {
		return enrollment.Athlete{}, err
	}
	a.Categorize(now)
	return a, nil
}

// canonicalEnrollment finds the academy's enrollment for the event.
// Duplicates resolve to the most recently updated, matching the aggregator.
func canonicalEnrollment(ctx context.Context, store EnrollmentStoreForEnroll, eventID, academyID string) (enrollment.Enrollment, bool, error) {
	all, err := store.ListByEvent(ctx, eventID)
	if err != nil {
		return enrollment.Enrollment{}, false, err
	}
	var canonical enrollment.Enrollment
	found := false
	for _, e := range all {
		if e.AcademyID != academyID {
			continue
		}
		if !found || !e.UpdatedAt.Before(canonical.UpdatedAt) {
			canonical = e
			found = true
		}
	}
	return canonical, found, nil
}

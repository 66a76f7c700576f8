package orchestrators

import (
	"context"
	"log/slog"
)

// UpdateAthleteInput identifies the athlete to replace within an enrollment.
type UpdateAthleteInput struct {
	EnrollmentID string
	AthleteIndex int
	Athlete      AthleteInput
}

// ExecuteUpdateAthlete replaces one athlete in the academy's enrollment,
// re-deriving the competition categories from the new fields.
// PRE: principalID owns the enrollment
// POST: Athlete replaced in place; caches invalidated
func ExecuteUpdateAthlete(ctx context.Context, input UpdateAthleteInput, principalID string, deps EnrollDeps) error {
	now := deps.Now()

	enr, err := deps.EnrollmentStore.GetByID(ctx, input.EnrollmentID)
	if err != nil {
		return ErrEnrollmentNotFound
	}
	if enr.AcademyID != principalID {
		return ErrNotEnrollmentOwner
	}

	athlete, err := buildAthlete(input.Athlete, now)
	if err != nil {
		return err
	}
	if err := enr.ReplaceAthlete(input.AthleteIndex, athlete); err != nil {
		return err
	}
	enr.UpdatedAt = now

	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return err
	}
	deps.Invalidator.InvalidateAll()

	slog.Info("enrollment_event", "event", "athlete_updated",
		"enrollment_id", enr.ID, "index", input.AthleteIndex, "academy_id", principalID)
	return nil
}

// RemoveAthleteInput identifies the athlete to drop from an enrollment.
type RemoveAthleteInput struct {
	EnrollmentID string
	AthleteIndex int
}

// ExecuteRemoveAthlete drops one athlete from the academy's enrollment.
// Removing the last athlete deletes the enrollment itself; an enrollment is
// never left with an empty roster.
// PRE: principalID owns the enrollment
// POST: Athlete removed, or whole enrollment deleted when it was the last one
func ExecuteRemoveAthlete(ctx context.Context, input RemoveAthleteInput, principalID string, deps EnrollDeps) error {
	enr, err := deps.EnrollmentStore.GetByID(ctx, input.EnrollmentID)
	if err != nil {
		return ErrEnrollmentNotFound
	}
	if enr.AcademyID != principalID {
		return ErrNotEnrollmentOwner
	}

	empty, err := enr.RemoveAthlete(input.AthleteIndex)
	if err != nil {
		return err
	}

	if empty {
		if err := deps.EnrollmentStore.Delete(ctx, enr.ID); err != nil {
			return err
		}
		deps.Invalidator.InvalidateAll()
		slog.Info("enrollment_event", "event", "enrollment_deleted_empty",
			"enrollment_id", enr.ID, "academy_id", principalID)
		return nil
	}

	enr.UpdatedAt = deps.Now()
	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return err
	}
	deps.Invalidator.InvalidateAll()

	slog.Info("enrollment_event", "event", "athlete_removed",
		"enrollment_id", enr.ID, "index", input.AthleteIndex, "remaining", enr.Size())
	return nil
}

// ExecuteCancelEnrollment deletes the academy's whole enrollment for an event.
// PRE: principalID owns the enrollment, or isAdmin is true
// POST: Enrollment gone; caches invalidated
func ExecuteCancelEnrollment(ctx context.Context, enrollmentID, principalID string, isAdmin bool, deps EnrollDeps) error {
	enr, err := deps.EnrollmentStore.GetByID(ctx, enrollmentID)
	if err != nil {
		return ErrEnrollmentNotFound
	}
	if !isAdmin && enr.AcademyID != principalID {
		return ErrNotEnrollmentOwner
	}

	if err := deps.EnrollmentStore.Delete(ctx, enrollmentID); err != nil {
		return err
	}
	deps.Invalidator.InvalidateAll()

	slog.Info("enrollment_event", "event", "enrollment_cancelled",
		"enrollment_id", enrollmentID, "event_id", enr.EventID, "by", principalID)
	return nil
}

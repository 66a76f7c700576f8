package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
)

func enrollDeps(events *mockEventStore, enrollments *mockEnrollmentStore, inv *countingInvalidator) EnrollDeps {
	return EnrollDeps{
		EventStore:      events,
		EnrollmentStore: enrollments,
		Invalidator:     inv,
		Now:             fixedNow,
	}
}

func TestExecuteEnrollAthlete_CreatesEnrollment(t *testing.T) {
	events := newMockEventStore()
	events.events["E1"] = upcomingEvent("E1")
	enrollments := newMockEnrollmentStore()
	inv := &countingInvalidator{}

	id, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1",
		Athlete: validAthleteInput(),
	}, "A1", enrollDeps(events, enrollments, inv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enr := enrollments.enrollments[id]
	if enr.EventID != "E1" || enr.AcademyID != "A1" {
		t.Errorf("enrollment keys = (%q, %q)", enr.EventID, enr.AcademyID)
	}
	if len(enr.Athletes) != 1 {
		t.Fatalf("athletes = %d, want 1", len(enr.Athletes))
	}
	a := enr.Athletes[0]
	if a.Age != 14 || a.AgeDivision != enrollment.DivisionJunior {
		t.Errorf("derived age/division = (%d, %q), want (14, Junior)", a.Age, a.AgeDivision)
	}
	if a.Level != enrollment.LevelNoveles {
		t.Errorf("Level = %q, want Noveles for KUP-6", a.Level)
	}
	if a.WeightCategory != "-46kg" {
		t.Errorf("WeightCategory = %q, want -46kg", a.WeightCategory)
	}
	if inv.calls != 1 {
		t.Errorf("invalidations = %d, want 1", inv.calls)
	}
}

func TestExecuteEnrollAthlete_AppendsToExisting(t *testing.T) {
	events := newMockEventStore()
	events.events["E1"] = upcomingEvent("E1")
	enrollments := newMockEnrollmentStore()
	deps := enrollDeps(events, enrollments, &countingInvalidator{})

	first, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: validAthleteInput(),
	}, "A1", deps)
	if err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}

	second := validAthleteInput()
	second.DNI = "87654321"
	secondID, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: second,
	}, "A1", deps)
	if err != nil {
		t.Fatalf("second enroll failed: %v", err)
	}

	if secondID != first {
		t.Errorf("second enroll created new enrollment %q, want append to %q", secondID, first)
	}
	if n := len(enrollments.enrollments[first].Athletes); n != 2 {
		t.Errorf("athletes = %d, want 2", n)
	}
	if len(enrollments.enrollments) != 1 {
		t.Errorf("enrollments = %d, want 1", len(enrollments.enrollments))
	}
}

func TestExecuteEnrollAthlete_SeparateAcademiesSeparateEnrollments(t *testing.T) {
	events := newMockEventStore()
	events.events["E1"] = upcomingEvent("E1")
	enrollments := newMockEnrollmentStore()
	deps := enrollDeps(events, enrollments, &countingInvalidator{})

	if _, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: validAthleteInput(),
	}, "A1", deps); err != nil {
		t.Fatalf("A1 enroll failed: %v", err)
	}
	if _, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: validAthleteInput(),
	}, "A2", deps); err != nil {
		t.Fatalf("A2 enroll failed: %v", err)
	}
	if len(enrollments.enrollments) != 2 {
		t.Errorf("enrollments = %d, want 2", len(enrollments.enrollments))
	}
}

func TestExecuteEnrollAthlete_ClosedEvent(t *testing.T) {
	events := newMockEventStore()
	closed := upcomingEvent("E1")
	closed.RegistrationDeadline = fixedTime.AddDate(0, 0, -2)
	events.events["E1"] = closed
	deps := enrollDeps(events, newMockEnrollmentStore(), &countingInvalidator{})

	_, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: validAthleteInput(),
	}, "A1", deps)
	if !errors.Is(err, ErrEnrollmentClosed) {
		t.Errorf("err = %v, want ErrEnrollmentClosed", err)
	}
}

func TestExecuteEnrollAthlete_UnknownEvent(t *testing.T) {
	deps := enrollDeps(newMockEventStore(), newMockEnrollmentStore(), &countingInvalidator{})

	_, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "missing", Athlete: validAthleteInput(),
	}, "A1", deps)
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
}

func TestExecuteEnrollAthlete_InvalidAthleteRejected(t *testing.T) {
	events := newMockEventStore()
	events.events["E1"] = upcomingEvent("E1")
	enrollments := newMockEnrollmentStore()
	deps := enrollDeps(events, enrollments, &countingInvalidator{})

	bad := validAthleteInput()
	bad.DNI = "12"
	if _, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: bad,
	}, "A1", deps); err == nil {
		t.Fatal("invalid DNI accepted")
	}
	if len(enrollments.enrollments) != 0 {
		t.Error("enrollment persisted despite invalid athlete")
	}
}

func TestExecuteUpdateAthlete(t *testing.T) {
	events := newMockEventStore()
	events.events["E1"] = upcomingEvent("E1")
	enrollments := newMockEnrollmentStore()
	deps := enrollDeps(events, enrollments, &countingInvalidator{})

	id, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: validAthleteInput(),
	}, "A1", deps)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	updated := validAthleteInput()
	updated.WeightKG = 50
	updated.Belt = "DAN-1"
	if err := ExecuteUpdateAthlete(context.Background(), UpdateAthleteInput{
		EnrollmentID: id, AthleteIndex: 0, Athlete: updated,
	}, "A1", deps); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	a := enrollments.enrollments[id].Athletes[0]
	if a.WeightKG != 50 {
		t.Errorf("WeightKG = %v, want 50", a.WeightKG)
	}
	if a.Level != enrollment.LevelAvanzados {
		t.Errorf("Level = %q, want Avanzados after DAN-1", a.Level)
	}

	// Ownership is enforced.
	if err := ExecuteUpdateAthlete(context.Background(), UpdateAthleteInput{
		EnrollmentID: id, AthleteIndex: 0, Athlete: updated,
	}, "A2", deps); !errors.Is(err, ErrNotEnrollmentOwner) {
		t.Errorf("err = %v, want ErrNotEnrollmentOwner", err)
	}
}

func TestExecuteRemoveAthlete_LastAthleteDeletesEnrollment(t *testing.T) {
	events := newMockEventStore()
	events.events["E1"] = upcomingEvent("E1")
	enrollments := newMockEnrollmentStore()
	deps := enrollDeps(events, enrollments, &countingInvalidator{})

	id, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: validAthleteInput(),
	}, "A1", deps)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if err := ExecuteRemoveAthlete(context.Background(), RemoveAthleteInput{
		EnrollmentID: id, AthleteIndex: 0,
	}, "A1", deps); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if _, ok := enrollments.enrollments[id]; ok {
		t.Error("enrollment still listed after its last athlete was removed")
	}
}

func TestExecuteRemoveAthlete_KeepsNonEmptyRoster(t *testing.T) {
	events := newMockEventStore()
	events.events["E1"] = upcomingEvent("E1")
	enrollments := newMockEnrollmentStore()
	deps := enrollDeps(events, enrollments, &countingInvalidator{})

	id, _ := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: validAthleteInput(),
	}, "A1", deps)
	second := validAthleteInput()
	second.DNI = "87654321"
	if _, err := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: second,
	}, "A1", deps); err != nil {
		t.Fatalf("second enroll failed: %v", err)
	}

	if err := ExecuteRemoveAthlete(context.Background(), RemoveAthleteInput{
		EnrollmentID: id, AthleteIndex: 0,
	}, "A1", deps); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	enr, ok := enrollments.enrollments[id]
	if !ok {
		t.Fatal("enrollment deleted despite remaining athletes")
	}
	if len(enr.Athletes) != 1 || enr.Athletes[0].DNI != "87654321" {
		t.Errorf("remaining roster = %+v", enr.Athletes)
	}
}

func TestExecuteCancelEnrollment(t *testing.T) {
	events := newMockEventStore()
	events.events["E1"] = upcomingEvent("E1")
	enrollments := newMockEnrollmentStore()
	deps := enrollDeps(events, enrollments, &countingInvalidator{})

	id, _ := ExecuteEnrollAthlete(context.Background(), EnrollAthleteInput{
		EventID: "E1", Athlete: validAthleteInput(),
	}, "A1", deps)

	// Another academy cannot cancel it.
	if err := ExecuteCancelEnrollment(context.Background(), id, "A2", false, deps); !errors.Is(err, ErrNotEnrollmentOwner) {
		t.Errorf("err = %v, want ErrNotEnrollmentOwner", err)
	}

	// An admin can.
	if err := ExecuteCancelEnrollment(context.Background(), id, "admin1", true, deps); err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if len(enrollments.enrollments) != 0 {
		t.Error("enrollment still present after cancel")
	}
}

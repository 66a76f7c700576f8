package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage"
	domain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	// Enrollment rows reference an event row via foreign key.
	_, err = db.Exec(`INSERT INTO event (id, name, date, venue, modality, description, created_by, created_at, updated_at)
		VALUES ('ev1', 'Copa Nacional', '2026-10-01T00:00:00Z', 'Coliseo Central', 'KYORUGI', '', 'admin1', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z'),
		       ('ev2', 'Open Lima', '2026-11-01T00:00:00Z', 'Polideportivo', 'POOMSAE', '', 'admin1', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	if err != nil {
		t.Fatalf("failed to seed events: %v", err)
	}
	return NewSQLiteStore(db)
}

func testAthlete(dni string) domain.Athlete {
	return domain.Athlete{
		FirstName:      "Maria",
		LastName:       "Quispe",
		DNI:            dni,
		BirthDate:      time.Date(2012, 3, 15, 0, 0, 0, 0, time.UTC),
		WeightKG:       42.5,
		Belt:           "KUP-6",
		Sex:            domain.SexFemale,
		Modality:       "KYORUGI",
		Age:            14,
		AgeDivision:    domain.DivisionJunior,
		Level:          domain.LevelNoveles,
		WeightCategory: "-46 KG",
	}
}

func testEnrollment(id, eventID, academyID string, athletes ...domain.Athlete) domain.Enrollment {
	return domain.Enrollment{
		ID:        id,
		EventID:   eventID,
		AcademyID: academyID,
		Athletes:  athletes,
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStore_SaveAndGet_RosterRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a1 := testAthlete("11111111")
	a2 := testAthlete("22222222")
	a2.FirstName = "Jorge"
	a2.Sex = domain.SexMale
	a2.WeightCategory = "-54 KG"

	e := testEnrollment("en1", "ev1", "ac1", a1, a2)
	if err := store.Save(ctx, e); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetByID(ctx, "en1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.EventID != "ev1" || got.AcademyID != "ac1" {
		t.Errorf("keys mismatch: got event=%q academy=%q", got.EventID, got.AcademyID)
	}
	if len(got.Athletes) != 2 {
		t.Fatalf("got %d athletes, want 2", len(got.Athletes))
	}
	if got.Athletes[0] != a1 {
		t.Errorf("athlete[0] = %+v, want %+v", got.Athletes[0], a1)
	}
	if got.Athletes[1].FirstName != "Jorge" || got.Athletes[1].WeightCategory != "-54 KG" {
		t.Errorf("athlete[1] = %+v", got.Athletes[1])
	}
}

func TestSQLiteStore_Save_UpdatesRosterOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := testEnrollment("en1", "ev1", "ac1", testAthlete("11111111"))
	if err := store.Save(ctx, e); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	e.Athletes = append(e.Athletes, testAthlete("22222222"))
	e.UpdatedAt = e.UpdatedAt.Add(time.Hour)
	if err := store.Save(ctx, e); err != nil {
		t.Fatalf("Save (update) failed: %v", err)
	}

	got, err := store.GetByID(ctx, "en1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Athletes) != 2 {
		t.Errorf("got %d athletes, want 2", len(got.Athletes))
	}
	if !got.UpdatedAt.Equal(e.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, e.UpdatedAt)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v", got.CreatedAt)
	}
}

func TestSQLiteStore_ListByEventAndAcademy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, e := range []domain.Enrollment{
		testEnrollment("en1", "ev1", "ac1", testAthlete("11111111")),
		testEnrollment("en2", "ev1", "ac2", testAthlete("22222222")),
		testEnrollment("en3", "ev2", "ac1", testAthlete("33333333")),
	} {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save %s failed: %v", e.ID, err)
		}
	}

	byEvent, err := store.ListByEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("ListByEvent failed: %v", err)
	}
	if len(byEvent) != 2 {
		t.Errorf("ListByEvent(ev1) = %d enrollments, want 2", len(byEvent))
	}

	byAcademy, err := store.ListByAcademy(ctx, "ac1")
	if err != nil {
		t.Fatalf("ListByAcademy failed: %v", err)
	}
	if len(byAcademy) != 2 {
		t.Errorf("ListByAcademy(ac1) = %d enrollments, want 2", len(byAcademy))
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAll = %d enrollments, want 3", len(all))
	}
}

func TestSQLiteStore_DeleteByEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, e := range []domain.Enrollment{
		testEnrollment("en1", "ev1", "ac1", testAthlete("11111111")),
		testEnrollment("en2", "ev1", "ac2", testAthlete("22222222")),
		testEnrollment("en3", "ev2", "ac1", testAthlete("33333333")),
	} {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save %s failed: %v", e.ID, err)
		}
	}

	if err := store.DeleteByEvent(ctx, "ev1"); err != nil {
		t.Fatalf("DeleteByEvent failed: %v", err)
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != "en3" {
		t.Errorf("after DeleteByEvent(ev1) remaining = %v, want [en3]", all)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testEnrollment("en1", "ev1", "ac1", testAthlete("11111111"))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "en1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, "en1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
}

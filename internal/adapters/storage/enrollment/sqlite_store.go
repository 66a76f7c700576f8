package enrollment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage"
	domain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
)

const timeLayout = time.RFC3339

// athleteRecord is the JSON shape of one athlete inside the athletes column.
// The roster travels with its enrollment as a single document, matching how
// the rest of the system treats an enrollment as one unit.
type athleteRecord struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	DNI            string  `json:"dni"`
	BirthDate      string  `json:"birthDate"` // YYYY-MM-DD
	WeightKG       float64 `json:"weightKg"`
	Belt           string  `json:"belt"`
	Sex            string  `json:"sex"`
	Modality       string  `json:"modality"`
	Age            int     `json:"age"`
	AgeDivision    string  `json:"ageDivision"`
	Level          string  `json:"level"`
	WeightCategory string  `json:"weightCategory"`
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with schema applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts or updates an enrollment with its full athlete roster.
// PRE: e is a valid Enrollment (Validate() returns nil)
// POST: enrollment is persisted atomically (single row write)
func (s *SQLiteStore) Save(ctx context.Context, e domain.Enrollment) error {
	athletes, err := encodeAthletes(e.Athletes)
	if err != nil {
		return fmt.Errorf("encode athletes: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO enrollment (id, event_id, academy_id, athletes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   athletes=excluded.athletes, updated_at=excluded.updated_at`,
		e.ID, e.EventID, e.AcademyID, athletes,
		e.CreatedAt.UTC().Format(timeLayout), e.UpdatedAt.UTC().Format(timeLayout),
	)
	return err
}

// GetByID retrieves an enrollment by ID.
// PRE: id is non-empty
// POST: returns the enrollment, or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Enrollment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, event_id, academy_id, athletes, created_at, updated_at
		 FROM enrollment WHERE id = ?`, id)
	e, err := scanEnrollment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Enrollment{}, ErrNotFound
	}
	return e, err
}

// ListAll returns every enrollment.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Enrollment, error) {
	return s.list(ctx,
		`SELECT id, event_id, academy_id, athletes, created_at, updated_at FROM enrollment`)
}

// ListByEvent returns every enrollment referencing the given event.
// PRE: eventID is non-empty
func (s *SQLiteStore) ListByEvent(ctx context.Context, eventID string) ([]domain.Enrollment, error) {
	return s.list(ctx,
		`SELECT id, event_id, academy_id, athletes, created_at, updated_at
		 FROM enrollment WHERE event_id = ?`, eventID)
}

// ListByAcademy returns every enrollment made by the given academy.
// PRE: academyID is non-empty
func (s *SQLiteStore) ListByAcademy(ctx context.Context, academyID string) ([]domain.Enrollment, error) {
	return s.list(ctx,
		`SELECT id, event_id, academy_id, athletes, created_at, updated_at
		 FROM enrollment WHERE academy_id = ?`, academyID)
}

// Delete removes an enrollment by ID.
// PRE: id is non-empty
// POST: enrollment is removed from storage
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM enrollment WHERE id = ?`, id)
	return err
}

// DeleteByEvent removes every enrollment for the given event.
// PRE: eventID is non-empty
func (s *SQLiteStore) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM enrollment WHERE event_id = ?`, eventID)
	return err
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEnrollment(scan func(dest ...any) error) (domain.Enrollment, error) {
	var e domain.Enrollment
	var athletesJSON, createdStr, updatedStr string
	if err := scan(&e.ID, &e.EventID, &e.AcademyID, &athletesJSON, &createdStr, &updatedStr); err != nil {
		return e, err
	}
	athletes, err := decodeAthletes(athletesJSON)
	if err != nil {
		return e, fmt.Errorf("enrollment %s: bad athletes: %w", e.ID, err)
	}
	e.Athletes = athletes
	if e.CreatedAt, err = time.Parse(timeLayout, createdStr); err != nil {
		return e, fmt.Errorf("enrollment %s: bad created_at: %w", e.ID, err)
	}
	if e.UpdatedAt, err = time.Parse(timeLayout, updatedStr); err != nil {
		return e, fmt.Errorf("enrollment %s: bad updated_at: %w", e.ID, err)
	}
	return e, nil
}

func encodeAthletes(athletes []domain.Athlete) (string, error) {
	records := make([]athleteRecord, 0, len(athletes))
	for _, a := range athletes {
		records = append(records, athleteRecord{
			FirstName:      a.FirstName,
			LastName:       a.LastName,
			DNI:            a.DNI,
			BirthDate:      a.BirthDate.Format("2006-01-02"),
			WeightKG:       a.WeightKG,
			Belt:           a.Belt,
			Sex:            a.Sex,
			Modality:       a.Modality,
			Age:            a.Age,
			AgeDivision:    a.AgeDivision,
			Level:          a.Level,
			WeightCategory: a.WeightCategory,
		})
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeAthletes(raw string) ([]domain.Athlete, error) {
	var records []athleteRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	athletes := make([]domain.Athlete, 0, len(records))
	for _, r := range records {
		birth, err := time.Parse("2006-01-02", r.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("athlete %s: bad birth date %q: %w", r.DNI, r.BirthDate, err)
		}
		athletes = append(athletes, domain.Athlete{
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			DNI:            r.DNI,
			BirthDate:      birth,
			WeightKG:       r.WeightKG,
			Belt:           r.Belt,
			Sex:            r.Sex,
			Modality:       r.Modality,
			Age:            r.Age,
			AgeDivision:    r.AgeDivision,
			Level:          r.Level,
			WeightCategory: r.WeightCategory,
		})
	}
	return athletes, nil
}

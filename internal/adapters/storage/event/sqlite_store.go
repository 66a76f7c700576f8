package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage"
	domain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// Timestamps are stored as RFC3339 in UTC so string order matches time order.
const timeLayout = time.RFC3339

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

// Save inserts or updates an event.
// PRE: e is a valid Event (Validate() returns nil)
// POST: event is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	deadline := ""
	if !e.RegistrationDeadline.IsZero() {
		deadline = e.RegistrationDeadline.UTC().Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (id, name, date, registration_deadline, country, city, venue, modality, description, image_path, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, date=excluded.date,
		   registration_deadline=excluded.registration_deadline,
		   country=excluded.country, city=excluded.city, venue=excluded.venue,
		   modality=excluded.modality, description=excluded.description,
		   image_path=excluded.image_path, updated_at=excluded.updated_at`,
		e.ID, e.Name, e.Date.UTC().Format(timeLayout), deadline,
		e.Country, e.City, e.Venue, e.Modality, e.Description, e.ImagePath,
		e.CreatedBy, e.CreatedAt.UTC().Format(timeLayout), e.UpdatedAt.UTC().Format(timeLayout),
	)
	return err
}

// GetByID retrieves an event by ID.
// PRE: id is non-empty
// POST: returns the event, or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, date, registration_deadline, country, city, venue, modality, description, image_path, created_by, created_at, updated_at
		 FROM event WHERE id = ?`, id)
	e, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, ErrNotFound
	}
	return e, err
}

// ListUpcoming returns events dated strictly after `after`, date ascending.
// PRE: after is the reference instant; limit >= 0
// POST: at most `limit` events when limit > 0
func (s *SQLiteStore) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Event, error) {
	q := `SELECT id, name, date, registration_deadline, country, city, venue, modality, description, image_path, created_by, created_at, updated_at
	      FROM event WHERE date > ? ORDER BY date ASC`
	args := []any{after.UTC().Format(timeLayout)}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListAll returns every event, date ascending.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, date, registration_deadline, country, city, venue, modality, description, image_path, created_by, created_at, updated_at
		 FROM event ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// Delete removes an event by ID.
// PRE: id is non-empty
// POST: event is removed from storage
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM event WHERE id = ?`, id)
	return err
}

func collectEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// scanEvent decodes one row into a typed Event, failing fast on malformed
// timestamps instead of passing zero values downstream.
func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var e domain.Event
	var dateStr, createdStr, updatedStr string
	var deadlineStr sql.NullString // nullable column, NULL means no deadline
	err := scan(&e.ID, &e.Name, &dateStr, &deadlineStr, &e.Country, &e.City,
		&e.Venue, &e.Modality, &e.Description, &e.ImagePath, &e.CreatedBy,
		&createdStr, &updatedStr)
	if err != nil {
		return e, err
	}
	if e.Date, err = parseTime(dateStr); err != nil {
		return e, fmt.Errorf("event %s: bad date: %w", e.ID, err)
	}
	if e.RegistrationDeadline, err = parseTime(deadlineStr.String); err != nil {
		return e, fmt.Errorf("event %s: bad deadline: %w", e.ID, err)
	}
	if e.CreatedAt, err = parseTime(createdStr); err != nil {
		return e, fmt.Errorf("event %s: bad created_at: %w", e.ID, err)
	}
	if e.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return e, fmt.Errorf("event %s: bad updated_at: %w", e.ID, err)
	}
	return e, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

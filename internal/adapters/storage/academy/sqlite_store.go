package academy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage"
	domain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/academy"
)

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

// Save inserts or updates an academy profile.
// PRE: a is normalized and valid
// POST: profile is persisted
func (s *SQLiteStore) Save(ctx context.Context, a domain.Academy) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO academy (id, name, abbreviation, representative_name, representative_dni, phone, email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, abbreviation=excluded.abbreviation,
		   representative_name=excluded.representative_name,
		   representative_dni=excluded.representative_dni,
		   phone=excluded.phone, email=excluded.email`,
		a.ID, a.Name, a.Abbreviation, a.RepresentativeName, a.RepresentativeDNI,
		a.Phone, a.Email, a.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

// GetByID retrieves an academy by ID.
// PRE: id is non-empty
// POST: returns the academy, or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Academy, error) {
	return s.get(ctx, `WHERE id = ?`, id)
}

// GetByAbbreviation retrieves an academy by its unique abbreviation.
// PRE: abbreviation is in canonical (uppercase) form
func (s *SQLiteStore) GetByAbbreviation(ctx context.Context, abbreviation string) (domain.Academy, error) {
	return s.get(ctx, `WHERE abbreviation = ?`, abbreviation)
}

// GetByRepresentativeDNI retrieves an academy by its representative's DNI.
// PRE: dni is non-empty
func (s *SQLiteStore) GetByRepresentativeDNI(ctx context.Context, dni string) (domain.Academy, error) {
	return s.get(ctx, `WHERE representative_dni = ?`, dni)
}

// ListAll returns every registered academy, name ascending.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Academy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, abbreviation, representative_name, representative_dni, phone, email, created_at
		 FROM academy ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Academy
	for rows.Next() {
		a, err := scanAcademy(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) get(ctx context.Context, where string, arg any) (domain.Academy, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, abbreviation, representative_name, representative_dni, phone, email, created_at
		 FROM academy `+where, arg)
	a, err := scanAcademy(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Academy{}, ErrNotFound
	}
	return a, err
}

func scanAcademy(scan func(dest ...any) error) (domain.Academy, error) {
	var a domain.Academy
	var phone, email sql.NullString
	var createdStr string
	err := scan(&a.ID, &a.Name, &a.Abbreviation, &a.RepresentativeName,
		&a.RepresentativeDNI, &phone, &email, &createdStr)
	if err != nil {
		return a, err
	}
	a.Phone = phone.String
	a.Email = email.String
	if a.CreatedAt, err = time.Parse(timeLayout, createdStr); err != nil {
		return a, fmt.Errorf("academy %s: bad created_at: %w", a.ID, err)
	}
	return a, nil
}

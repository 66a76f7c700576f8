package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage"
	domain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/account"
)

const timeLayout = time.RFC3339

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.get(ctx, "id = ?", id)
}

func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.get(ctx, "email = ?", email)
}

func (s *SQLiteStore) get(ctx context.Context, where string, arg any) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at, failed_logins, locked_until
		FROM account WHERE `+where, arg)
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, ErrNotFound
	}
	return acct, err
}

func (s *SQLiteStore) Save(ctx context.Context, value domain.Account) error {
	var lockedUntil any
	if !value.LockedUntil.IsZero() {
		lockedUntil = value.LockedUntil.UTC().Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account (id, email, password_hash, role, created_at, failed_logins, locked_until)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash,
			role = excluded.role,
			failed_logins = excluded.failed_logins,
			locked_until = excluded.locked_until`,
		value.ID, value.Email, value.PasswordHash, value.Role,
		value.CreatedAt.UTC().Format(timeLayout), value.FailedLogins, lockedUntil)
	if err != nil {
		return fmt.Errorf("save account %s: %w", value.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM account WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	query := `
		SELECT id, email, password_hash, role, created_at, failed_logins, locked_until
		FROM account`
	args := []any{}
	if filter.Role != "" {
		query += ` WHERE role = ?`
		args = append(args, filter.Role)
	}
	query += ` ORDER BY created_at, id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acct)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		acct        domain.Account
		createdAt   string
		lockedUntil sql.NullString
	)
	err := row.Scan(&acct.ID, &acct.Email, &acct.PasswordHash, &acct.Role,
		&createdAt, &acct.FailedLogins, &lockedUntil)
	if err != nil {
		return domain.Account{}, err
	}
	acct.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %s: bad created_at: %w", acct.ID, err)
	}
	if lockedUntil.Valid {
		acct.LockedUntil, err = time.Parse(timeLayout, lockedUntil.String)
		if err != nil {
			return domain.Account{}, fmt.Errorf("account %s: bad locked_until: %w", acct.ID, err)
		}
	}
	return acct, nil
}

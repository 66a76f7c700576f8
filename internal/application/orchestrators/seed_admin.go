package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/account"
)

// AccountStoreForSeed defines the store interface needed by SeedAdmin.
type AccountStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, a account.Account) error
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
	Now          Clock
}

// ExecuteSeedAdmin creates the initial admin account when the database holds
// no accounts yet.
// PRE: Database is initialized
// POST: Admin account exists if count was 0; no-op otherwise
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, adminEmail, adminPassword string) error {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     adminEmail,
		Role:      account.RoleAdmin,
		CreatedAt: deps.Now(),
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := acct.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", adminEmail)
	return nil
}

package db

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/auth"
	"ems/internal/platform/config"
)

// Seed creates the bootstrap admin account and the default departments.
// It is idempotent and safe to run on every boot.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	for _, name := range []string{"Engineering", "Human Resources", "Finance", "Operations"} {
		if _, err := pool.Exec(ctx, `
      INSERT INTO departments (name, description)
      VALUES ($1, $2)
      ON CONFLICT (name) DO NOTHING
    `, name, name+" department"); err != nil {
			return err
		}
	}

	email := strings.TrimSpace(strings.ToLower(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		slog.Info("seed admin skipped, SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD unset")
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
    INSERT INTO users (name, email, password_hash, role)
    VALUES ($1, $2, $3, $4)
  `, "Administrator", email, hash, auth.RoleAdmin); err != nil {
		return err
	}
	slog.Info("seed admin created", "email", email)
	return nil
}

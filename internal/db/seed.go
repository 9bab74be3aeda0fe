package db

import (
	"context"
	"fmt"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type SeedOptions struct {
	Admin         bool
	AdminEmail    string
	AdminPassword string
}

// Seed makes sure the default statuses and, optionally, the admin account exist.
func Seed(ctx context.Context, pool *pgxpool.Pool, opts SeedOptions) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, st := range domain.DefaultStatuses {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_statuses (name, color, sort_order)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO NOTHING`,
			st.Name, st.Color, st.Order,
		); err != nil {
			return fmt.Errorf("seed status %q: %w", st.Name, err)
		}
	}

	if opts.Admin && opts.AdminEmail != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		tag, err := tx.Exec(ctx,
			`INSERT INTO users (name, email, password_hash)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (email) DO NOTHING`,
			"Admin", opts.AdminEmail, string(hash),
		)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if tag.RowsAffected() > 0 {
			logger.Info("admin user created", "email", opts.AdminEmail)
		}
	}

	return tx.Commit(ctx)
}

package candidatemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating candidates table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS candidates (
				name TEXT PRIMARY KEY,
				eliminated_week INTEGER CHECK (eliminated_week IS NULL OR eliminated_week >= 1),
				is_mol BOOLEAN NOT NULL DEFAULT FALSE,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create candidates table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping candidates table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS candidates;`); err != nil {
			return fmt.Errorf("failed to drop candidates table: %w", err)
		}
		return nil
	})
}

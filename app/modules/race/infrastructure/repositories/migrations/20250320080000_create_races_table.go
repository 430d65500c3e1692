package racemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating races table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS races (
					id UUID PRIMARY KEY,
					announcer TEXT NOT NULL,
					racer_name TEXT NOT NULL,
					race_name TEXT NOT NULL,
					score TEXT NOT NULL,
					race_date DATE NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create races table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_races_announcer_date ON races (announcer, race_date DESC);
				CREATE INDEX IF NOT EXISTS idx_races_announcer_racer ON races (announcer, racer_name);
			`); err != nil {
				return fmt.Errorf("failed to create races indexes: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping races table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS races;`); err != nil {
			return fmt.Errorf("failed to drop races table: %w", err)
		}
		return nil
	})
}

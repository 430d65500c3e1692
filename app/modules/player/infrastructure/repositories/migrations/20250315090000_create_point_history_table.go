package playermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating point_history table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS point_history (
					id BIGSERIAL PRIMARY KEY,
					run_id TEXT NOT NULL,
					player TEXT NOT NULL REFERENCES players (name) ON DELETE CASCADE,
					candidate TEXT NOT NULL,
					reason TEXT NOT NULL,
					delta INTEGER NOT NULL,
					new_total INTEGER NOT NULL,
					recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create point_history table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_point_history_run_player
					ON point_history (run_id, player);
				CREATE INDEX IF NOT EXISTS idx_point_history_player
					ON point_history (player, recorded_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create point_history indexes: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping point_history table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS point_history;`); err != nil {
			return fmt.Errorf("failed to drop point_history table: %w", err)
		}
		return nil
	})
}

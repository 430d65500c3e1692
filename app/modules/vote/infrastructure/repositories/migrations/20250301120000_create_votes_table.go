package votemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating votes table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS votes (
					id UUID PRIMARY KEY,
					player TEXT NOT NULL,
					candidate TEXT NOT NULL,
					episode INTEGER NOT NULL CHECK (episode >= 1),
					points INTEGER NOT NULL CHECK (points BETWEEN 0 AND 100),
					cast_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create votes table: %w", err)
			}

			// One vote per (player, candidate, episode) keeps "latest vote" well defined.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_player_candidate_episode
					ON votes (player, candidate, episode);
				CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes (candidate);
				CREATE INDEX IF NOT EXISTS idx_votes_episode ON votes (episode);
			`); err != nil {
				return fmt.Errorf("failed to create votes indexes: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping votes table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS votes;`); err != nil {
			return fmt.Errorf("failed to drop votes table: %w", err)
		}
		return nil
	})
}

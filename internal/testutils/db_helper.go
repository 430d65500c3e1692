package testutils

import (
	"context"
	"fmt"
	"strings"

	candidatemigrations "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories/migrations"
	playermigrations "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories/migrations"
	racemigrations "github.com/DKZomb0/Wieler/app/modules/race/infrastructure/repositories/migrations"
	votemigrations "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// appTables lists every application table, children first.
var appTables = []string{"point_history", "votes", "races", "players", "candidates"}

// RunMigrations applies every module's migrations in dependency order.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"candidate", candidatemigrations.Migrations},
		{"player", playermigrations.Migrations},
		{"vote", votemigrations.Migrations},
		{"race", racemigrations.Migrations},
	}

	for _, mod := range orderedModules {
		migrator := migrate.NewMigrator(db, mod.migrations,
			migrate.WithTableName(mod.name+"_bun_migrations"),
			migrate.WithLocksTableName(mod.name+"_bun_migration_locks"),
		)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", mod.name, err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
	}
	return nil
}

// CleanupDatabase truncates every application table.
func CleanupDatabase(ctx context.Context, db bun.IDB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

package database

import (
	"context"
	"fmt"
	"log/slog"

	"socialschema/internal/observability"
	"socialschema/internal/schema"

	"gorm.io/gorm"
)

// TableState reports whether one registry table exists in the connected store.
type TableState struct {
	Table  string
	Exists bool
}

// ApplySchema creates or extends the tables, columns, indexes and foreign keys
// described by reg. It never drops anything.
func ApplySchema(ctx context.Context, db *gorm.DB, reg *schema.Registry) error {
	observability.Logger.InfoContext(ctx, "Applying storage layout", slog.Int("tables", len(reg.Tables())))
	if err := db.WithContext(ctx).AutoMigrate(reg.Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	observability.Logger.InfoContext(ctx, "Storage layout applied")
	return nil
}

// TableStatus lists every registry table and whether it exists.
func TableStatus(ctx context.Context, db *gorm.DB, reg *schema.Registry) []TableState {
	migrator := db.WithContext(ctx).Migrator()
	out := make([]TableState, 0, len(reg.Tables()))
	for _, table := range reg.Tables() {
		out = append(out, TableState{Table: table, Exists: migrator.HasTable(table)})
	}
	return out
}

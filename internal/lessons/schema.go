package lessons

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateSchema creates the lessons table and supporting indexes. Hosts that
// manage migrations themselves can skip this and provision the table directly.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Lesson)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("lessons: create table: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_lessons_slug_unique ON lessons(slug)"); err != nil {
		return fmt.Errorf("lessons: create slug index: %w", err)
	}
	return nil
}

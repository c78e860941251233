package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations is the bun migration set for the seed catalog schema.
var Migrations = migrate.NewMigrations()

//go:embed 0001_create_quizzes.sql
var quizzesTableSQL string

func init() {
	Migrations.MustRegister(createQuizzesTable, dropQuizzesTable)
}

// createQuizzesTable adds the quizzes table read by postgres.CatalogLoader and
// written by postgres.Seeder.
func createQuizzesTable(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, quizzesTableSQL)
	return err
}

func dropQuizzesTable(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS quizzes`)
	return err
}

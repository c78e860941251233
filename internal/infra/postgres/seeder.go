package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"quizquest-service/internal/domain"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID        string      `bun:"id,pk"`
	Position  int         `bun:"position,notnull"`
	Data      domain.Quiz `bun:"data,type:jsonb,notnull"`
	UpdatedAt time.Time   `bun:"updated_at,notnull"`
}

// Seeder writes a catalog into the quizzes table.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed upserts quizzes, keeping their slice order as position.
func (s *Seeder) Seed(ctx context.Context, quizzes []domain.Quiz) (int, error) {
	if len(quizzes) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	rows := make([]quizRow, 0, len(quizzes))
	for i, quiz := range quizzes {
		rows = append(rows, quizRow{ID: quiz.ID, Position: i, Data: quiz, UpdatedAt: now})
	}

	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("position = EXCLUDED.position").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed quizzes: %w", err)
	}
	return len(rows), nil
}

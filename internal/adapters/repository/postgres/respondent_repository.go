package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type respondentRepository struct {
	db *sql.DB
}

func NewRespondentRepository(db *sql.DB) ports.RespondentRepository {
	return &respondentRepository{
		db: db,
	}
}

func (r *respondentRepository) Create(ctx context.Context, respondent *domain.Respondent) error {
	query := `INSERT INTO respondents (id) VALUES ($1) RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, respondent.ID).Scan(&respondent.CreatedAt); err != nil {
		return fmt.Errorf("failed to create respondent: %w", err)
	}
	return nil
}

func (r *respondentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM respondents WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check respondent: %w", err)
	}
	return exists, nil
}

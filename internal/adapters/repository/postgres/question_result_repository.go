package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type questionResultRepository struct {
	db *sql.DB
}

func NewQuestionResultRepository(db *sql.DB) ports.QuestionResultRepository {
	return &questionResultRepository{
		db: db,
	}
}

func (r *questionResultRepository) GetQuestionResults(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionResult, error) {
	query := `
		SELECT question_id, option_id, answer_count, last_updated_at
		FROM question_results
		WHERE question_id = $1
		ORDER BY option_id
	`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch question results: %w", err)
	}
	defer rows.Close()

	results := []domain.QuestionResult{}
	for rows.Next() {
		var res domain.QuestionResult
		if err := rows.Scan(&res.QuestionID, &res.OptionID, &res.AnswerCount, &res.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question results: %w", err)
	}
	return results, nil
}

// SummarizeAnswers recomputes per-option counts for every choice question
// of the poll. Options nobody picked are stored with a zero count.
func (r *questionResultRepository) SummarizeAnswers(ctx context.Context, pollID uuid.UUID) error {
	query := `
		INSERT INTO question_results (question_id, option_id, answer_count, last_updated_at)
		SELECT o.question_id, o.id, COUNT(ao.answer_id), NOW()
		FROM options o
		JOIN questions q ON q.id = o.question_id
		LEFT JOIN answer_options ao ON ao.option_id = o.id
		WHERE q.poll_id = $1
		GROUP BY o.question_id, o.id
		ON CONFLICT (question_id, option_id) DO UPDATE
		SET answer_count = EXCLUDED.answer_count,
		    last_updated_at = NOW();
	`

	_, err := r.db.ExecContext(ctx, query, pollID)
	if err != nil {
		return fmt.Errorf("failed to summarize answers for poll %s: %w", pollID, err)
	}

	return nil
}

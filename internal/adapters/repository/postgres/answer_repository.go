package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type answerRepository struct {
	db *sql.DB
}

func NewAnswerRepository(db *sql.DB) ports.AnswerRepository {
	return &answerRepository{
		db: db,
	}
}

func (r *answerRepository) Save(ctx context.Context, answer *domain.Answer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var text sql.NullString
	if p, ok := answer.Payload.(domain.FreeText); ok {
		text = sql.NullString{String: p.Text, Valid: true}
	}

	query := `
		INSERT INTO answers (id, question_id, respondent_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err = tx.QueryRowContext(ctx, query, answer.ID, answer.QuestionID, answer.RespondentID, text).
		Scan(&answer.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, "answers_question_respondent_key"):
			return domain.ErrDuplicateAnswer
		case isForeignKeyViolation(err, "answers_question_id_fkey"):
			return domain.ErrQuestionNotFound
		case isForeignKeyViolation(err, "answers_respondent_id_fkey"):
			return domain.ErrRespondentNotFound
		}
		return fmt.Errorf("failed to insert answer: %w", err)
	}

	if p, ok := answer.Payload.(domain.SelectedOptions); ok && len(p.OptionIDs) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO answer_options (answer_id, option_id, question_id, position)
			VALUES ($1, $2, $3, $4)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare selection statement: %w", err)
		}
		defer stmt.Close()

		for i, optionID := range p.OptionIDs {
			if _, err := stmt.ExecContext(ctx, answer.ID, optionID, answer.QuestionID, i); err != nil {
				return fmt.Errorf("failed to insert selection: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		if isForeignKeyViolation(err, "answer_options_option_fkey") {
			return domain.ErrOptionMismatch
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *answerRepository) Exists(ctx context.Context, questionID, respondentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM answers WHERE question_id = $1 AND respondent_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, questionID, respondentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing answer: %w", err)
	}
	return exists, nil
}

func (r *answerRepository) ListByRespondent(ctx context.Context, respondentID uuid.UUID) ([]*domain.Answer, error) {
	query := `
		SELECT a.id, a.question_id, a.respondent_id, a.text, a.created_at, ao.option_id
		FROM answers a
		LEFT JOIN answer_options ao ON ao.answer_id = a.id
		WHERE a.respondent_id = $1
		ORDER BY a.id, ao.position
	`
	rows, err := r.db.QueryContext(ctx, query, respondentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	answers := []*domain.Answer{}
	var current *domain.Answer
	for rows.Next() {
		var (
			a        domain.Answer
			text     sql.NullString
			optionID uuid.NullUUID
		)
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.RespondentID, &text, &a.CreatedAt, &optionID); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}

		if current == nil || current.ID != a.ID {
			if text.Valid {
				a.Payload = domain.FreeText{Text: text.String}
			} else {
				a.Payload = domain.SelectedOptions{OptionIDs: []uuid.UUID{}}
			}
			current = &a
			answers = append(answers, current)
		}

		if optionID.Valid {
			if sel, ok := current.Payload.(domain.SelectedOptions); ok {
				sel.OptionIDs = append(sel.OptionIDs, optionID.UUID)
				current.Payload = sel
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}

	return answers, nil
}

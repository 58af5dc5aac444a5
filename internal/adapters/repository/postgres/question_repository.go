package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryQuestion := `
		INSERT INTO questions (id, poll_id, title, type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err = tx.QueryRowContext(ctx, queryQuestion, question.ID, question.PollID, question.Title, question.Type).
		Scan(&question.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err, "") {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to insert question: %w", err)
	}

	if err := insertOptions(ctx, tx, question.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *questionRepository) Update(ctx context.Context, question *domain.Question, changes *ports.OptionChanges) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE questions
		SET poll_id = $2, title = $3, type = $4
		WHERE id = $1
		RETURNING created_at
	`
	err = tx.QueryRowContext(ctx, query, question.ID, question.PollID, question.Title, question.Type).
		Scan(&question.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrQuestionNotFound
		}
		if isForeignKeyViolation(err, "") {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to update question: %w", err)
	}

	if changes != nil {
		if err := applyOptionChanges(ctx, tx, question.ID, changes); err != nil {
			return err
		}
	}

	// The answered-option check is deferred, so a violation surfaces here.
	if err := tx.Commit(); err != nil {
		if isForeignKeyViolation(err, "answer_options_option_fkey") {
			return domain.ErrOptionInUse
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func applyOptionChanges(ctx context.Context, tx *sql.Tx, questionID uuid.UUID, changes *ports.OptionChanges) error {
	if len(changes.Delete) > 0 {
		var inUse bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM answer_options WHERE option_id = ANY($1))`,
			pq.Array(uuidStrings(changes.Delete)),
		).Scan(&inUse)
		if err != nil {
			return fmt.Errorf("failed to check option usage: %w", err)
		}
		if inUse {
			return domain.ErrOptionInUse
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM options WHERE question_id = $1 AND id = ANY($2)`,
			questionID, pq.Array(uuidStrings(changes.Delete)),
		)
		if err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}
	}

	for _, opt := range changes.Update {
		res, err := tx.ExecContext(ctx,
			`UPDATE options SET title = $3 WHERE id = $1 AND question_id = $2`,
			opt.ID, questionID, opt.Title,
		)
		if err != nil {
			return fmt.Errorf("failed to update option: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update option: %w", err)
		}
		if n == 0 {
			return domain.ErrOptionNotFound.WithMessage("option %s not found for this question", opt.ID)
		}
	}

	return insertOptions(ctx, tx, changes.Insert)
}

func insertOptions(ctx context.Context, tx *sql.Tx, options []domain.Option) error {
	if len(options) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO options (id, question_id, title) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		if _, err := stmt.ExecContext(ctx, opt.ID, opt.QuestionID, opt.Title); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `
		SELECT id, poll_id, title, type, created_at
		FROM questions
		WHERE id = $1
	`
	var q domain.Question
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.PollID, &q.Title, &q.Type, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	options, err := r.fetchOptions(ctx, []uuid.UUID{q.ID})
	if err != nil {
		return nil, err
	}
	q.Options = options[q.ID]
	if q.Options == nil {
		q.Options = []domain.Option{}
	}

	return &q, nil
}

func (r *questionRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Question, error) {
	query := `
		SELECT id, poll_id, title, type, created_at
		FROM questions
		WHERE poll_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := []*domain.Question{}
	var ids []uuid.UUID
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.PollID, &q.Title, &q.Type, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	options, err := r.fetchOptions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		q.Options = options[q.ID]
		if q.Options == nil {
			q.Options = []domain.Option{}
		}
	}

	return questions, nil
}

func (r *questionRepository) fetchOptions(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]domain.Option, error) {
	result := make(map[uuid.UUID][]domain.Option)
	if len(questionIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, question_id, title
		FROM options
		WHERE question_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(uuidStrings(questionIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt domain.Option
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Title); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		result[opt.QuestionID] = append(result[opt.QuestionID], opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return result, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

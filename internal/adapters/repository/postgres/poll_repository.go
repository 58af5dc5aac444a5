package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

const pollColumns = `p.id, p.title, p.description, p.start_date, p.end_date, p.created_at`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	query := `
		INSERT INTO polls (id, title, description, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, poll.ID, poll.Title, poll.Description, poll.StartDate, poll.EndDate).
		Scan(&poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

func (r *pollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	query := `
		UPDATE polls
		SET title = $2, description = $3, end_date = $4
		WHERE id = $1
		RETURNING start_date, created_at
	`
	err := r.db.QueryRowContext(ctx, query, poll.ID, poll.Title, poll.Description, poll.EndDate).
		Scan(&poll.StartDate, &poll.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to update poll: %w", err)
	}
	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if n == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls p WHERE p.id = $1`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&poll.ID, &poll.Title, &poll.Description, &poll.StartDate, &poll.EndDate, &poll.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return &poll, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls p ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all polls: %w", err)
	}
	defer rows.Close()

	return scanPolls(rows)
}

func (r *pollRepository) ListOpen(ctx context.Context, now time.Time) ([]*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		WHERE p.end_date IS NULL OR p.end_date >= $1
		ORDER BY p.id
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list open polls: %w", err)
	}
	defer rows.Close()

	return scanPolls(rows)
}

func (r *pollRepository) ListAnsweredBy(ctx context.Context, respondentID uuid.UUID) ([]*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		WHERE EXISTS (
			SELECT 1
			FROM questions q
			JOIN answers a ON a.question_id = q.id
			WHERE q.poll_id = p.id AND a.respondent_id = $1
		)
		ORDER BY p.id
	`
	rows, err := r.db.QueryContext(ctx, query, respondentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answered polls: %w", err)
	}
	defer rows.Close()

	return scanPolls(rows)
}

func scanPolls(rows *sql.Rows) ([]*domain.Poll, error) {
	polls := []*domain.Poll{}
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(&poll.ID, &poll.Title, &poll.Description, &poll.StartDate, &poll.EndDate, &poll.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

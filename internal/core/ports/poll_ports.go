package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	Update(ctx context.Context, poll *domain.Poll) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	// ListOpen returns the polls that have not ended by now, including
	// those that have not started yet.
	ListOpen(ctx context.Context, now time.Time) ([]*domain.Poll, error)
	ListAnsweredBy(ctx context.Context, respondentID uuid.UUID) ([]*domain.Poll, error)
}

// PollCache holds the open poll list between writes. A miss is reported
// with ok == false and a nil error.
type PollCache interface {
	GetActive(ctx context.Context) (polls []*domain.Poll, ok bool, err error)
	SetActive(ctx context.Context, polls []*domain.Poll) error
	Invalidate(ctx context.Context) error
}

type CreatePollInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
}

type UpdatePollInput struct {
	ID          uuid.UUID
	Title       string
	Description string
	EndDate     *time.Time
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	Update(ctx context.Context, input UpdatePollInput) (*domain.Poll, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListPolls(ctx context.Context) ([]*domain.Poll, error)
	ListActive(ctx context.Context, now time.Time) ([]*domain.Poll, error)
	History(ctx context.Context, respondentID uuid.UUID) ([]*domain.RespondentPoll, error)
	PollHistory(ctx context.Context, pollID, respondentID uuid.UUID) (*domain.RespondentPoll, error)
}

package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type RespondentRepository interface {
	Create(ctx context.Context, respondent *domain.Respondent) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type RespondentService interface {
	Register(ctx context.Context) (*domain.Respondent, error)
}

type AnswerRepository interface {
	// Save stores the answer and its selections atomically. A concurrent
	// answer for the same question and respondent yields ErrDuplicateAnswer.
	Save(ctx context.Context, answer *domain.Answer) error
	Exists(ctx context.Context, questionID, respondentID uuid.UUID) (bool, error)
	ListByRespondent(ctx context.Context, respondentID uuid.UUID) ([]*domain.Answer, error)
}

type SubmitAnswerInput struct {
	QuestionID        uuid.UUID
	RespondentID      uuid.UUID
	SelectedOptionIDs []uuid.UUID
	FreeText          *string
}

type AnswerService interface {
	Submit(ctx context.Context, input SubmitAnswerInput) (*domain.Answer, error)
}

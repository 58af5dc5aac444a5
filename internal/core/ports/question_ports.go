package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

// OptionChanges is the storage-level outcome of reconciling a question's
// submitted option list against what is stored.
type OptionChanges struct {
	Update []domain.Option
	Insert []domain.Option
	Delete []uuid.UUID
}

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	Update(ctx context.Context, question *domain.Question, changes *OptionChanges) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Question, error)
}

type CreateQuestionInput struct {
	PollID  uuid.UUID
	Title   string
	Type    domain.QuestionType
	Options []string
}

type OptionInput struct {
	ID    *uuid.UUID
	Title string
}

// UpdateQuestionInput replaces the question's fields. A nil Options leaves
// the stored options untouched.
type UpdateQuestionInput struct {
	ID      uuid.UUID
	PollID  uuid.UUID
	Title   string
	Type    domain.QuestionType
	Options []OptionInput
}

type QuestionService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	Update(ctx context.Context, input UpdateQuestionInput) (*domain.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Question, error)
	Results(ctx context.Context, id uuid.UUID) ([]domain.OptionResult, error)
}

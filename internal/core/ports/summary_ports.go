package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type QuestionResultRepository interface {
	SummarizeAnswers(ctx context.Context, pollID uuid.UUID) error
	GetQuestionResults(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionResult, error)
}

type SummaryService interface {
	SummarizeAllAnswers(ctx context.Context) error
}

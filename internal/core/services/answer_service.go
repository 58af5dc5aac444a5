package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type answerService struct {
	questionRepo   ports.QuestionRepository
	respondentRepo ports.RespondentRepository
	answerRepo     ports.AnswerRepository
	log            zerolog.Logger
}

func NewAnswerService(
	questionRepo ports.QuestionRepository,
	respondentRepo ports.RespondentRepository,
	answerRepo ports.AnswerRepository,
	log zerolog.Logger,
) ports.AnswerService {
	return &answerService{
		questionRepo:   questionRepo,
		respondentRepo: respondentRepo,
		answerRepo:     answerRepo,
		log:            log.With().Str("service", "answer").Logger(),
	}
}

// Submit records a respondent's answer to one question. Every check runs
// before anything is written; the unique index on (question, respondent)
// still decides races between concurrent submissions.
func (s *answerService) Submit(ctx context.Context, input ports.SubmitAnswerInput) (*domain.Answer, error) {
	question, err := s.questionRepo.GetByID(ctx, input.QuestionID)
	if err != nil {
		return nil, err
	}

	exists, err := s.respondentRepo.Exists(ctx, input.RespondentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrRespondentNotFound
	}

	answered, err := s.answerRepo.Exists(ctx, input.QuestionID, input.RespondentID)
	if err != nil {
		return nil, err
	}
	if answered {
		return nil, domain.ErrDuplicateAnswer
	}

	payload, err := buildPayload(question, input)
	if err != nil {
		s.log.Debug().
			Err(err).
			Stringer("question_id", input.QuestionID).
			Stringer("respondent_id", input.RespondentID).
			Msg("answer rejected")
		return nil, err
	}

	answer := &domain.Answer{
		ID:           uuid.Must(uuid.NewV7()),
		QuestionID:   question.ID,
		RespondentID: input.RespondentID,
		Payload:      payload,
	}
	if err := s.answerRepo.Save(ctx, answer); err != nil {
		if errors.Is(err, domain.ErrDuplicateAnswer) {
			s.log.Info().
				Stringer("question_id", input.QuestionID).
				Stringer("respondent_id", input.RespondentID).
				Msg("concurrent duplicate answer rejected by store")
		}
		return nil, err
	}

	s.log.Info().
		Stringer("answer_id", answer.ID).
		Stringer("question_id", answer.QuestionID).
		Str("type", string(question.Type)).
		Msg("answer recorded")
	return answer, nil
}

func buildPayload(q *domain.Question, input ports.SubmitAnswerInput) (domain.AnswerPayload, error) {
	switch q.Type {
	case domain.QuestionSingle:
		if len(input.SelectedOptionIDs) != 1 {
			return nil, domain.ErrOptionCount
		}
		if !q.HasOption(input.SelectedOptionIDs[0]) {
			return nil, domain.ErrOptionMismatch
		}
		return domain.SelectedOptions{OptionIDs: []uuid.UUID{input.SelectedOptionIDs[0]}}, nil

	case domain.QuestionMultiple:
		if len(input.SelectedOptionIDs) == 0 {
			return nil, domain.ErrMissingOptions
		}
		ids := make([]uuid.UUID, 0, len(input.SelectedOptionIDs))
		seen := make(map[uuid.UUID]struct{}, len(input.SelectedOptionIDs))
		for _, id := range input.SelectedOptionIDs {
			if !q.HasOption(id) {
				return nil, domain.ErrOptionMismatch
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return domain.SelectedOptions{OptionIDs: ids}, nil

	case domain.QuestionText:
		for _, id := range input.SelectedOptionIDs {
			if !q.HasOption(id) {
				return nil, domain.ErrOptionMismatch
			}
		}
		if input.FreeText == nil || strings.TrimSpace(*input.FreeText) == "" {
			return nil, domain.ErrMissingText
		}
		return domain.FreeText{Text: *input.FreeText}, nil
	}

	return nil, domain.InvalidField("type", "unsupported question type %q", q.Type)
}

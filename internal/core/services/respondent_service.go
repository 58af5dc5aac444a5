package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type respondentService struct {
	repo ports.RespondentRepository
	log  zerolog.Logger
}

func NewRespondentService(repo ports.RespondentRepository, log zerolog.Logger) ports.RespondentService {
	return &respondentService{
		repo: repo,
		log:  log.With().Str("service", "respondent").Logger(),
	}
}

func (s *respondentService) Register(ctx context.Context) (*domain.Respondent, error) {
	respondent := &domain.Respondent{ID: uuid.Must(uuid.NewV7())}
	if err := s.repo.Create(ctx, respondent); err != nil {
		return nil, err
	}
	s.log.Debug().Stringer("respondent_id", respondent.ID).Msg("respondent registered")
	return respondent, nil
}

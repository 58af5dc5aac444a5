package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type summaryService struct {
	pollRepo   ports.PollRepository
	resultRepo ports.QuestionResultRepository
	log        zerolog.Logger
}

func NewSummaryService(pollRepo ports.PollRepository, resultRepo ports.QuestionResultRepository, log zerolog.Logger) ports.SummaryService {
	return &summaryService{
		pollRepo:   pollRepo,
		resultRepo: resultRepo,
		log:        log.With().Str("service", "summary").Logger(),
	}
}

// SummarizeAllAnswers refreshes the per-option counts of every poll, one
// goroutine per poll. The first failure is returned after all finish.
func (s *summaryService) SummarizeAllAnswers(ctx context.Context) error {
	polls, err := s.pollRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all polls: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(polls))

	for _, poll := range polls {
		wg.Add(1)
		go func(pollID uuid.UUID) {
			defer wg.Done()
			if err := s.resultRepo.SummarizeAnswers(ctx, pollID); err != nil {
				errChan <- fmt.Errorf("failed to summarize poll %s: %w", pollID, err)
				return
			}
			s.log.Debug().Stringer("poll_id", pollID).Msg("poll summarized")
		}(poll.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	s.log.Info().Int("polls", len(polls)).Msg("answers summarized")
	return nil
}

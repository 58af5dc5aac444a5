package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type pollService struct {
	repo           ports.PollRepository
	questionRepo   ports.QuestionRepository
	respondentRepo ports.RespondentRepository
	answerRepo     ports.AnswerRepository
	cache          ports.PollCache
	log            zerolog.Logger
}

// NewPollService builds the poll service. cache may be nil, in which case
// active polls are always read from the repository.
func NewPollService(
	repo ports.PollRepository,
	questionRepo ports.QuestionRepository,
	respondentRepo ports.RespondentRepository,
	answerRepo ports.AnswerRepository,
	cache ports.PollCache,
	log zerolog.Logger,
) ports.PollService {
	if cache == nil {
		cache = noopPollCache{}
	}
	return &pollService{
		repo:           repo,
		questionRepo:   questionRepo,
		respondentRepo: respondentRepo,
		answerRepo:     answerRepo,
		cache:          cache,
		log:            log.With().Str("service", "poll").Logger(),
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	poll := &domain.Poll{
		ID:          uuid.Must(uuid.NewV7()),
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := poll.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.log.Info().Stringer("poll_id", poll.ID).Msg("poll created")
	return poll, nil
}

func (s *pollService) Update(ctx context.Context, input ports.UpdatePollInput) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	poll.Title = input.Title
	poll.Description = input.Description
	poll.EndDate = input.EndDate
	if err := poll.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, poll); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.log.Info().Stringer("poll_id", poll.ID).Msg("poll updated")
	return poll, nil
}

// Delete removes the poll together with its questions, options and answers.
func (s *pollService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	s.log.Info().Stringer("poll_id", id).Msg("poll deleted")
	return nil
}

func (s *pollService) GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pollService) ListPolls(ctx context.Context) ([]*domain.Poll, error) {
	return s.repo.GetAll(ctx)
}

// ListActive returns the polls whose window contains now, ordered by id.
// The cache holds every poll that has not ended, including upcoming ones,
// and is filtered against now on each read.
func (s *pollService) ListActive(ctx context.Context, now time.Time) ([]*domain.Poll, error) {
	cached, ok, err := s.cache.GetActive(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("active poll cache read failed")
	}
	if ok {
		return activeAt(cached, now), nil
	}

	open, err := s.repo.ListOpen(ctx, now)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetActive(ctx, open); err != nil {
		s.log.Warn().Err(err).Msg("active poll cache write failed")
	}
	return activeAt(open, now), nil
}

func activeAt(polls []*domain.Poll, now time.Time) []*domain.Poll {
	active := make([]*domain.Poll, 0, len(polls))
	for _, p := range polls {
		if p.IsActive(now) {
			active = append(active, p)
		}
	}
	return active
}

// History lists every poll the respondent answered at least one question
// of, each carrying only the answered questions.
func (s *pollService) History(ctx context.Context, respondentID uuid.UUID) ([]*domain.RespondentPoll, error) {
	if err := s.requireRespondent(ctx, respondentID); err != nil {
		return nil, err
	}

	polls, err := s.repo.ListAnsweredBy(ctx, respondentID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answersByQuestion(ctx, respondentID)
	if err != nil {
		return nil, err
	}

	history := make([]*domain.RespondentPoll, 0, len(polls))
	for _, poll := range polls {
		rp, err := s.project(ctx, poll, answers)
		if err != nil {
			return nil, err
		}
		history = append(history, rp)
	}
	return history, nil
}

func (s *pollService) PollHistory(ctx context.Context, pollID, respondentID uuid.UUID) (*domain.RespondentPoll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRespondent(ctx, respondentID); err != nil {
		return nil, err
	}

	answers, err := s.answersByQuestion(ctx, respondentID)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, poll, answers)
}

func (s *pollService) requireRespondent(ctx context.Context, id uuid.UUID) error {
	exists, err := s.respondentRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrRespondentNotFound
	}
	return nil
}

func (s *pollService) answersByQuestion(ctx context.Context, respondentID uuid.UUID) (map[uuid.UUID]*domain.Answer, error) {
	answers, err := s.answerRepo.ListByRespondent(ctx, respondentID)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[uuid.UUID]*domain.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	return byQuestion, nil
}

func (s *pollService) project(ctx context.Context, poll *domain.Poll, answers map[uuid.UUID]*domain.Answer) (*domain.RespondentPoll, error) {
	questions, err := s.questionRepo.ListByPoll(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	rp := &domain.RespondentPoll{
		ID:        poll.ID,
		Title:     poll.Title,
		Questions: []domain.AnsweredQuestion{},
	}
	for _, q := range questions {
		answer, ok := answers[q.ID]
		if !ok {
			continue
		}
		rp.Questions = append(rp.Questions, domain.AnsweredQuestion{
			ID:     q.ID,
			Title:  q.Title,
			Type:   q.Type,
			Answer: answer.Render(q),
		})
	}
	return rp, nil
}

func (s *pollService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("active poll cache invalidation failed")
	}
}

type noopPollCache struct{}

func (noopPollCache) GetActive(context.Context) ([]*domain.Poll, bool, error) { return nil, false, nil }
func (noopPollCache) SetActive(context.Context, []*domain.Poll) error          { return nil }
func (noopPollCache) Invalidate(context.Context) error                          { return nil }

package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type questionService struct {
	repo       ports.QuestionRepository
	pollRepo   ports.PollRepository
	resultRepo ports.QuestionResultRepository
	cache      ports.PollCache
	log        zerolog.Logger
}

func NewQuestionService(
	repo ports.QuestionRepository,
	pollRepo ports.PollRepository,
	resultRepo ports.QuestionResultRepository,
	cache ports.PollCache,
	log zerolog.Logger,
) ports.QuestionService {
	if cache == nil {
		cache = noopPollCache{}
	}
	return &questionService{
		repo:       repo,
		pollRepo:   pollRepo,
		resultRepo: resultRepo,
		cache:      cache,
		log:        log.With().Str("service", "question").Logger(),
	}
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	if _, err := s.pollRepo.GetByID(ctx, input.PollID); err != nil {
		return nil, err
	}

	question := &domain.Question{
		ID:      uuid.Must(uuid.NewV7()),
		PollID:  input.PollID,
		Title:   input.Title,
		Type:    input.Type,
		Options: []domain.Option{},
	}
	if question.Type.HasOptions() {
		for _, title := range input.Options {
			question.Options = append(question.Options, domain.Option{
				ID:         uuid.Must(uuid.NewV7()),
				QuestionID: question.ID,
				Title:      title,
			})
		}
	}
	if err := question.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.log.Info().
		Stringer("question_id", question.ID).
		Stringer("poll_id", question.PollID).
		Int("options", len(question.Options)).
		Msg("question created")
	return question, nil
}

// Update replaces the question's fields and, when options are supplied,
// reconciles them against the stored set: entries with an id update that
// option, entries without one are added, stored options left out are
// removed.
func (s *questionService) Update(ctx context.Context, input ports.UpdateQuestionInput) (*domain.Question, error) {
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.PollID != current.PollID {
		if _, err := s.pollRepo.GetByID(ctx, input.PollID); err != nil {
			return nil, err
		}
	}

	updated := &domain.Question{
		ID:     current.ID,
		PollID: input.PollID,
		Title:  input.Title,
		Type:   input.Type,
	}

	var changes *ports.OptionChanges
	if input.Options != nil {
		changes, err = reconcileOptions(current, input.Options)
		if err != nil {
			return nil, err
		}
		updated.Options = append(append([]domain.Option{}, changes.Update...), changes.Insert...)
	} else {
		updated.Options = current.Options
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, updated, changes); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	event := s.log.Info().Stringer("question_id", updated.ID)
	if changes != nil {
		event = event.
			Int("options_updated", len(changes.Update)).
			Int("options_added", len(changes.Insert)).
			Int("options_removed", len(changes.Delete))
	}
	event.Msg("question updated")

	return s.repo.GetByID(ctx, updated.ID)
}

func reconcileOptions(current *domain.Question, inputs []ports.OptionInput) (*ports.OptionChanges, error) {
	changes := &ports.OptionChanges{}
	kept := make(map[uuid.UUID]struct{}, len(inputs))

	for _, in := range inputs {
		if in.ID == nil {
			changes.Insert = append(changes.Insert, domain.Option{
				ID:         uuid.Must(uuid.NewV7()),
				QuestionID: current.ID,
				Title:      in.Title,
			})
			continue
		}
		if !current.HasOption(*in.ID) {
			return nil, domain.ErrOptionNotFound.WithMessage("option %s does not belong to this question", *in.ID)
		}
		if _, dup := kept[*in.ID]; dup {
			return nil, domain.InvalidField("options", "option %s listed more than once", *in.ID)
		}
		kept[*in.ID] = struct{}{}
		changes.Update = append(changes.Update, domain.Option{
			ID:         *in.ID,
			QuestionID: current.ID,
			Title:      in.Title,
		})
	}

	for _, opt := range current.Options {
		if _, ok := kept[opt.ID]; !ok {
			changes.Delete = append(changes.Delete, opt.ID)
		}
	}
	return changes, nil
}

// Delete removes the question; its options and recorded answers go with it.
func (s *questionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	s.log.Info().Stringer("question_id", id).Msg("question deleted")
	return nil
}

func (s *questionService) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Question, error) {
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return s.repo.ListByPoll(ctx, pollID)
}

// Results reports the last summarized count for every option of the
// question, in option order. Percentages are shares of all selections.
func (s *questionService) Results(ctx context.Context, id uuid.UUID) ([]domain.OptionResult, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.resultRepo.GetQuestionResults(ctx, id)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(stats))
	var total int64
	for _, st := range stats {
		counts[st.OptionID] = st.AnswerCount
		total += st.AnswerCount
	}

	results := make([]domain.OptionResult, 0, len(question.Options))
	for _, opt := range question.Options {
		count := counts[opt.ID]
		percentage := 0.0
		if total > 0 {
			percentage = (float64(count) / float64(total)) * 100
		}
		results = append(results, domain.OptionResult{
			OptionID:    opt.ID,
			Title:       opt.Title,
			AnswerCount: count,
			Percentage:  percentage,
		})
	}
	return results, nil
}

func (s *questionService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("active poll cache invalidation failed")
	}
}

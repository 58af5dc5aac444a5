package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type testEnv struct {
	store       *store
	cache       *memoryCache
	polls       ports.PollService
	questions   ports.QuestionService
	respondents ports.RespondentService
	answers     ports.AnswerService
	summary     ports.SummaryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := newStore()
	cache := &memoryCache{}
	log := zerolog.Nop()

	return &testEnv{
		store:       st,
		cache:       cache,
		polls:       NewPollService(pollRepo{st}, questionRepo{st}, respondentRepo{st}, answerRepo{st}, cache, log),
		questions:   NewQuestionService(questionRepo{st}, pollRepo{st}, resultRepo{st}, cache, log),
		respondents: NewRespondentService(respondentRepo{st}, log),
		answers:     NewAnswerService(questionRepo{st}, respondentRepo{st}, answerRepo{st}, log),
		summary:     NewSummaryService(pollRepo{st}, resultRepo{st}, log),
	}
}

func (e *testEnv) poll(t *testing.T, title string) *domain.Poll {
	t.Helper()
	p, err := e.polls.Create(context.Background(), ports.CreatePollInput{
		Title:     title,
		StartDate: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) question(t *testing.T, pollID uuid.UUID, typ domain.QuestionType, options ...string) *domain.Question {
	t.Helper()
	q, err := e.questions.Create(context.Background(), ports.CreateQuestionInput{
		PollID:  pollID,
		Title:   "Question " + string(typ),
		Type:    typ,
		Options: options,
	})
	require.NoError(t, err)
	return q
}

func (e *testEnv) respondent(t *testing.T) *domain.Respondent {
	t.Helper()
	r, err := e.respondents.Register(context.Background())
	require.NoError(t, err)
	return r
}

func text(s string) *string { return &s }

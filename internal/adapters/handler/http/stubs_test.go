package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type stubPollService struct {
	ports.PollService
	create      func(ports.CreatePollInput) (*domain.Poll, error)
	update      func(ports.UpdatePollInput) (*domain.Poll, error)
	del         func(uuid.UUID) error
	listActive  func(time.Time) ([]*domain.Poll, error)
	history     func(uuid.UUID) ([]*domain.RespondentPoll, error)
	pollHistory func(uuid.UUID, uuid.UUID) (*domain.RespondentPoll, error)
}

func (s *stubPollService) Create(_ context.Context, in ports.CreatePollInput) (*domain.Poll, error) {
	return s.create(in)
}

func (s *stubPollService) Update(_ context.Context, in ports.UpdatePollInput) (*domain.Poll, error) {
	return s.update(in)
}

func (s *stubPollService) Delete(_ context.Context, id uuid.UUID) error {
	return s.del(id)
}

func (s *stubPollService) ListPolls(context.Context) ([]*domain.Poll, error) {
	return []*domain.Poll{}, nil
}

func (s *stubPollService) ListActive(_ context.Context, now time.Time) ([]*domain.Poll, error) {
	return s.listActive(now)
}

func (s *stubPollService) History(_ context.Context, id uuid.UUID) ([]*domain.RespondentPoll, error) {
	return s.history(id)
}

func (s *stubPollService) PollHistory(_ context.Context, pollID, respondentID uuid.UUID) (*domain.RespondentPoll, error) {
	return s.pollHistory(pollID, respondentID)
}

type stubQuestionService struct {
	ports.QuestionService
	create func(ports.CreateQuestionInput) (*domain.Question, error)
	update func(ports.UpdateQuestionInput) (*domain.Question, error)
}

func (s *stubQuestionService) Create(_ context.Context, in ports.CreateQuestionInput) (*domain.Question, error) {
	return s.create(in)
}

func (s *stubQuestionService) Update(_ context.Context, in ports.UpdateQuestionInput) (*domain.Question, error) {
	return s.update(in)
}

type stubRespondentService struct {
	register func() (*domain.Respondent, error)
}

func (s *stubRespondentService) Register(context.Context) (*domain.Respondent, error) {
	return s.register()
}

type stubAnswerService struct {
	submit func(ports.SubmitAnswerInput) (*domain.Answer, error)
}

func (s *stubAnswerService) Submit(_ context.Context, in ports.SubmitAnswerInput) (*domain.Answer, error) {
	return s.submit(in)
}

type stubAuthService struct{}

const adminToken = "admin-token"

func (stubAuthService) Login(_ context.Context, username, password string) (string, error) {
	if username == "admin" && password == "pw" {
		return adminToken, nil
	}
	return "", domain.ErrUnauthorized
}

func (stubAuthService) IssueToken(string, time.Duration) (string, error) {
	return adminToken, nil
}

func (stubAuthService) Verify(token string) (*ports.Claims, error) {
	switch token {
	case adminToken:
		return &ports.Claims{Subject: "admin", Role: "admin"}, nil
	case "viewer-token":
		return nil, domain.ErrForbidden
	}
	return nil, domain.ErrUnauthorized
}

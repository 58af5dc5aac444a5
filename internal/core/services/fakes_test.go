package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

// store is an in-memory stand-in for the postgres repositories, enforcing
// the same uniqueness and cascade rules as the schema.
type store struct {
	mu          sync.Mutex
	polls       map[uuid.UUID]domain.Poll
	questions   map[uuid.UUID]domain.Question
	respondents map[uuid.UUID]domain.Respondent
	answers     map[uuid.UUID]domain.Answer
	results     map[uuid.UUID][]domain.QuestionResult
}

func newStore() *store {
	return &store{
		polls:       map[uuid.UUID]domain.Poll{},
		questions:   map[uuid.UUID]domain.Question{},
		respondents: map[uuid.UUID]domain.Respondent{},
		answers:     map[uuid.UUID]domain.Answer{},
		results:     map[uuid.UUID][]domain.QuestionResult{},
	}
}

func sortedPolls(m map[uuid.UUID]domain.Poll, keep func(domain.Poll) bool) []*domain.Poll {
	out := []*domain.Poll{}
	for _, p := range m {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

type pollRepo struct{ *store }

func (r pollRepo) Save(_ context.Context, p *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now()
	r.polls[p.ID] = *p
	return nil
}

func (r pollRepo) Update(_ context.Context, p *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.polls[p.ID]
	if !ok {
		return domain.ErrPollNotFound
	}
	cur.Title, cur.Description, cur.EndDate = p.Title, p.Description, p.EndDate
	r.polls[p.ID] = cur
	return nil
}

func (r pollRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	for qid, q := range r.questions {
		if q.PollID == id {
			r.deleteQuestion(qid)
		}
	}
	return nil
}

func (r pollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return &p, nil
}

func (r pollRepo) GetAll(context.Context) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedPolls(r.polls, func(domain.Poll) bool { return true }), nil
}

func (r pollRepo) ListOpen(_ context.Context, now time.Time) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedPolls(r.polls, func(p domain.Poll) bool { return p.EndDate == nil || !now.After(*p.EndDate) }), nil
}

func (r pollRepo) ListAnsweredBy(_ context.Context, respondentID uuid.UUID) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	answered := map[uuid.UUID]bool{}
	for _, a := range r.answers {
		if a.RespondentID == respondentID {
			answered[r.questions[a.QuestionID].PollID] = true
		}
	}
	return sortedPolls(r.polls, func(p domain.Poll) bool { return answered[p.ID] }), nil
}

type questionRepo struct{ *store }

func (r questionRepo) Save(_ context.Context, q *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[q.PollID]; !ok {
		return domain.ErrPollNotFound
	}
	q.CreatedAt = time.Now()
	cp := *q
	cp.Options = append([]domain.Option{}, q.Options...)
	r.questions[q.ID] = cp
	return nil
}

func (r questionRepo) Update(_ context.Context, q *domain.Question, changes *ports.OptionChanges) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.questions[q.ID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	cur.PollID, cur.Title, cur.Type = q.PollID, q.Title, q.Type
	if changes != nil {
		for _, id := range changes.Delete {
			for _, a := range r.answers {
				if sel, ok := a.Payload.(domain.SelectedOptions); ok {
					for _, picked := range sel.OptionIDs {
						if picked == id {
							return domain.ErrOptionInUse
						}
					}
				}
			}
		}
		titles := map[uuid.UUID]string{}
		for _, o := range changes.Update {
			titles[o.ID] = o.Title
		}
		removed := map[uuid.UUID]bool{}
		for _, id := range changes.Delete {
			removed[id] = true
		}
		options := []domain.Option{}
		for _, o := range cur.Options {
			if removed[o.ID] {
				continue
			}
			if t, ok := titles[o.ID]; ok {
				o.Title = t
			}
			options = append(options, o)
		}
		cur.Options = append(options, changes.Insert...)
	}
	r.questions[q.ID] = cur
	return nil
}

func (r questionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	r.deleteQuestion(id)
	return nil
}

func (s *store) deleteQuestion(id uuid.UUID) {
	delete(s.questions, id)
	delete(s.results, id)
	for aid, a := range s.answers {
		if a.QuestionID == id {
			delete(s.answers, aid)
		}
	}
}

func (r questionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	q.Options = append([]domain.Option{}, q.Options...)
	return &q, nil
}

func (r questionRepo) ListByPoll(_ context.Context, pollID uuid.UUID) ([]*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Question{}
	for _, q := range r.questions {
		if q.PollID == pollID {
			q := q
			q.Options = append([]domain.Option{}, q.Options...)
			out = append(out, &q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type respondentRepo struct{ *store }

func (r respondentRepo) Create(_ context.Context, resp *domain.Respondent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp.CreatedAt = time.Now()
	r.respondents[resp.ID] = *resp
	return nil
}

func (r respondentRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.respondents[id]
	return ok, nil
}

type answerRepo struct{ *store }

func (r answerRepo) Save(_ context.Context, a *domain.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.answers {
		if existing.QuestionID == a.QuestionID && existing.RespondentID == a.RespondentID {
			return domain.ErrDuplicateAnswer
		}
	}
	a.CreatedAt = time.Now()
	r.answers[a.ID] = *a
	return nil
}

func (r answerRepo) Exists(_ context.Context, questionID, respondentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.answers {
		if a.QuestionID == questionID && a.RespondentID == respondentID {
			return true, nil
		}
	}
	return false, nil
}

func (r answerRepo) ListByRespondent(_ context.Context, respondentID uuid.UUID) ([]*domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Answer{}
	for _, a := range r.answers {
		if a.RespondentID == respondentID {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type resultRepo struct{ *store }

func (r resultRepo) SummarizeAnswers(_ context.Context, pollID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questions {
		if q.PollID != pollID {
			continue
		}
		counts := map[uuid.UUID]int64{}
		for _, a := range r.answers {
			if sel, ok := a.Payload.(domain.SelectedOptions); ok && a.QuestionID == q.ID {
				for _, id := range sel.OptionIDs {
					counts[id]++
				}
			}
		}
		var results []domain.QuestionResult
		for _, o := range q.Options {
			results = append(results, domain.QuestionResult{QuestionID: q.ID, OptionID: o.ID, AnswerCount: counts[o.ID], LastUpdatedAt: time.Now()})
		}
		r.results[q.ID] = results
	}
	return nil
}

func (r resultRepo) GetQuestionResults(_ context.Context, questionID uuid.UUID) ([]domain.QuestionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.QuestionResult{}, r.results[questionID]...), nil
}

type memoryCache struct {
	mu          sync.Mutex
	polls       []*domain.Poll
	set         bool
	reads       int
	invalidated int
}

func (c *memoryCache) GetActive(context.Context) ([]*domain.Poll, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return c.polls, c.set, nil
}

func (c *memoryCache) SetActive(_ context.Context, polls []*domain.Poll) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polls, c.set = polls, true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polls, c.set = nil, false
	c.invalidated++
	return nil
}

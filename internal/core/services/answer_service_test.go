package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

func TestSubmitSingleChoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.poll(t, "Lunch")
	q := env.question(t, p.ID, domain.QuestionSingle, "Pizza", "Sushi")
	a, b := q.Options[0].ID, q.Options[1].ID

	tests := []struct {
		name    string
		options []uuid.UUID
		wantErr error
	}{
		{"no options", nil, domain.ErrOptionCount},
		{"two options", []uuid.UUID{a, b}, domain.ErrOptionCount},
		{"same option twice", []uuid.UUID{a, a}, domain.ErrOptionCount},
		{"unknown option", []uuid.UUID{uuid.Must(uuid.NewV7())}, domain.ErrOptionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := env.respondent(t)
			_, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{
				QuestionID: q.ID, RespondentID: r.ID, SelectedOptionIDs: tt.options,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
		})
	}

	t.Run("exactly one valid option", func(t *testing.T) {
		r := env.respondent(t)
		answer, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{
			QuestionID: q.ID, RespondentID: r.ID, SelectedOptionIDs: []uuid.UUID{b},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SelectedOptions{OptionIDs: []uuid.UUID{b}}, answer.Payload)

		history, err := env.polls.PollHistory(ctx, p.ID, r.ID)
		require.NoError(t, err)
		require.Len(t, history.Questions, 1)
		assert.Equal(t, "Sushi", history.Questions[0].Answer)
	})
}

func TestSubmitMultipleChoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.poll(t, "Colors")
	q := env.question(t, p.ID, domain.QuestionMultiple, "Red", "Green", "Blue")
	red, green, blue := q.Options[0].ID, q.Options[1].ID, q.Options[2].ID

	t.Run("no options", func(t *testing.T) {
		r := env.respondent(t)
		_, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q.ID, RespondentID: r.ID})
		assert.ErrorIs(t, err, domain.ErrMissingOptions)
	})

	t.Run("one foreign option rejects the whole answer", func(t *testing.T) {
		r := env.respondent(t)
		_, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{
			QuestionID: q.ID, RespondentID: r.ID, SelectedOptionIDs: []uuid.UUID{red, uuid.Must(uuid.NewV7())},
		})
		assert.ErrorIs(t, err, domain.ErrOptionMismatch)

		exists, err := answerRepo{env.store}.Exists(ctx, q.ID, r.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("k options project as one answer with k values", func(t *testing.T) {
		r := env.respondent(t)
		answer, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{
			QuestionID: q.ID, RespondentID: r.ID, SelectedOptionIDs: []uuid.UUID{blue, red, blue, green},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SelectedOptions{OptionIDs: []uuid.UUID{blue, red, green}}, answer.Payload)

		history, err := env.polls.PollHistory(ctx, p.ID, r.ID)
		require.NoError(t, err)
		require.Len(t, history.Questions, 1)
		assert.Equal(t, []string{"Blue", "Red", "Green"}, history.Questions[0].Answer)
	})
}

func TestSubmitFreeText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.poll(t, "Feedback")
	q := env.question(t, p.ID, domain.QuestionText)

	for name, input := range map[string]*string{"missing": nil, "empty": text(""), "blank": text(" \t\n")} {
		t.Run(name, func(t *testing.T) {
			r := env.respondent(t)
			_, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q.ID, RespondentID: r.ID, FreeText: input})
			assert.ErrorIs(t, err, domain.ErrMissingText)
		})
	}

	t.Run("round trips verbatim", func(t *testing.T) {
		r := env.respondent(t)
		body := "  Line one\nline two ✓ "
		_, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q.ID, RespondentID: r.ID, FreeText: &body})
		require.NoError(t, err)

		history, err := env.polls.PollHistory(ctx, p.ID, r.ID)
		require.NoError(t, err)
		require.Len(t, history.Questions, 1)
		assert.Equal(t, body, history.Questions[0].Answer)
	})

	t.Run("foreign option id is rejected", func(t *testing.T) {
		r := env.respondent(t)
		_, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{
			QuestionID: q.ID, RespondentID: r.ID, FreeText: text("ok"), SelectedOptionIDs: []uuid.UUID{uuid.Must(uuid.NewV7())},
		})
		require.ErrorIs(t, err, domain.ErrOptionMismatch)

		exists, err := answerRepo{env.store}.Exists(ctx, q.ID, r.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestSubmitPreconditionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.poll(t, "Order")
	q := env.question(t, p.ID, domain.QuestionSingle, "A")
	other := env.question(t, p.ID, domain.QuestionSingle, "B")
	r := env.respondent(t)

	_, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{
		QuestionID: uuid.Must(uuid.NewV7()), RespondentID: uuid.Must(uuid.NewV7()),
	})
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	_, err = env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q.ID, RespondentID: uuid.Must(uuid.NewV7())})
	assert.ErrorIs(t, err, domain.ErrRespondentNotFound)

	_, err = env.answers.Submit(ctx, ports.SubmitAnswerInput{
		QuestionID: q.ID, RespondentID: r.ID, SelectedOptionIDs: []uuid.UUID{other.Options[0].ID},
	})
	assert.ErrorIs(t, err, domain.ErrOptionMismatch)

	_, err = env.answers.Submit(ctx, ports.SubmitAnswerInput{
		QuestionID: q.ID, RespondentID: r.ID, SelectedOptionIDs: []uuid.UUID{q.Options[0].ID},
	})
	require.NoError(t, err)

	// The duplicate check runs before payload validation.
	_, err = env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q.ID, RespondentID: r.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicateAnswer)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestSubmitConcurrentDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.poll(t, "Race")
	q := env.question(t, p.ID, domain.QuestionText)
	r := env.respondent(t)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q.ID, RespondentID: r.ID, FreeText: text("hi")})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateAnswer)
	}
	assert.Equal(t, 1, succeeded)
}

// Poll P has Q1 (single, A/B) and Q2 (free text); respondent R answers
// both, and a second Q1 answer conflicts.
func TestSubmitWorkedExample(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.poll(t, "P")
	q1 := env.question(t, p.ID, domain.QuestionSingle, "A", "B")
	q2 := env.question(t, p.ID, domain.QuestionText)
	r := env.respondent(t)

	_, err := env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q1.ID, RespondentID: r.ID, SelectedOptionIDs: []uuid.UUID{q1.Options[0].ID}})
	require.NoError(t, err)

	_, err = env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q1.ID, RespondentID: r.ID, SelectedOptionIDs: []uuid.UUID{q1.Options[1].ID}})
	assert.ErrorIs(t, err, domain.ErrDuplicateAnswer)

	_, err = env.answers.Submit(ctx, ports.SubmitAnswerInput{QuestionID: q2.ID, RespondentID: r.ID, FreeText: text("hello")})
	require.NoError(t, err)

	history, err := env.polls.History(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, p.ID, history[0].ID)
	assert.Equal(t, "P", history[0].Title)
	require.Len(t, history[0].Questions, 2)
	assert.Equal(t, q1.ID, history[0].Questions[0].ID)
	assert.Equal(t, "A", history[0].Questions[0].Answer)
	assert.Equal(t, q2.ID, history[0].Questions[1].ID)
	assert.Equal(t, "hello", history[0].Questions[1].Answer)
}

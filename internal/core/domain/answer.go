package domain

import (
	"time"

	"github.com/google/uuid"
)

type Respondent struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// AnswerPayload is either SelectedOptions or FreeText.
type AnswerPayload interface {
	isAnswerPayload()
}

type SelectedOptions struct {
	OptionIDs []uuid.UUID
}

type FreeText struct {
	Text string
}

func (SelectedOptions) isAnswerPayload() {}
func (FreeText) isAnswerPayload()        {}

// Answer is a respondent's single response to a question. A multiple
// choice answer is still one Answer whose payload lists every selection.
type Answer struct {
	ID           uuid.UUID
	QuestionID   uuid.UUID
	RespondentID uuid.UUID
	Payload      AnswerPayload
	CreatedAt    time.Time
}

// RespondentPoll is a poll as seen by one respondent: only the questions
// they answered, each with their answer attached.
type RespondentPoll struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"poll"`
	Questions []AnsweredQuestion `json:"questions"`
}

// AnsweredQuestion.Answer is a string for single choice and text
// questions and a []string of option titles for multiple choice.
type AnsweredQuestion struct {
	ID     uuid.UUID    `json:"id"`
	Title  string       `json:"title"`
	Type   QuestionType `json:"type"`
	Answer any          `json:"answer,omitempty"`
}

// Render projects the answer payload against its question.
func (a *Answer) Render(q *Question) any {
	switch p := a.Payload.(type) {
	case FreeText:
		return p.Text
	case SelectedOptions:
		titles := make([]string, 0, len(p.OptionIDs))
		for _, id := range p.OptionIDs {
			if title, ok := q.OptionTitle(id); ok {
				titles = append(titles, title)
			}
		}
		if q.Type == QuestionSingle {
			if len(titles) == 0 {
				return nil
			}
			return titles[0]
		}
		return titles
	}
	return nil
}

package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxQuestionTitleLen = 140
	MaxOptionTitleLen   = 50
)

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionText     QuestionType = "text"
)

// ParseQuestionType accepts the canonical names as well as the legacy
// radio/check aliases still sent by older clients.
func ParseQuestionType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "radio":
		return QuestionSingle, nil
	case "multiple", "check":
		return QuestionMultiple, nil
	case "text":
		return QuestionText, nil
	}
	return "", InvalidField("type", "unknown question type %q", s)
}

func (t QuestionType) HasOptions() bool {
	return t == QuestionSingle || t == QuestionMultiple
}

type Question struct {
	ID        uuid.UUID    `json:"id"`
	PollID    uuid.UUID    `json:"poll_id"`
	Title     string       `json:"title"`
	Type      QuestionType `json:"type"`
	Options   []Option     `json:"options"`
	CreatedAt time.Time    `json:"created_at"`
}

type Option struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Title      string    `json:"title"`
}

func (q *Question) HasOption(id uuid.UUID) bool {
	for _, opt := range q.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

func (q *Question) OptionTitle(id uuid.UUID) (string, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt.Title, true
		}
	}
	return "", false
}

func (q *Question) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return InvalidField("title", "title is required")
	}
	if utf8.RuneCountInString(q.Title) > MaxQuestionTitleLen {
		return InvalidField("title", "title must be at most %d characters", MaxQuestionTitleLen)
	}
	for _, opt := range q.Options {
		if err := ValidateOptionTitle(opt.Title); err != nil {
			return err
		}
	}
	return nil
}

func ValidateOptionTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return InvalidField("options", "option title is required")
	}
	if utf8.RuneCountInString(title) > MaxOptionTitleLen {
		return InvalidField("options", "option title must be at most %d characters", MaxOptionTitleLen)
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type QuestionResult struct {
	QuestionID    uuid.UUID
	OptionID      uuid.UUID
	AnswerCount   int64
	LastUpdatedAt time.Time
}

type OptionResult struct {
	OptionID    uuid.UUID `json:"option_id"`
	Title       string    `json:"title"`
	AnswerCount int64     `json:"answer_count"`
	Percentage  float64   `json:"percentage"`
}

package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxPollTitleLen       = 35
	MaxPollDescriptionLen = 140
)

type Poll struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsActive reports whether now falls inside the poll's window. A poll
// without an end date stays active indefinitely once started.
func (p *Poll) IsActive(now time.Time) bool {
	if now.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || !now.After(*p.EndDate)
}

func (p *Poll) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return InvalidField("title", "title is required")
	}
	if utf8.RuneCountInString(p.Title) > MaxPollTitleLen {
		return InvalidField("title", "title must be at most %d characters", MaxPollTitleLen)
	}
	if utf8.RuneCountInString(p.Description) > MaxPollDescriptionLen {
		return InvalidField("description", "description must be at most %d characters", MaxPollDescriptionLen)
	}
	if p.StartDate.IsZero() {
		return InvalidField("start_date", "start_date is required")
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return InvalidField("end_date", "end_date must not be before start_date")
	}
	return nil
}

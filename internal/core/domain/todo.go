package domain

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const MaxTodoTitleLength = 200

// DueDateLayout is the only accepted input format for due dates, matching
// the datetime-local form widget ("2024-03-01T15:30").
const DueDateLayout = "2006-01-02T15:04"

// ValidPriority reports whether s is one of the three known priorities.
// The empty string is not valid: a todo with no priority carries a nil
// Priority, which is a distinct state rather than a fourth level.
func ValidPriority(s string) bool {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// CoercePriority maps any unrecognized value to low. Callers that need
// "unknown means unfiltered" semantics must use ValidPriority instead.
func CoercePriority(s string) Priority {
	if ValidPriority(s) {
		return Priority(s)
	}
	return PriorityLow
}

type Todo struct {
	ID          int64
	UUID        uuid.UUID
	ListID      int64
	Title       string `validate:"required,max=200"`
	Note        string
	DueDate     *time.Time
	Priority    *Priority
	Completed   bool
	CompletedAt *time.Time
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToggleCompleted flips the completion flag and keeps the completion
// timestamp in sync: set when the todo becomes complete, cleared when it
// becomes incomplete again.
func (t *Todo) ToggleCompleted(now time.Time) {
	t.Completed = !t.Completed

	if t.Completed {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

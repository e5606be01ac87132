package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultListColor is applied when a list is created without a color.
const DefaultListColor = "#3b82f6"

const MaxListNameLength = 100

type List struct {
	ID          int64
	UUID        uuid.UUID
	UserID      int64
	Name        string `validate:"required,max=100"`
	Description string
	Color       string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l *List) BelongsToUser(userID int64) bool {
	return l.UserID == userID
}

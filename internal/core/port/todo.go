package port

import (
	"context"
	"time"

	"todolists/internal/core/domain"
)

// TodoFilter restricts a listing. Query is matched case-insensitively
// against titles; Priority is only applied when it is one of the known
// levels, any other value means "all priorities including none".
type TodoFilter struct {
	Query    string
	Priority string
}

type TodoRepository interface {
	ListForList(ctx context.Context, listID int64, filter TodoFilter) ([]domain.Todo, error)
	// Create assigns the next free position within the list.
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	GetByUUID(ctx context.Context, uid string) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Delete(ctx context.Context, id int64) error
	// Move re-positions one todo among its list siblings transactionally.
	Move(ctx context.Context, id, listID int64, newPosition int) error
	IncompleteCount(ctx context.Context, listID int64) (int, error)
}

// TodoUpdate carries the update payload. DueDateInput keeps the raw string
// because a malformed value must leave the stored date untouched while an
// empty value clears it.
type TodoUpdate struct {
	Title        string
	Note         string
	DueDateInput string
	Priority     string
}

type TodoService interface {
	Create(ctx context.Context, listUUID string, userID int64, title string) (domain.Todo, int, error)
	Get(ctx context.Context, uid, listUUID string, userID int64) (domain.Todo, error)
	Update(ctx context.Context, uid string, userID int64, upd TodoUpdate) (domain.Todo, error)
	Toggle(ctx context.Context, uid string, userID int64, now time.Time) (domain.Todo, int, error)
	Delete(ctx context.Context, uid string, userID int64) error
	Reorder(ctx context.Context, uid string, userID int64, newPosition int) error
	Search(ctx context.Context, listUUID string, userID int64, query, priority string) ([]domain.Todo, error)
	IncompleteCount(ctx context.Context, listUUID string, userID int64) (int, error)
}

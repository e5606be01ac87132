package port

import (
	"context"

	"todolists/internal/core/domain"
)

type ListRepository interface {
	ListForUser(ctx context.Context, userID int64) ([]domain.List, error)
	// Create assigns the next free position among the user's lists.
	Create(ctx context.Context, list domain.List) (domain.List, error)
	// GetByUUID is ownership-scoped: an existing list owned by another user
	// is reported as not found.
	GetByUUID(ctx context.Context, uid string, userID int64) (domain.List, error)
	// GetAnyByUUID and GetByID are unscoped; they exist so the todo side
	// can tell "list is gone" apart from "list belongs to someone else".
	GetAnyByUUID(ctx context.Context, uid string) (domain.List, error)
	GetByID(ctx context.Context, id int64) (domain.List, error)
	Update(ctx context.Context, list domain.List) (domain.List, error)
	// Delete cascades to the list's todos in the same transaction.
	Delete(ctx context.Context, id int64) error
	// Reorder applies the full new ordering; ids is the filtered set of
	// internal ids, already restricted to the owning user.
	Reorder(ctx context.Context, userID int64, ids []int64) error
}

type ListService interface {
	ListForUser(ctx context.Context, userID int64) ([]domain.List, error)
	Create(ctx context.Context, userID int64, name, description, color string) (domain.List, error)
	Get(ctx context.Context, uid string, userID int64) (domain.List, error)
	Update(ctx context.Context, uid string, userID int64, name, description, color string) (domain.List, error)
	Delete(ctx context.Context, uid string, userID int64) error
	Reorder(ctx context.Context, userID int64, orderedUUIDs []string) ([]domain.List, error)
}

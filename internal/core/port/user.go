package port

import (
	"context"

	"todolists/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	// Delete removes the user and, transitively, every owned list and todo
	// in the same transaction.
	Delete(ctx context.Context, id int64) error
}

type AuthService interface {
	Register(ctx context.Context, email, password, confirm string) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

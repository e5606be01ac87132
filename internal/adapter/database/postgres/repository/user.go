package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"todolists/internal/adapter/database/postgres"
	"todolists/internal/core/domain"
	"todolists/internal/core/port"
	tel "todolists/internal/core/telemetry"
)

var userColumns = []string{"id", "uuid", "email", "encrypted_password", "created_at", "updated_at"}

type UserRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *postgres.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{db: db, telemetry: telemetry}
}

type pgRow interface {
	Scan(dest ...any) error
}

func scanUser(row pgRow) (domain.User, error) {
	var user domain.User

	err := row.Scan(&user.ID, &user.UUID, &user.Email, &user.EncryptedPassword, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, query, args...))
}

func (ur *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	query, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, query, args...))
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	query, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "email", "encrypted_password", "created_at", "updated_at").
		Values(user.UUID, user.Email, user.EncryptedPassword, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Create", "user", query, args)

	if err := ur.db.QueryRow(ctx, query, args...).Scan(&user.ID); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := ur.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	tag, err := ur.db.Exec(ctx, query, args...)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

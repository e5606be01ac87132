package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"todolists/internal/adapter/database/sqlite"
	"todolists/internal/core/domain"
	"todolists/internal/core/port"
	tel "todolists/internal/core/telemetry"
)

var userColumns = []string{"id", "uuid", "email", "encrypted_password", "created_at", "updated_at"}

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{db: db, telemetry: telemetry}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		uid  string
	)

	err := row.Scan(&user.ID, &uid, &user.Email, &user.EncryptedPassword, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.User{}, err
	}

	user.UUID, err = uuid.Parse(uid)

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

	return scanUser(ur.db.QueryRowContext(ctx, query, args...))
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

	return scanUser(ur.db.QueryRowContext(ctx, query, args...))
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "Create", "user", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "users",
		"user.uuid": user.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	tx, err := ur.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback()

	query, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "email", "encrypted_password", "created_at", "updated_at").
		Values(user.UUID.String(), user.Email, user.EncryptedPassword, user.CreatedAt, user.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Create", "user", query, args)

	result, err := tx.ExecContext(ctx, query, args...)

	if err != nil {
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.User{}, err
	}

	user.ID = id

	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}

	ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), nil)

	return user, nil
}

// Delete removes the user row; lists and todos go with it through the
// ON DELETE CASCADE chain, all inside one transaction.
func (ur *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := ur.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err := ur.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, query, args...)

	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

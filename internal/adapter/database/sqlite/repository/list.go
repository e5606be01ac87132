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
	"todolists/internal/core/reorder"
	tel "todolists/internal/core/telemetry"
)

var listColumns = []string{"id", "uuid", "user_id", "name", "description", "color", "position", "created_at", "updated_at"}

type ListRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewListRepository(db *sqlite.DB, telemetry port.Telemetry) port.ListRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &ListRepository{db: db, telemetry: telemetry}
}

func scanList(row rowScanner) (domain.List, error) {
	var (
		list        domain.List
		uid         string
		description sql.NullString
	)

	err := row.Scan(&list.ID, &uid, &list.UserID, &list.Name, &description, &list.Color, &list.Position, &list.CreatedAt, &list.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.List{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.List{}, err
	}

	list.Description = description.String

	list.UUID, err = uuid.Parse(uid)

	if err != nil {
		return domain.List{}, err
	}

	return list, nil
}

func (lr *ListRepository) ListForUser(ctx context.Context, userID int64) ([]domain.List, error) {
	query, args, err := lr.db.QueryBuilder.Select(listColumns...).
		From("lists").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := lr.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []domain.List{}

	for rows.Next() {
		list, err := scanList(rows)

		if err != nil {
			return nil, err
		}

		lists = append(lists, list)
	}

	return lists, rows.Err()
}

func (lr *ListRepository) Create(ctx context.Context, list domain.List) (domain.List, error) {
	ctx, span := lr.telemetry.StartRepositorySpan(ctx, "Create", "list", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "lists",
		"list.uuid": list.UUID.String(),
		"user.id":   list.UserID,
	})
	defer span.End()

	startTime := time.Now()

	tx, err := lr.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.List{}, err
	}
	defer tx.Rollback()

	// Position assignment happens inside the insert transaction so two
	// concurrent creates cannot read the same max.
	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM lists WHERE user_id = ?",
		list.UserID,
	).Scan(&position)

	if err != nil {
		return domain.List{}, err
	}

	list.Position = position

	query, args, err := lr.db.QueryBuilder.Insert("lists").
		Columns("uuid", "user_id", "name", "description", "color", "position", "created_at", "updated_at").
		Values(list.UUID.String(), list.UserID, list.Name, nullable(list.Description), list.Color, list.Position, list.CreatedAt, list.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.List{}, err
	}

	lr.telemetry.RecordRepositoryQuery(ctx, "Create", "list", query, args)

	result, err := tx.ExecContext(ctx, query, args...)

	if err != nil {
		span.RecordError(err)
		lr.telemetry.RecordRepositoryOperation(ctx, "Create", "list", time.Since(startTime), err)
		return domain.List{}, err
	}

	list.ID, err = result.LastInsertId()

	if err != nil {
		return domain.List{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.List{}, err
	}

	lr.telemetry.RecordRepositoryOperation(ctx, "Create", "list", time.Since(startTime), nil)

	return list, nil
}

func (lr *ListRepository) GetByUUID(ctx context.Context, uid string, userID int64) (domain.List, error) {
	query, args, err := lr.db.QueryBuilder.Select(listColumns...).
		From("lists").
		Where(sq.Eq{"uuid": uid, "user_id": userID}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.List{}, err
	}

	return scanList(lr.db.QueryRowContext(ctx, query, args...))
}

func (lr *ListRepository) GetAnyByUUID(ctx context.Context, uid string) (domain.List, error) {
	query, args, err := lr.db.QueryBuilder.Select(listColumns...).
		From("lists").
		Where(sq.Eq{"uuid": uid}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.List{}, err
	}

	return scanList(lr.db.QueryRowContext(ctx, query, args...))
}

func (lr *ListRepository) GetByID(ctx context.Context, id int64) (domain.List, error) {
	query, args, err := lr.db.QueryBuilder.Select(listColumns...).
		From("lists").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.List{}, err
	}

	return scanList(lr.db.QueryRowContext(ctx, query, args...))
}

func (lr *ListRepository) Update(ctx context.Context, list domain.List) (domain.List, error) {
	query, args, err := lr.db.QueryBuilder.Update("lists").
		Set("name", list.Name).
		Set("description", nullable(list.Description)).
		Set("color", list.Color).
		Set("updated_at", list.UpdatedAt).
		Where(sq.Eq{"id": list.ID}).
		ToSql()

	if err != nil {
		return domain.List{}, err
	}

	result, err := lr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.List{}, err
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return domain.List{}, err
	}

	if rowsAffected == 0 {
		return domain.List{}, domain.ErrNotFound
	}

	return list, nil
}

func (lr *ListRepository) Delete(ctx context.Context, id int64) error {
	tx, err := lr.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Child todos fall to the ON DELETE CASCADE constraint in the same
	// transaction; no intermediate state is visible.
	query, args, err := lr.db.QueryBuilder.Delete("lists").
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

func (lr *ListRepository) Reorder(ctx context.Context, userID int64, ids []int64) error {
	changes := reorder.PlanSequence(ids)

	if len(changes) == 0 {
		return nil
	}

	tx, err := lr.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, change := range changes {
		query, args, err := lr.db.QueryBuilder.Update("lists").
			Set("position", change.Position).
			Where(sq.Eq{"id": change.ID, "user_id": userID}).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

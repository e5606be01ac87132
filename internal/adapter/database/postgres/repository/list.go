package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"todolists/internal/adapter/database/postgres"
	"todolists/internal/core/domain"
	"todolists/internal/core/port"
	"todolists/internal/core/reorder"
	tel "todolists/internal/core/telemetry"
)

var listColumns = []string{"id", "uuid", "user_id", "name", "description", "color", "position", "created_at", "updated_at"}

type ListRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewListRepository(db *postgres.DB, telemetry port.Telemetry) port.ListRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &ListRepository{db: db, telemetry: telemetry}
}

func scanList(row pgRow) (domain.List, error) {
	var (
		list        domain.List
		description sql.NullString
	)

	err := row.Scan(&list.ID, &list.UUID, &list.UserID, &list.Name, &description, &list.Color, &list.Position, &list.CreatedAt, &list.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.List{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.List{}, err
	}

	list.Description = description.String

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

	rows, err := lr.db.Query(ctx, query, args...)

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
		"db.system": "postgresql",
		"db.table":  "lists",
		"list.uuid": list.UUID.String(),
		"user.id":   list.UserID,
	})
	defer span.End()

	startTime := time.Now()

	tx, err := lr.db.Begin(ctx)

	if err != nil {
		return domain.List{}, err
	}
	defer tx.Rollback(ctx)

	// Position assignment happens inside the insert transaction so two
	// concurrent creates cannot read the same max.
	var position int
	err = tx.QueryRow(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM lists WHERE user_id = $1",
		list.UserID,
	).Scan(&position)

	if err != nil {
		return domain.List{}, err
	}

	list.Position = position

	query, args, err := lr.db.QueryBuilder.Insert("lists").
		Columns("uuid", "user_id", "name", "description", "color", "position", "created_at", "updated_at").
		Values(list.UUID, list.UserID, list.Name, nullable(list.Description), list.Color, list.Position, list.CreatedAt, list.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.List{}, err
	}

	lr.telemetry.RecordRepositoryQuery(ctx, "Create", "list", query, args)

	if err := tx.QueryRow(ctx, query, args...).Scan(&list.ID); err != nil {
		span.RecordError(err)
		lr.telemetry.RecordRepositoryOperation(ctx, "Create", "list", time.Since(startTime), err)
		return domain.List{}, err
	}

	if err := tx.Commit(ctx); err != nil {
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

	return scanList(lr.db.QueryRow(ctx, query, args...))
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

	return scanList(lr.db.QueryRow(ctx, query, args...))
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

	return scanList(lr.db.QueryRow(ctx, query, args...))
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

	tag, err := lr.db.Exec(ctx, query, args...)

	if err != nil {
		return domain.List{}, err
	}

	if tag.RowsAffected() == 0 {
		return domain.List{}, domain.ErrNotFound
	}

	return list, nil
}

func (lr *ListRepository) Delete(ctx context.Context, id int64) error {
	// Child todos fall to the ON DELETE CASCADE constraint; postgres runs
	// the statement and the cascade atomically.
	query, args, err := lr.db.QueryBuilder.Delete("lists").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	tag, err := lr.db.Exec(ctx, query, args...)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (lr *ListRepository) Reorder(ctx context.Context, userID int64, ids []int64) error {
	changes := reorder.PlanSequence(ids)

	if len(changes) == 0 {
		return nil
	}

	tx, err := lr.db.Begin(ctx)

	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, change := range changes {
		if _, err := tx.Exec(ctx,
			"UPDATE lists SET position = $1 WHERE id = $2 AND user_id = $3",
			change.Position, change.ID, userID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

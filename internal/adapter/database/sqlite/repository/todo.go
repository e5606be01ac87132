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

var todoColumns = []string{"id", "uuid", "list_id", "title", "note", "due_date", "priority", "completed", "completed_at", "position", "created_at", "updated_at"}

type TodoRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{db: db, telemetry: telemetry}
}

func scanTodo(row rowScanner) (domain.Todo, error) {
	var (
		todo        domain.Todo
		uid         string
		note        sql.NullString
		dueDate     sql.NullTime
		priority    sql.NullString
		completedAt sql.NullTime
	)

	err := row.Scan(&todo.ID, &uid, &todo.ListID, &todo.Title, &note, &dueDate, &priority, &todo.Completed, &completedAt, &todo.Position, &todo.CreatedAt, &todo.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Note = note.String

	if dueDate.Valid {
		t := dueDate.Time
		todo.DueDate = &t
	}

	if priority.Valid {
		p := domain.Priority(priority.String)
		todo.Priority = &p
	}

	if completedAt.Valid {
		t := completedAt.Time
		todo.CompletedAt = &t
	}

	todo.UUID, err = uuid.Parse(uid)

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) ListForList(ctx context.Context, listID int64, filter port.TodoFilter) ([]domain.Todo, error) {
	builder := tr.db.QueryBuilder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"list_id": listID}).
		OrderBy("position ASC")

	if filter.Query != "" {
		builder = builder.Where("LOWER(title) LIKE '%' || LOWER(?) || '%'", filter.Query)
	}

	if filter.Priority != "" {
		builder = builder.Where(sq.Eq{"priority": filter.Priority})
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return nil, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "ListForList", "todo", query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return nil, err
		}

		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"todo.uuid": todo.UUID.String(),
		"list.id":   todo.ListID,
	})
	defer span.End()

	startTime := time.Now()

	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.Todo{}, err
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM todos WHERE list_id = ?",
		todo.ListID,
	).Scan(&position)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Position = position

	query, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("uuid", "list_id", "title", "note", "due_date", "priority", "completed", "completed_at", "position", "created_at", "updated_at").
		Values(todo.UUID.String(), todo.ListID, todo.Title, nullable(todo.Note), todo.DueDate, priorityValue(todo.Priority), todo.Completed, todo.CompletedAt, todo.Position, todo.CreatedAt, todo.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", "todo", query, args)

	result, err := tx.ExecContext(ctx, query, args...)

	if err != nil {
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "todo", time.Since(startTime), err)
		return domain.Todo{}, err
	}

	todo.ID, err = result.LastInsertId()

	if err != nil {
		return domain.Todo{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Todo{}, err
	}

	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "todo", time.Since(startTime), nil)

	return todo, nil
}

func (tr *TodoRepository) GetByUUID(ctx context.Context, uid string) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"uuid": uid}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	return scanTodo(tr.db.QueryRowContext(ctx, query, args...))
}

func (tr *TodoRepository) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.Update("todos").
		Set("title", todo.Title).
		Set("note", nullable(todo.Note)).
		Set("due_date", todo.DueDate).
		Set("priority", priorityValue(todo.Priority)).
		Set("completed", todo.Completed).
		Set("completed_at", todo.CompletedAt).
		Set("updated_at", todo.UpdatedAt).
		Where(sq.Eq{"id": todo.ID}).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Update", "todo", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Todo{}, err
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return domain.Todo{}, err
	}

	if rowsAffected == 0 {
		return domain.Todo{}, domain.ErrNotFound
	}

	return todo, nil
}

func (tr *TodoRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

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

	return nil
}

// Move shifts one todo to a new position among its list siblings. All
// position updates commit in one transaction so a concurrent reader never
// observes a half-applied reorder.
func (tr *TodoRepository) Move(ctx context.Context, id, listID int64, newPosition int) error {
	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT id, position FROM todos WHERE list_id = ? ORDER BY position ASC",
		listID,
	)

	if err != nil {
		return err
	}

	var siblings []reorder.Entry

	for rows.Next() {
		var entry reorder.Entry

		if err := rows.Scan(&entry.ID, &entry.Position); err != nil {
			rows.Close()
			return err
		}

		siblings = append(siblings, entry)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	changes, err := reorder.PlanMove(siblings, id, newPosition)

	if err != nil {
		return err
	}

	for _, change := range changes {
		if _, err := tx.ExecContext(ctx,
			"UPDATE todos SET position = ? WHERE id = ?",
			change.Position, change.ID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (tr *TodoRepository) IncompleteCount(ctx context.Context, listID int64) (int, error) {
	var count int

	err := tr.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM todos WHERE list_id = ? AND completed = ?",
		listID, false,
	).Scan(&count)

	return count, err
}

func priorityValue(p *domain.Priority) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

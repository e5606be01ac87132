package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"todolists/internal/core/domain"
	"todolists/internal/core/port"
	"todolists/internal/core/reorder"
	tel "todolists/internal/core/telemetry"
)

// TodoService resolves ownership through the todo's parent list before any
// read or mutation. The list level never distinguishes "absent" from
// "someone else's"; the todo level does, via ErrForbidden.
type TodoService struct {
	todos     port.TodoRepository
	lists     port.ListRepository
	telemetry port.Telemetry
}

func NewTodoService(todos port.TodoRepository, lists port.ListRepository, probe port.Telemetry) *TodoService {
	if probe == nil {
		probe = tel.NewNoOpProbe()
	}

	return &TodoService{todos: todos, lists: lists, telemetry: probe}
}

func validateTodoTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return "", domain.NewValidationError("title", "is required")
	}

	// Character count, not bytes; multibyte titles must not hit the cap early.
	if utf8.RuneCountInString(trimmed) > domain.MaxTodoTitleLength {
		return "", domain.NewValidationError("title", "must be 200 characters or less")
	}

	return trimmed, nil
}

// ownedParent loads a todo's parent list and verifies ownership.
func (s *TodoService) ownedParent(ctx context.Context, todo domain.Todo, userID int64) (domain.List, error) {
	list, err := s.lists.GetByID(ctx, todo.ListID)

	if err != nil {
		return domain.List{}, err
	}

	if !list.BelongsToUser(userID) {
		return domain.List{}, domain.ErrForbidden
	}

	return list, nil
}

func (s *TodoService) Create(ctx context.Context, listUUID string, userID int64, title string) (domain.Todo, int, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "todo", "Create", userID, nil)
	defer span.End()

	list, err := s.lists.GetByUUID(ctx, listUUID, userID)

	if err != nil {
		return domain.Todo{}, 0, err
	}

	trimmed, err := validateTodoTitle(title)

	if err != nil {
		return domain.Todo{}, 0, err
	}

	now := time.Now()
	priority := domain.PriorityLow

	todo := domain.Todo{
		UUID:      uuid.New(),
		ListID:    list.ID,
		Title:     trimmed,
		Priority:  &priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.todos.Create(ctx, todo)

	if err != nil {
		span.RecordError(err)
		return domain.Todo{}, 0, err
	}

	count, err := s.todos.IncompleteCount(ctx, list.ID)

	if err != nil {
		return domain.Todo{}, 0, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "created", "todo", saved.UUID.String(), userID, map[string]interface{}{
		"list":     list.UUID.String(),
		"position": saved.Position,
	})

	return saved, count, nil
}

func (s *TodoService) Get(ctx context.Context, uid, listUUID string, userID int64) (domain.Todo, error) {
	list, err := s.lists.GetAnyByUUID(ctx, listUUID)

	if err != nil {
		return domain.Todo{}, err
	}

	if !list.BelongsToUser(userID) {
		return domain.Todo{}, domain.ErrForbidden
	}

	todo, err := s.todos.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Todo{}, err
	}

	if todo.ListID != list.ID {
		return domain.Todo{}, domain.ErrNotFound
	}

	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, uid string, userID int64, upd port.TodoUpdate) (domain.Todo, error) {
	todo, err := s.todos.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Todo{}, err
	}

	if _, err := s.ownedParent(ctx, todo, userID); err != nil {
		return domain.Todo{}, err
	}

	trimmed, err := validateTodoTitle(upd.Title)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Title = trimmed
	todo.Note = strings.TrimSpace(upd.Note)

	// An empty input clears the due date. A malformed one keeps whatever
	// was stored; the original app swallowed the parse error and so do we.
	if due := strings.TrimSpace(upd.DueDateInput); due != "" {
		if parsed, perr := time.Parse(domain.DueDateLayout, due); perr == nil {
			todo.DueDate = &parsed
		}
	} else {
		todo.DueDate = nil
	}

	// Unknown priorities coerce to low rather than erroring.
	priority := domain.CoercePriority(upd.Priority)
	todo.Priority = &priority

	todo.UpdatedAt = time.Now()

	return s.todos.Update(ctx, todo)
}

func (s *TodoService) Toggle(ctx context.Context, uid string, userID int64, now time.Time) (domain.Todo, int, error) {
	todo, err := s.todos.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Todo{}, 0, err
	}

	list, err := s.ownedParent(ctx, todo, userID)

	if err != nil {
		return domain.Todo{}, 0, err
	}

	todo.ToggleCompleted(now)
	todo.UpdatedAt = now

	saved, err := s.todos.Update(ctx, todo)

	if err != nil {
		return domain.Todo{}, 0, err
	}

	count, err := s.todos.IncompleteCount(ctx, list.ID)

	if err != nil {
		return domain.Todo{}, 0, err
	}

	return saved, count, nil
}

func (s *TodoService) Delete(ctx context.Context, uid string, userID int64) error {
	todo, err := s.todos.GetByUUID(ctx, uid)

	if err != nil {
		return err
	}

	if _, err := s.ownedParent(ctx, todo, userID); err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, todo.ID); err != nil {
		return err
	}

	s.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", todo.UUID.String(), userID, nil)

	return nil
}

func (s *TodoService) Reorder(ctx context.Context, uid string, userID int64, newPosition int) error {
	todo, err := s.todos.GetByUUID(ctx, uid)

	if err != nil {
		return err
	}

	if _, err := s.ownedParent(ctx, todo, userID); err != nil {
		return err
	}

	if err := s.todos.Move(ctx, todo.ID, todo.ListID, newPosition); err != nil {
		if errors.Is(err, reorder.ErrPositionOutOfRange) {
			return domain.NewValidationError("position", "is out of range")
		}

		return err
	}

	return nil
}

func (s *TodoService) Search(ctx context.Context, listUUID string, userID int64, query, priority string) ([]domain.Todo, error) {
	list, err := s.lists.GetByUUID(ctx, listUUID, userID)

	if err != nil {
		return nil, err
	}

	filter := port.TodoFilter{Query: strings.TrimSpace(query)}

	if domain.ValidPriority(priority) {
		filter.Priority = priority
	}

	return s.todos.ListForList(ctx, list.ID, filter)
}

func (s *TodoService) IncompleteCount(ctx context.Context, listUUID string, userID int64) (int, error) {
	list, err := s.lists.GetByUUID(ctx, listUUID, userID)

	if err != nil {
		return 0, err
	}

	return s.todos.IncompleteCount(ctx, list.ID)
}

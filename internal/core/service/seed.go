package service

import (
	"context"
	"errors"
	"log/slog"

	"todolists/internal/core/domain"
	"todolists/internal/core/port"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo123"
)

// SeedDemoData creates the demo account with a couple of lists and todos.
// It is a no-op when the demo user already exists, so it is safe to run on
// every startup.
func SeedDemoData(ctx context.Context, auth *AuthService, lists *ListService, todos *TodoService) error {
	if _, err := auth.repo.GetByEmail(ctx, demoEmail); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	user, err := auth.Register(ctx, demoEmail, demoPassword, demoPassword)

	if err != nil {
		return err
	}

	work, err := lists.Create(ctx, user.ID, "Work Tasks", "Important work items", "#3b82f6")

	if err != nil {
		return err
	}

	workTodos := []struct {
		title    string
		note     string
		priority string
	}{
		{"Review project plan", "Check the new requirements document", "high"},
		{"Update documentation", "", "medium"},
		{"Send weekly report", "", "low"},
	}

	for _, wt := range workTodos {
		created, _, err := todos.Create(ctx, work.UUID.String(), user.ID, wt.title)

		if err != nil {
			return err
		}

		if wt.note != "" || wt.priority != "low" {
			if _, err := todos.Update(ctx, created.UUID.String(), user.ID, updateFor(created, wt.note, wt.priority)); err != nil {
				return err
			}
		}
	}

	personal, err := lists.Create(ctx, user.ID, "Personal", "Personal tasks and reminders", "#10b981")

	if err != nil {
		return err
	}

	for _, pt := range []struct {
		title    string
		priority string
	}{
		{"Buy groceries", "medium"},
		{"Call mom", "high"},
	} {
		created, _, err := todos.Create(ctx, personal.UUID.String(), user.ID, pt.title)

		if err != nil {
			return err
		}

		if _, err := todos.Update(ctx, created.UUID.String(), user.ID, updateFor(created, "", pt.priority)); err != nil {
			return err
		}
	}

	slog.Info("Seeded demo data", "email", demoEmail)

	return nil
}

func updateFor(todo domain.Todo, note, priority string) port.TodoUpdate {
	return port.TodoUpdate{
		Title:    todo.Title,
		Note:     note,
		Priority: priority,
	}
}

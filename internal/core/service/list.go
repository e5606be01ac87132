package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"todolists/internal/core/domain"
	"todolists/internal/core/port"
	tel "todolists/internal/core/telemetry"
)

// ListService validates input and scopes every operation to the owning
// user before touching the repository.
type ListService struct {
	repo      port.ListRepository
	telemetry port.Telemetry
}

func NewListService(repo port.ListRepository, probe port.Telemetry) *ListService {
	if probe == nil {
		probe = tel.NewNoOpProbe()
	}

	return &ListService{repo: repo, telemetry: probe}
}

func validateListName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return "", domain.NewValidationError("name", "is required")
	}

	// Character count, not bytes; multibyte names must not hit the cap early.
	if utf8.RuneCountInString(trimmed) > domain.MaxListNameLength {
		return "", domain.NewValidationError("name", "must be 100 characters or less")
	}

	return trimmed, nil
}

func (s *ListService) ListForUser(ctx context.Context, userID int64) ([]domain.List, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *ListService) Create(ctx context.Context, userID int64, name, description, color string) (domain.List, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "list", "Create", userID, nil)
	defer span.End()

	trimmed, err := validateListName(name)

	if err != nil {
		return domain.List{}, err
	}

	if color == "" {
		color = domain.DefaultListColor
	}

	now := time.Now()

	list := domain.List{
		UUID:        uuid.New(),
		UserID:      userID,
		Name:        trimmed,
		Description: strings.TrimSpace(description),
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.repo.Create(ctx, list)

	if err != nil {
		span.RecordError(err)
		return domain.List{}, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "created", "list", saved.UUID.String(), userID, map[string]interface{}{
		"name":     saved.Name,
		"position": saved.Position,
	})

	return saved, nil
}

func (s *ListService) Get(ctx context.Context, uid string, userID int64) (domain.List, error) {
	return s.repo.GetByUUID(ctx, uid, userID)
}

func (s *ListService) Update(ctx context.Context, uid string, userID int64, name, description, color string) (domain.List, error) {
	list, err := s.repo.GetByUUID(ctx, uid, userID)

	if err != nil {
		return domain.List{}, err
	}

	trimmed, err := validateListName(name)

	if err != nil {
		return domain.List{}, err
	}

	list.Name = trimmed
	list.Description = strings.TrimSpace(description)

	// An omitted color falls back to the default, same as on create.
	if color == "" {
		color = domain.DefaultListColor
	}
	list.Color = color

	list.UpdatedAt = time.Now()

	return s.repo.Update(ctx, list)
}

func (s *ListService) Delete(ctx context.Context, uid string, userID int64) error {
	list, err := s.repo.GetByUUID(ctx, uid, userID)

	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, list.ID); err != nil {
		return err
	}

	s.telemetry.RecordBusinessEvent(ctx, "deleted", "list", list.UUID.String(), userID, nil)

	return nil
}

// Reorder applies the bulk form of the reorder contract: the caller sends
// the full new ordering and every list takes its index as position. UUIDs
// that don't resolve to one of the user's lists are skipped, not rejected.
func (s *ListService) Reorder(ctx context.Context, userID int64, orderedUUIDs []string) ([]domain.List, error) {
	owned, err := s.repo.ListForUser(ctx, userID)

	if err != nil {
		return nil, err
	}

	byUUID := make(map[string]int64, len(owned))
	for _, l := range owned {
		byUUID[l.UUID.String()] = l.ID
	}

	ids := make([]int64, 0, len(orderedUUIDs))
	for _, uid := range orderedUUIDs {
		if id, ok := byUUID[uid]; ok {
			ids = append(ids, id)
		}
	}

	if err := s.repo.Reorder(ctx, userID, ids); err != nil {
		return nil, err
	}

	return s.repo.ListForUser(ctx, userID)
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"todolists/internal/core/domain"
	"todolists/internal/core/port"
	tel "todolists/internal/core/telemetry"
	"todolists/internal/core/util"
)

const minPasswordLength = 6

var emailValidator = validator.New(validator.WithRequiredStructEnabled())

// AuthService owns registration, credential checks and account teardown.
type AuthService struct {
	repo      port.UserRepository
	telemetry port.Telemetry
}

func NewAuthService(repo port.UserRepository, probe port.Telemetry) *AuthService {
	if probe == nil {
		probe = tel.NewNoOpProbe()
	}

	return &AuthService{repo: repo, telemetry: probe}
}

func (s *AuthService) Register(ctx context.Context, email, password, confirm string) (domain.User, error) {
	if err := emailValidator.Var(email, "required,email,max=255"); err != nil {
		return domain.User{}, domain.NewValidationError("email", "must be a valid email address")
	}

	if len(password) < minPasswordLength {
		return domain.User{}, domain.NewValidationError("password", "must be at least 6 characters")
	}

	if password != confirm {
		return domain.User{}, domain.NewValidationError("confirm_password", "passwords do not match")
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.Email != "" {
		return domain.User{}, domain.NewValidationError("email", "already registered")
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	encrypted, err := util.GenerateEncrypt(password)

	if err != nil {
		return domain.User{}, err
	}

	now := time.Now()

	user := domain.User{
		UUID:              uuid.New(),
		Email:             email,
		EncryptedPassword: encrypted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	saved, err := s.repo.Create(ctx, user)

	if err != nil {
		return domain.User{}, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "registered", "user", saved.UUID.String(), saved.ID, nil)

	return saved, nil
}

// Authenticate reports the same ErrInvalidCredentials for an unknown email
// and a wrong password, so responses can't be used to enumerate accounts.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := util.ComparePassword(password, user.EncryptedPassword); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return user, nil
}

// DeleteAccount removes the user; the repository cascades to every owned
// list and todo in the same transaction.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.telemetry.RecordBusinessEvent(ctx, "deleted", "user", "", userID, nil)

	return nil
}

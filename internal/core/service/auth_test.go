package service

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	database "todolists/internal/adapter/database/sqlite"
	"todolists/internal/adapter/database/sqlite/repository"
	"todolists/internal/core/domain"
	"todolists/internal/core/port"
	. "todolists/pkg/test"
)

type AuthServiceSuite struct {
	suite.Suite
	DB       *database.DB
	UserRepo port.UserRepository
	Auth     *AuthService
}

func (s *AuthServiceSuite) SetupTest() {
	s.DB = InitTestDB()
	s.UserRepo = repository.NewUserRepository(s.DB, nil)
	s.Auth = NewAuthService(s.UserRepo, nil)
}

func (s *AuthServiceSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestAuthServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) TestRegisterSuccess() {
	user, err := s.Auth.Register(context.Background(), "ana@example.com", "secret1", "secret1")

	Expect(err).ToNot(HaveOccurred())
	Expect(user.ID).To(BeNumerically(">", int64(0)))
	Expect(user.Email).To(Equal("ana@example.com"))
	Expect(user.EncryptedPassword).ToNot(Equal("secret1"))
	Expect(user.UUID.String()).To(HaveLen(36))
}

func (s *AuthServiceSuite) TestRegisterInvalidEmail() {
	_, err := s.Auth.Register(context.Background(), "not-an-email", "secret1", "secret1")

	ve, ok := domain.AsValidationError(err)
	Expect(ok).To(BeTrue())
	Expect(ve.Field).To(Equal("email"))
}

func (s *AuthServiceSuite) TestRegisterShortPassword() {
	_, err := s.Auth.Register(context.Background(), "ana@example.com", "12345", "12345")

	ve, ok := domain.AsValidationError(err)
	Expect(ok).To(BeTrue())
	Expect(ve.Field).To(Equal("password"))
}

func (s *AuthServiceSuite) TestRegisterPasswordMismatch() {
	_, err := s.Auth.Register(context.Background(), "ana@example.com", "secret1", "secret2")

	ve, ok := domain.AsValidationError(err)
	Expect(ok).To(BeTrue())
	Expect(ve.Field).To(Equal("confirm_password"))
}

func (s *AuthServiceSuite) TestRegisterValidationOrder() {
	// A short mismatched password reports the length problem first.
	_, err := s.Auth.Register(context.Background(), "ana@example.com", "123", "456")

	ve, ok := domain.AsValidationError(err)
	Expect(ok).To(BeTrue())
	Expect(ve.Field).To(Equal("password"))
}

func (s *AuthServiceSuite) TestRegisterEmailTaken() {
	_, err := s.Auth.Register(context.Background(), "ana@example.com", "secret1", "secret1")
	Expect(err).ToNot(HaveOccurred())

	_, err = s.Auth.Register(context.Background(), "ana@example.com", "other-pass", "other-pass")

	ve, ok := domain.AsValidationError(err)
	Expect(ok).To(BeTrue())
	Expect(ve.Field).To(Equal("email"))
	Expect(ve.Reason).To(ContainSubstring("already"))
}

func (s *AuthServiceSuite) TestAuthenticateSuccess() {
	registered, err := s.Auth.Register(context.Background(), "ana@example.com", "secret1", "secret1")
	Expect(err).ToNot(HaveOccurred())

	user, err := s.Auth.Authenticate(context.Background(), "ana@example.com", "secret1")

	Expect(err).ToNot(HaveOccurred())
	Expect(user.ID).To(Equal(registered.ID))
}

func (s *AuthServiceSuite) TestAuthenticateWrongPassword() {
	_, err := s.Auth.Register(context.Background(), "ana@example.com", "secret1", "secret1")
	Expect(err).ToNot(HaveOccurred())

	_, err = s.Auth.Authenticate(context.Background(), "ana@example.com", "wrong")

	Expect(errors.Is(err, domain.ErrInvalidCredentials)).To(BeTrue())
}

func (s *AuthServiceSuite) TestAuthenticateUnknownEmail() {
	_, err := s.Auth.Authenticate(context.Background(), "ghost@example.com", "whatever")

	// Same error as a wrong password, so callers can't probe for accounts.
	Expect(errors.Is(err, domain.ErrInvalidCredentials)).To(BeTrue())
}

func (s *AuthServiceSuite) TestDeleteAccountCascades() {
	ctx := context.Background()

	user, err := s.Auth.Register(ctx, "ana@example.com", "secret1", "secret1")
	Expect(err).ToNot(HaveOccurred())

	listRepo := repository.NewListRepository(s.DB, nil)
	todoRepo := repository.NewTodoRepository(s.DB, nil)
	lists := NewListService(listRepo, nil)
	todos := NewTodoService(todoRepo, listRepo, nil)

	list, err := lists.Create(ctx, user.ID, "Groceries", "", "")
	Expect(err).ToNot(HaveOccurred())

	_, _, err = todos.Create(ctx, list.UUID.String(), user.ID, "Buy milk")
	Expect(err).ToNot(HaveOccurred())

	Expect(s.Auth.DeleteAccount(ctx, user.ID)).To(Succeed())

	var listCount, todoCount int
	Expect(s.DB.QueryRow("SELECT COUNT(*) FROM lists").Scan(&listCount)).To(Succeed())
	Expect(s.DB.QueryRow("SELECT COUNT(*) FROM todos").Scan(&todoCount)).To(Succeed())
	Expect(listCount).To(Equal(0))
	Expect(todoCount).To(Equal(0))

	_, err = s.UserRepo.GetByID(ctx, user.ID)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *AuthServiceSuite) TestDeleteMissingAccount() {
	err := s.Auth.DeleteAccount(context.Background(), 999)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

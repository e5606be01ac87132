package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"todolists/internal/adapter/database/sqlite"
	"todolists/internal/core/domain"
	"todolists/internal/core/port"
	. "todolists/pkg/test"
	"todolists/pkg/test/factory"
)

type UserRepositorySuite struct {
	suite.Suite
	DB   *sqlite.DB
	Repo port.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.DB = InitTestDB()
	s.Repo = NewUserRepository(s.DB, nil)
}

func (s *UserRepositorySuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestUserRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositorySuite))
}

func buildUser(email string) domain.User {
	now := time.Now().UTC()

	return factory.NewUser[domain.User](map[string]any{
		"Email":     email,
		"UUID":      uuid.New(),
		"CreatedAt": now,
		"UpdatedAt": now,
	})
}

func (s *UserRepositorySuite) TestCreateAndGetByEmail() {
	ctx := context.Background()

	created, err := s.Repo.Create(ctx, buildUser("ana@example.com"))

	Expect(err).NotTo(HaveOccurred())
	Expect(created.ID).To(BeNumerically(">", 0))

	found, err := s.Repo.GetByEmail(ctx, "ana@example.com")

	Expect(err).NotTo(HaveOccurred())
	Expect(found.ID).To(Equal(created.ID))
	Expect(found.UUID).To(Equal(created.UUID))

	// The factory stores a real hash of its default password.
	err = bcrypt.CompareHashAndPassword([]byte(found.EncryptedPassword), []byte("demo123"))
	Expect(err).NotTo(HaveOccurred())
}

func (s *UserRepositorySuite) TestGetByID() {
	ctx := context.Background()

	created, err := s.Repo.Create(ctx, buildUser("ana@example.com"))
	s.Require().NoError(err)

	found, err := s.Repo.GetByID(ctx, created.ID)

	Expect(err).NotTo(HaveOccurred())
	Expect(found.Email).To(Equal("ana@example.com"))
}

func (s *UserRepositorySuite) TestGetMissing() {
	ctx := context.Background()

	_, err := s.Repo.GetByEmail(ctx, "ghost@example.com")
	Expect(err).To(MatchError(domain.ErrNotFound))

	_, err = s.Repo.GetByID(ctx, 999)
	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *UserRepositorySuite) TestDuplicateEmail() {
	ctx := context.Background()

	_, err := s.Repo.Create(ctx, buildUser("ana@example.com"))
	s.Require().NoError(err)

	_, err = s.Repo.Create(ctx, buildUser("ana@example.com"))

	Expect(err).To(HaveOccurred())
}

func (s *UserRepositorySuite) TestDelete() {
	ctx := context.Background()

	created, err := s.Repo.Create(ctx, buildUser("ana@example.com"))
	s.Require().NoError(err)

	Expect(s.Repo.Delete(ctx, created.ID)).To(Succeed())

	_, err = s.Repo.GetByID(ctx, created.ID)
	Expect(err).To(MatchError(domain.ErrNotFound))

	Expect(s.Repo.Delete(ctx, created.ID)).To(MatchError(domain.ErrNotFound))
}

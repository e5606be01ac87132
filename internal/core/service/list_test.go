package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	database "todolists/internal/adapter/database/sqlite"
	"todolists/internal/adapter/database/sqlite/repository"
	"todolists/internal/core/domain"
	. "todolists/pkg/test"
)

type ListServiceSuite struct {
	suite.Suite
	DB    *database.DB
	Auth  *AuthService
	Lists *ListService

	ownerID int64
	otherID int64
}

func (s *ListServiceSuite) SetupTest() {
	s.DB = InitTestDB()

	userRepo := repository.NewUserRepository(s.DB, nil)
	listRepo := repository.NewListRepository(s.DB, nil)

	s.Auth = NewAuthService(userRepo, nil)
	s.Lists = NewListService(listRepo, nil)

	owner, err := s.Auth.Register(context.Background(), "owner@example.com", "secret1", "secret1")
	s.Require().NoError(err)
	other, err := s.Auth.Register(context.Background(), "other@example.com", "secret1", "secret1")
	s.Require().NoError(err)

	s.ownerID = owner.ID
	s.otherID = other.ID
}

func (s *ListServiceSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestListServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ListServiceSuite))
}

func (s *ListServiceSuite) TestCreateDefaults() {
	list, err := s.Lists.Create(context.Background(), s.ownerID, "  Groceries  ", "weekly shop", "")

	Expect(err).ToNot(HaveOccurred())
	Expect(list.Name).To(Equal("Groceries"))
	Expect(list.Color).To(Equal(domain.DefaultListColor))
	Expect(list.Position).To(Equal(0))

	second, err := s.Lists.Create(context.Background(), s.ownerID, "Work", "", "#ff0000")

	Expect(err).ToNot(HaveOccurred())
	Expect(second.Position).To(Equal(1))
	Expect(second.Color).To(Equal("#ff0000"))
}

func (s *ListServiceSuite) TestCreateValidation() {
	_, err := s.Lists.Create(context.Background(), s.ownerID, "   ", "", "")

	ve, ok := domain.AsValidationError(err)
	Expect(ok).To(BeTrue())
	Expect(ve.Field).To(Equal("name"))

	_, err = s.Lists.Create(context.Background(), s.ownerID, strings.Repeat("x", 101), "", "")

	ve, ok = domain.AsValidationError(err)
	Expect(ok).To(BeTrue())
	Expect(ve.Field).To(Equal("name"))
}

func (s *ListServiceSuite) TestCreateCountsCharactersNotBytes() {
	// 100 two-byte runes are within the cap even though their byte length
	// is well past it.
	list, err := s.Lists.Create(context.Background(), s.ownerID, strings.Repeat("é", 100), "", "")

	Expect(err).ToNot(HaveOccurred())
	Expect(list.Name).To(Equal(strings.Repeat("é", 100)))

	_, err = s.Lists.Create(context.Background(), s.ownerID, strings.Repeat("é", 101), "", "")

	ve, ok := domain.AsValidationError(err)
	Expect(ok).To(BeTrue())
	Expect(ve.Field).To(Equal("name"))
}

func (s *ListServiceSuite) TestPositionsArePerUser() {
	_, err := s.Lists.Create(context.Background(), s.ownerID, "Owner A", "", "")
	Expect(err).ToNot(HaveOccurred())

	otherFirst, err := s.Lists.Create(context.Background(), s.otherID, "Other A", "", "")

	Expect(err).ToNot(HaveOccurred())
	Expect(otherFirst.Position).To(Equal(0))
}

func (s *ListServiceSuite) TestGetScopedByOwner() {
	list, err := s.Lists.Create(context.Background(), s.ownerID, "Groceries", "", "")
	Expect(err).ToNot(HaveOccurred())

	// The other user sees not-found, never forbidden, at the list level.
	_, err = s.Lists.Get(context.Background(), list.UUID.String(), s.otherID)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

	found, err := s.Lists.Get(context.Background(), list.UUID.String(), s.ownerID)
	Expect(err).ToNot(HaveOccurred())
	Expect(found.ID).To(Equal(list.ID))
}

func (s *ListServiceSuite) TestUpdate() {
	list, err := s.Lists.Create(context.Background(), s.ownerID, "Groceries", "", "")
	Expect(err).ToNot(HaveOccurred())

	updated, err := s.Lists.Update(context.Background(), list.UUID.String(), s.ownerID, "Errands", "new desc", "#10b981")

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.Name).To(Equal("Errands"))
	Expect(updated.Description).To(Equal("new desc"))
	Expect(updated.Color).To(Equal("#10b981"))

	// An omitted color falls back to the default, same as on create.
	reverted, err := s.Lists.Update(context.Background(), list.UUID.String(), s.ownerID, "Errands", "", "")
	Expect(err).ToNot(HaveOccurred())
	Expect(reverted.Color).To(Equal(domain.DefaultListColor))
}

func (s *ListServiceSuite) TestUpdateForeignListNotFound() {
	list, err := s.Lists.Create(context.Background(), s.ownerID, "Groceries", "", "")
	Expect(err).ToNot(HaveOccurred())

	_, err = s.Lists.Update(context.Background(), list.UUID.String(), s.otherID, "Stolen", "", "")
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *ListServiceSuite) TestDeleteCascadesToTodos() {
	ctx := context.Background()

	listRepo := repository.NewListRepository(s.DB, nil)
	todoRepo := repository.NewTodoRepository(s.DB, nil)
	todos := NewTodoService(todoRepo, listRepo, nil)

	list, err := s.Lists.Create(ctx, s.ownerID, "Groceries", "", "")
	Expect(err).ToNot(HaveOccurred())

	_, _, err = todos.Create(ctx, list.UUID.String(), s.ownerID, "Buy milk")
	Expect(err).ToNot(HaveOccurred())

	Expect(s.Lists.Delete(ctx, list.UUID.String(), s.ownerID)).To(Succeed())

	var todoCount int
	Expect(s.DB.QueryRow("SELECT COUNT(*) FROM todos").Scan(&todoCount)).To(Succeed())
	Expect(todoCount).To(Equal(0))
}

func (s *ListServiceSuite) TestReorderAppliesFullOrdering() {
	ctx := context.Background()

	a, _ := s.Lists.Create(ctx, s.ownerID, "A", "", "")
	b, _ := s.Lists.Create(ctx, s.ownerID, "B", "", "")
	c, _ := s.Lists.Create(ctx, s.ownerID, "C", "", "")

	reordered, err := s.Lists.Reorder(ctx, s.ownerID, []string{
		c.UUID.String(), a.UUID.String(), b.UUID.String(),
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(reordered).To(HaveLen(3))
	Expect(reordered[0].Name).To(Equal("C"))
	Expect(reordered[1].Name).To(Equal("A"))
	Expect(reordered[2].Name).To(Equal("B"))
}

func (s *ListServiceSuite) TestReorderSkipsForeignIDs() {
	ctx := context.Background()

	a, _ := s.Lists.Create(ctx, s.ownerID, "A", "", "")
	b, _ := s.Lists.Create(ctx, s.ownerID, "B", "", "")
	foreign, _ := s.Lists.Create(ctx, s.otherID, "Foreign", "", "")

	reordered, err := s.Lists.Reorder(ctx, s.ownerID, []string{
		b.UUID.String(), foreign.UUID.String(), a.UUID.String(),
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(reordered).To(HaveLen(2))
	Expect(reordered[0].Name).To(Equal("B"))
	Expect(reordered[1].Name).To(Equal("A"))

	// The foreign user's list order is untouched.
	otherLists, err := s.Lists.ListForUser(ctx, s.otherID)
	Expect(err).ToNot(HaveOccurred())
	Expect(otherLists[0].ID).To(Equal(foreign.ID))
	Expect(otherLists[0].Position).To(Equal(0))
}

package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	database "todolists/internal/adapter/database/sqlite"
	"todolists/internal/adapter/database/sqlite/repository"
	"todolists/internal/adapter/http/middleware"
	"todolists/internal/adapter/session"
	"todolists/internal/core/model/response"
	"todolists/internal/core/service"
	"todolists/internal/shared"
	. "todolists/pkg/test"
)

type TodoHandlerSuite struct {
	suite.Suite
	DB     *database.DB
	Router *gin.Engine
	Token  string
	ListID string
}

func (s *TodoHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.DB = InitTestDB()
	sessions := session.NewMemoryStore()

	userRepo := repository.NewUserRepository(s.DB, nil)
	listRepo := repository.NewListRepository(s.DB, nil)
	todoRepo := repository.NewTodoRepository(s.DB, nil)

	logger, err := shared.NewLokiLogger("todolists-test", "http://localhost:3100")
	s.Require().NoError(err)

	authHandler := NewAuthHandler(service.NewAuthService(userRepo, nil), sessions)
	listHandler := NewListHandler(service.NewListService(listRepo, nil), logger, nil)
	todoHandler := NewTodoHandler(service.NewTodoService(todoRepo, listRepo, nil), logger, nil)

	router := gin.New()
	router.POST("/signup", authHandler.RegisterByEmailAndPassword)

	api := router.Group("/api")
	api.Use(middleware.SessionMiddleware(sessions))
	{
		api.GET("/lists", listHandler.GetAllLists)
		api.POST("/lists", listHandler.CreateList)
		api.POST("/lists/reorder", listHandler.ReorderLists)
		api.GET("/lists/:uuid", listHandler.GetList)
		api.PUT("/lists/:uuid", listHandler.UpdateList)
		api.DELETE("/lists/:uuid", listHandler.DeleteList)

		api.GET("/todos/search", todoHandler.SearchTodos)
		api.POST("/todos", todoHandler.CreateTodo)
		api.GET("/todos/:uuid", todoHandler.GetTodo)
		api.PUT("/todos/:uuid", todoHandler.UpdateTodo)
		api.PATCH("/todos/:uuid/toggle", todoHandler.ToggleTodo)
		api.DELETE("/todos/:uuid", todoHandler.DeleteTodo)
		api.POST("/todos/:uuid/reorder", todoHandler.ReorderTodo)
	}

	s.Router = router
	s.Token = s.signUp("owner@example.com")
	s.ListID = s.createList("Groceries")
}

func (s *TodoHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) request(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *TodoHandlerSuite) signUp(email string) string {
	rr := s.request("POST", "/signup", `{"email": "`+email+`", "password": "secret1", "confirm_password": "secret1"}`, "")
	s.Require().Equal(http.StatusCreated, rr.Code)

	data := struct {
		Data response.SessionResponse `json:"data"`
	}{}
	json.Unmarshal(rr.Body.Bytes(), &data)
	return data.Data.Token
}

func (s *TodoHandlerSuite) createList(name string) string {
	rr := s.request("POST", "/api/lists", `{"name": "`+name+`"}`, s.Token)
	s.Require().Equal(http.StatusCreated, rr.Code)

	data := struct {
		Data response.ListResponse `json:"data"`
	}{}
	json.Unmarshal(rr.Body.Bytes(), &data)
	return data.Data.UUID
}

func (s *TodoHandlerSuite) createTodo(title string) response.TodoWithCountResponse {
	rr := s.request("POST", "/api/todos", `{"list_id": "`+s.ListID+`", "title": "`+title+`"}`, s.Token)
	s.Require().Equal(http.StatusCreated, rr.Code)

	data := struct {
		Data response.TodoWithCountResponse `json:"data"`
	}{}
	json.Unmarshal(rr.Body.Bytes(), &data)
	return data.Data
}

func (s *TodoHandlerSuite) TestRequiresSession() {
	rr := s.request("POST", "/api/todos", `{"list_id": "`+s.ListID+`", "title": "Milk"}`, "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *TodoHandlerSuite) TestCreateTodo() {
	created := s.createTodo("Milk")

	Expect(created.Todo.Title).To(Equal("Milk"))
	Expect(*created.Todo.Priority).To(Equal("low"))
	Expect(created.Todo.Completed).To(BeFalse())
	Expect(created.IncompleteCount).To(Equal(1))
}

func (s *TodoHandlerSuite) TestCreateTodoInForeignList() {
	otherToken := s.signUp("other@example.com")

	rr := s.request("POST", "/api/todos", `{"list_id": "`+s.ListID+`", "title": "Milk"}`, otherToken)

	// A list you do not own looks like it does not exist.
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestGetTodoRequiresListID() {
	created := s.createTodo("Milk")

	rr := s.request("GET", "/api/todos/"+created.Todo.UUID, "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestGetTodoForeignOwner() {
	created := s.createTodo("Milk")
	otherToken := s.signUp("other@example.com")

	rr := s.request("GET", "/api/todos/"+created.Todo.UUID+"?list_id="+s.ListID, "", otherToken)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestUpdateTodoDueDateAndPriority() {
	created := s.createTodo("Milk")

	rr := s.request("PUT", "/api/todos/"+created.Todo.UUID,
		`{"title": "Milk", "due_date": "2026-09-15T10:30", "priority": "high"}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := struct {
		Data response.TodoResponse `json:"data"`
	}{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Data.DueDate).NotTo(BeNil())
	Expect(*data.Data.Priority).To(Equal("high"))

	// A garbled due date leaves the stored one alone.
	rr = s.request("PUT", "/api/todos/"+created.Todo.UUID,
		`{"title": "Milk", "due_date": "not-a-date", "priority": "high"}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	json.Unmarshal(rr.Body.Bytes(), &data)
	Expect(data.Data.DueDate).NotTo(BeNil())

	// An empty due date clears it.
	rr = s.request("PUT", "/api/todos/"+created.Todo.UUID,
		`{"title": "Milk", "priority": "high"}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	json.Unmarshal(rr.Body.Bytes(), &data)
	Expect(data.Data.DueDate).To(BeNil())
}

func (s *TodoHandlerSuite) TestToggleTodo() {
	created := s.createTodo("Milk")
	s.createTodo("Bread")

	rr := s.request("PATCH", "/api/todos/"+created.Todo.UUID+"/toggle", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := struct {
		Data response.TodoWithCountResponse `json:"data"`
	}{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Data.Todo.Completed).To(BeTrue())
	Expect(data.Data.Todo.CompletedAt).NotTo(BeNil())
	Expect(data.Data.IncompleteCount).To(Equal(1))

	rr = s.request("PATCH", "/api/todos/"+created.Todo.UUID+"/toggle", "", s.Token)

	json.Unmarshal(rr.Body.Bytes(), &data)
	Expect(data.Data.Todo.Completed).To(BeFalse())
	Expect(data.Data.Todo.CompletedAt).To(BeNil())
	Expect(data.Data.IncompleteCount).To(Equal(2))
}

func (s *TodoHandlerSuite) TestSearchRequiresListID() {
	rr := s.request("GET", "/api/todos/search?q=milk", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestSearchTodos() {
	s.createTodo("Buy milk")
	s.createTodo("Buy bread")
	s.createTodo("Call mom")

	rr := s.request("GET", "/api/todos/search?list_id="+s.ListID+"&q=BUY", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := struct {
		Data []response.TodoResponse `json:"data"`
	}{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Data).To(HaveLen(2))
}

func (s *TodoHandlerSuite) TestReorderTodo() {
	s.createTodo("A")
	s.createTodo("B")
	third := s.createTodo("C")

	rr := s.request("POST", "/api/todos/"+third.Todo.UUID+"/reorder", `{"position": 0}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.request("GET", "/api/todos/search?list_id="+s.ListID, "", s.Token)

	data := struct {
		Data []response.TodoResponse `json:"data"`
	}{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	titles := []string{data.Data[0].Title, data.Data[1].Title, data.Data[2].Title}
	Expect(titles).To(Equal([]string{"C", "A", "B"}))
}

func (s *TodoHandlerSuite) TestReorderTodoOutOfRange() {
	created := s.createTodo("A")

	rr := s.request("POST", "/api/todos/"+created.Todo.UUID+"/reorder", `{"position": 5}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestDeleteTodo() {
	created := s.createTodo("Milk")

	rr := s.request("DELETE", "/api/todos/"+created.Todo.UUID, "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.request("GET", "/api/todos/"+created.Todo.UUID+"?list_id="+s.ListID, "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestListScoping() {
	otherToken := s.signUp("other@example.com")

	rr := s.request("GET", "/api/lists/"+s.ListID, "", otherToken)

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	rr = s.request("GET", "/api/lists", "", otherToken)

	data := struct {
		Data []response.ListResponse `json:"data"`
	}{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Data).To(BeEmpty())
}

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
	. "todolists/pkg/test"
)

type AuthHandlerSuite struct {
	suite.Suite
	DB       *database.DB
	Sessions *session.MemoryStore
	Router   *gin.Engine
}

func (s *AuthHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.DB = InitTestDB()
	s.Sessions = session.NewMemoryStore()

	userRepo := repository.NewUserRepository(s.DB, nil)
	authSvc := service.NewAuthService(userRepo, nil)
	authHandler := NewAuthHandler(authSvc, s.Sessions)

	s.Router = setupAuthTestRouter(authHandler, s.Sessions)
}

func (s *AuthHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func setupAuthTestRouter(authHandler *AuthHandler, sessions *session.MemoryStore) *gin.Engine {
	router := gin.New()

	router.POST("/signup", authHandler.RegisterByEmailAndPassword)
	router.POST("/auth", authHandler.AuthByEmailAndPassword)

	account := router.Group("/")
	account.Use(middleware.SessionMiddleware(sessions))
	{
		account.POST("/logout", authHandler.Logout)
		account.DELETE("/account", authHandler.DeleteAccount)
	}

	return router
}

func (s *AuthHandlerSuite) postJSON(path, body string, headers ...http.Header) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))

	if len(headers) > 0 {
		req.Header = headers[0]
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *AuthHandlerSuite) TestSignUpSuccess() {
	rr := s.postJSON("/signup", `{"email": "ana@example.com", "password": "secret1", "confirm_password": "secret1"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	body, _ := io.ReadAll(rr.Body)
	data := struct {
		Data response.SessionResponse `json:"data"`
	}{}
	json.Unmarshal(body, &data)

	Expect(data.Data.Token).To(HaveLen(64))
	Expect(data.Data.User.Email).To(Equal("ana@example.com"))

	// Signup logs the user in.
	Expect(s.Sessions.Len()).To(Equal(1))
	Expect(rr.Header().Get("Set-Cookie")).To(ContainSubstring("session_id="))
}

func (s *AuthHandlerSuite) TestSignUpPasswordMismatch() {
	rr := s.postJSON("/signup", `{"email": "ana@example.com", "password": "secret1", "confirm_password": "secret2"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)
	data := response.ErrorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(data.Error.Errors[0].Field).To(Equal("confirm_password"))
}

func (s *AuthHandlerSuite) TestSignUpMissingFields() {
	rr := s.postJSON("/signup", `{"email": "ana@example.com"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)
	data := response.ErrorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Error.Code).To(Equal("VALIDATION_ERROR"))
}

func (s *AuthHandlerSuite) TestAuthSuccessWithSafeRedirect() {
	s.postJSON("/signup", `{"email": "ana@example.com", "password": "secret1", "confirm_password": "secret1"}`)

	rr := s.postJSON("/auth", `{"email": "ana@example.com", "password": "secret1", "next": "/lists/42"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)
	data := struct {
		Data response.SessionResponse `json:"data"`
	}{}
	json.Unmarshal(body, &data)

	Expect(data.Data.Token).To(HaveLen(64))
	Expect(data.Data.Redirect).To(Equal("/lists/42"))
}

func (s *AuthHandlerSuite) TestAuthRejectsUnsafeRedirect() {
	s.postJSON("/signup", `{"email": "ana@example.com", "password": "secret1", "confirm_password": "secret1"}`)

	for _, next := range []string{"https://evil.example", "//evil.example", "javascript://x"} {
		rr := s.postJSON("/auth", `{"email": "ana@example.com", "password": "secret1", "next": "`+next+`"}`)

		Expect(rr.Code).To(Equal(http.StatusOK))

		body, _ := io.ReadAll(rr.Body)
		data := struct {
			Data response.SessionResponse `json:"data"`
		}{}
		json.Unmarshal(body, &data)

		Expect(data.Data.Redirect).To(BeEmpty())
	}
}

func (s *AuthHandlerSuite) TestAuthWrongPassword() {
	s.postJSON("/signup", `{"email": "ana@example.com", "password": "secret1", "confirm_password": "secret1"}`)

	rr := s.postJSON("/auth", `{"email": "ana@example.com", "password": "wrong"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestAuthUnknownEmailSameResponse() {
	rr := s.postJSON("/auth", `{"email": "ghost@example.com", "password": "whatever"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))

	body, _ := io.ReadAll(rr.Body)
	data := response.ErrorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Error.Errors[0].Message).To(Equal("Invalid email or password"))
}

func (s *AuthHandlerSuite) TestLogoutDeletesSession() {
	rr := s.postJSON("/signup", `{"email": "ana@example.com", "password": "secret1", "confirm_password": "secret1"}`)

	body, _ := io.ReadAll(rr.Body)
	data := struct {
		Data response.SessionResponse `json:"data"`
	}{}
	json.Unmarshal(body, &data)

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+data.Data.Token)

	rr = s.postJSON("/logout", "", headers)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(s.Sessions.Len()).To(Equal(0))

	// The token died with the session.
	rr = s.postJSON("/logout", "", headers)
	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestDeleteAccount() {
	rr := s.postJSON("/signup", `{"email": "ana@example.com", "password": "secret1", "confirm_password": "secret1"}`)

	body, _ := io.ReadAll(rr.Body)
	data := struct {
		Data response.SessionResponse `json:"data"`
	}{}
	json.Unmarshal(body, &data)

	req, _ := http.NewRequest("DELETE", "/account", nil)
	req.Header.Set("Authorization", "Bearer "+data.Data.Token)
	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	// Credentials no longer work.
	rr = s.postJSON("/auth", `{"email": "ana@example.com", "password": "secret1"}`)
	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

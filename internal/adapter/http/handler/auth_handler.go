package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	. "todolists/internal/adapter/http/helper"
	. "todolists/internal/adapter/http/validation"
	"todolists/internal/adapter/http/middleware"
	"todolists/internal/core/model/request"
	"todolists/internal/core/model/response"
	"todolists/internal/core/port"
	"todolists/internal/core/util"
)

const sessionCookieMaxAge = 30 * 24 * 60 * 60

type AuthHandler struct {
	svc      port.AuthService
	sessions port.SessionStore
}

func NewAuthHandler(svc port.AuthService, sessions port.SessionStore) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		sessions: sessions,
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.BindJSON[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Register(ctx, params.Email, params.Password, params.ConfirmPassword)

	if err != nil {
		slog.Error("Registration failed", "error", err)
		SendDomainError(c, err)
		return
	}

	// Registration logs the user straight in.
	token, err := a.sessions.Create(ctx, user.ID)

	if err != nil {
		SendInternalError(c, "failed to create session")
		return
	}

	a.setSessionCookie(c, token)

	SendSuccess(c, http.StatusCreated, response.SessionResponse{
		Token: token,
		User:  response.NewUserResponse(user),
	})
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.BindJSON[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Authenticate(ctx, params.Email, params.Password)

	if err != nil {
		slog.Error("AuthByEmailAndPassword", "after_authenticate", err)
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	token, err := a.sessions.Create(ctx, user.ID)

	if err != nil {
		SendInternalError(c, "failed to create session")
		return
	}

	a.setSessionCookie(c, token)

	SendSuccess(c, http.StatusOK, response.SessionResponse{
		Token:    token,
		User:     response.NewUserResponse(user),
		Redirect: safeRedirect(params.Next),
	})
}

func (a *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if token := c.GetString("x-session-token"); token != "" {
		// Deleting an already-gone token is fine; logout stays idempotent.
		if err := a.sessions.Delete(ctx, token); err != nil {
			SendInternalError(c, "failed to end session")
			return
		}
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)

	SendSuccess(c, http.StatusOK, nil, "Logged out")
}

func (a *AuthHandler) DeleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	if err := a.svc.DeleteAccount(ctx, userID); err != nil {
		slog.Error("Error deleting account", "error", err)
		SendDomainError(c, err)
		return
	}

	if token := c.GetString("x-session-token"); token != "" {
		a.sessions.Delete(ctx, token)
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)

	SendSuccess(c, http.StatusOK, nil, "Account deleted")
}

func (a *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
}

// safeRedirect only echoes relative in-site paths. Absolute URLs,
// protocol-relative paths and anything carrying a scheme fall back to the
// default landing page.
func safeRedirect(next string) string {
	if next == "" {
		return ""
	}

	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}

	if strings.Contains(next, "://") {
		return ""
	}

	return next
}

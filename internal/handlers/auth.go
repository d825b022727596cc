package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knagano/todolist-api/internal/constants"
	"github.com/knagano/todolist-api/internal/dto"
	apierrors "github.com/knagano/todolist-api/internal/errors"
	"github.com/knagano/todolist-api/internal/models"
	"github.com/knagano/todolist-api/internal/services"
	"github.com/knagano/todolist-api/internal/token"
)

// AuthHandler coordinates authentication-related HTTP handlers. The
// session credential travels in an http-only cookie and never appears in
// a response body.
type AuthHandler struct {
	authService   *services.AuthService
	tokens        *token.Manager
	cookieName    string
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *token.Manager, cookieName string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tokens:        tokens,
		cookieName:    cookieName,
		secureCookies: secureCookies,
	}
}

// Signup registers a new account and starts its session.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidInput(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Signin authenticates an account and starts its session.
func (h *AuthHandler) Signin(c *gin.Context) {
	type SigninRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidInput(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Signout discards the client-held credential. The credential is
// self-contained, so there is nothing to revoke server side.
func (h *AuthHandler) Signout(c *gin.Context) {
	h.setSameSite(c)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// startSession issues the signed credential and attaches it as a cookie.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	credential, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("failed to issue session credential: %v", err)
		apierrors.Unavailable(c)
		return false
	}

	h.setSameSite(c)
	maxAge := int(h.tokens.TTL().Seconds())
	c.SetCookie(h.cookieName, credential, maxAge, "/", "", h.secureCookies, true)
	return true
}

func (h *AuthHandler) setSameSite(c *gin.Context) {
	// Cross-site front ends need SameSite=None, which browsers only accept
	// together with Secure.
	if h.secureCookies {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.InvalidInput(c, "Email is required")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.InvalidInput(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email in use")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthenticated(c, "Invalid credentials")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "")
	default:
		log.Printf("auth handler: %v", err)
		apierrors.Unavailable(c)
	}
}

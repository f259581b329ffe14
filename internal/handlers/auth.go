package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/dto"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/services"
	"go.uber.org/zap"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.SugaredLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// LoginPage describes the login endpoint and echoes the pending next target.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "POST username and password to log in",
		"next":    safeNext(c.Query(constants.NextQueryParam)),
	})
}

// Login authenticates an employee and initializes the session. With a safe
// next target the client is sent there with 303 See Other.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		apierrors.BadRequestWithDetails(c, "Validation failed", missingCredentials(req))
		return
	}

	employee, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyUserID, employee.ID)
	if err := session.Save(); err != nil {
		h.logger.Errorw("failed to save session", "employee_id", employee.ID, "error", err)
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	h.logger.Infow("employee logged in", "employee_id", employee.ID)

	next := req.Next
	if q := c.Query(constants.NextQueryParam); q != "" {
		next = q
	}
	if next = safeNext(next); next != "" {
		c.Redirect(http.StatusSeeOther, next)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentEmployee returns the authenticated employee.
func (h *AuthHandler) GetCurrentEmployee(c *gin.Context) {
	employee, ok := middleware.GetEmployee(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// safeNext returns next when it is a local path, or "" otherwise.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}

func missingCredentials(req services.LoginInput) []services.FieldError {
	var fields []services.FieldError
	if strings.TrimSpace(req.Username) == "" {
		fields = append(fields, services.FieldError{Field: "username", Reason: "this field is required"})
	}
	if req.Password == "" {
		fields = append(fields, services.FieldError{Field: "password", Reason: "this field is required"})
	}
	return fields
}

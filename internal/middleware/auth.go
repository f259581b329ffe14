package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/constants"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/services"
	"go.uber.org/zap"
)

// EmployeeResolver turns a session identity into an employee.
type EmployeeResolver interface {
	GetEmployee(ctx context.Context, id uint64) (*models.Employee, error)
}

// RequireAuth checks that the session belongs to an existing employee.
// Anonymous callers are redirected to loginURL with the original request
// URI in the next query parameter. A session whose employee was deleted is
// cleared first.
func RequireAuth(resolver EmployeeResolver, loginURL string, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := toUint64(session.Get(constants.ContextKeyUserID))
		if !ok {
			redirectToLogin(c, loginURL)
			return
		}

		employee, err := resolver.GetEmployee(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, services.ErrEmployeeNotFound) {
				log.Errorw("failed to resolve session", "user_id", userID, "error", err)
				apierrors.InternalError(c, "")
				return
			}

			session.Clear()
			if err := session.Save(); err != nil {
				log.Warnw("failed to clear stale session", "user_id", userID, "error", err)
			}
			redirectToLogin(c, loginURL)
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, employee.ID)
		c.Set(constants.ContextKeyEmployee, employee)
		c.Next()
	}
}

// LoginRedirectURL appends next to loginURL, keeping any query it already has.
func LoginRedirectURL(loginURL, next string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return constants.DefaultLoginURL + "?" + url.Values{constants.NextQueryParam: {next}}.Encode()
	}

	q := u.Query()
	q.Set(constants.NextQueryParam, next)
	u.RawQuery = q.Encode()
	return u.String()
}

func redirectToLogin(c *gin.Context, loginURL string) {
	c.Redirect(http.StatusFound, LoginRedirectURL(loginURL, c.Request.URL.RequestURI()))
	c.Abort()
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetEmployee retrieves the employee resolved by RequireAuth
func GetEmployee(c *gin.Context) (*models.Employee, bool) {
	v, exists := c.Get(constants.ContextKeyEmployee)
	if !exists {
		return nil, false
	}
	employee, ok := v.(*models.Employee)
	return employee, ok
}

func toUint64(v any) (uint64, bool) {
	switch v := v.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

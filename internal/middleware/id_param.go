package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
)

const contextKeyID = "id"

// RequireIDParam parses the :id path parameter and stores it in the context.
// Non-numeric or zero IDs are rejected with 400.
func RequireIDParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid ID")
			return
		}

		c.Set(contextKeyID, id)
		c.Next()
	}
}

// GetID retrieves the ID parsed by RequireIDParam
func GetID(c *gin.Context) uint64 {
	return c.GetUint64(contextKeyID)
}

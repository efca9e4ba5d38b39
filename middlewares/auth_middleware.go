package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bar-pos/utils"
)

// Context keys set from a valid employee token
const (
	EmployeeIDKey = "employee_id"
	RoleKey       = "role"
)

// EmployeeMiddleware reads an optional bearer token. Requests without one pass through
// anonymously; a present but invalid token is rejected.
func EmployeeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set(EmployeeIDKey, claims.EmployeeID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole only lets through employees carrying one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(RoleKey)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("employee token required"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}
		utils.RespondError(c, http.StatusForbidden, errors.New(strings.Join(roles, " or ")+" access required"))
		c.Abort()
	}
}

// EmployeeID returns the id set by EmployeeMiddleware, if any.
func EmployeeID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(EmployeeIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

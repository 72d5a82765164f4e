package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// userRoleKey holds the role claim of the authenticated user.
const userRoleKey = contextKey("userRole")

// RoleAdmin is the role claim required by the administration routes.
const RoleAdmin = "admin"

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
			return userID, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", false
	}

	return userID, true
}

// GetUserRoleFromContext returns the role claim of the authenticated user, or "".
func GetUserRoleFromContext(c *gin.Context) string {
	if role, ok := c.Request.Context().Value(userRoleKey).(string); ok {
		return role
	}
	return ""
}

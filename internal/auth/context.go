package auth

import "github.com/gin-gonic/gin"

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserRole returns the authenticated user's role or empty string.
func GetUserRole(c *gin.Context) string {
	if v, ok := c.Get("userRole"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IsAdmin reports whether the authenticated user has the admin role.
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == RoleAdmin
}

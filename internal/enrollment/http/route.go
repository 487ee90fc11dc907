package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/enrollment")
	group.Use(authMiddleware)
	{
		group.GET("/courses", h.Courses)
	}

	// Only administrators maintain enrollment records.
	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.PUT("", h.Replace)
		admin.DELETE("/users/:userID", h.Delete)
	}
}

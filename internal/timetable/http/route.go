package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/timetable")
	group.Use(authMiddleware)
	{
		group.GET("", h.Get)
		group.PUT("", h.Rebuild)
		group.POST("/import", h.Import)
	}

	admin := group.Group("/users")
	admin.Use(adminMiddleware)
	{
		admin.GET("/:userID", h.GetUser)
		admin.DELETE("/:userID", h.DeleteUser)
	}
}

package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/registry")
	group.Use(authMiddleware)
	{
		group.GET("", h.Snapshot)
	}

	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.POST("/rebuild", h.Rebuild)
	}
}

package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/facilities")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
	}

	// Only administrators manage the physical facility registry.
	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/reservations")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("/:id/withdraw", h.Withdraw)
	}

	// Accepting or rejecting a request is an office decision.
	staff := group.Group("")
	staff.Use(staffMiddleware)
	{
		staff.PATCH("/:id/status", h.Decide)
	}
}

package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	sched := g.Group("/schedule")
	sched.Use(authMiddleware)
	{
		sched.GET("/week", h.Week)
		sched.GET("/today", h.Today)
		sched.GET("/projectors", h.ProjectorBookings)
		sched.GET("/availability", h.Availability)
		sched.POST("/resync", h.Resync)
	}

	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("/room", h.BookRoom)
		bookings.POST("/lab", h.BookLab)
		bookings.POST("/projector", h.BookProjector)
		bookings.POST("/free", h.Free)
	}

	admin := g.Group("/schedule")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/users/:userID/week", h.UserWeek)
		admin.POST("/users/:userID/free", h.FreeUser)
		admin.POST("/ensure", h.Ensure)
	}
}

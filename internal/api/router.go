package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campuskit/facility-booking-backend/internal/auth"
	"github.com/campuskit/facility-booking-backend/internal/enrollment"
	enrollmentHttp "github.com/campuskit/facility-booking-backend/internal/enrollment/http"
	"github.com/campuskit/facility-booking-backend/internal/facility"
	facilityHttp "github.com/campuskit/facility-booking-backend/internal/facility/http"
	"github.com/campuskit/facility-booking-backend/internal/history"
	historyHttp "github.com/campuskit/facility-booking-backend/internal/history/http"
	"github.com/campuskit/facility-booking-backend/internal/registry"
	registryHttp "github.com/campuskit/facility-booking-backend/internal/registry/http"
	"github.com/campuskit/facility-booking-backend/internal/reservation"
	reservationHttp "github.com/campuskit/facility-booking-backend/internal/reservation/http"
	"github.com/campuskit/facility-booking-backend/internal/schedule"
	scheduleHttp "github.com/campuskit/facility-booking-backend/internal/schedule/http"
	"github.com/campuskit/facility-booking-backend/internal/timetable"
	timetableHttp "github.com/campuskit/facility-booking-backend/internal/timetable/http"
	"github.com/campuskit/facility-booking-backend/internal/user"
	userHttp "github.com/campuskit/facility-booking-backend/internal/user/http"
)

// Config holds everything the router needs to assemble the API surface.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HorizonWeeks int

	UserService        user.Service
	FacilityService    facility.Service
	EnrollmentService  enrollment.Service
	TimetableService   timetable.Service
	ScheduleService    schedule.Service
	RegistryService    registry.Service
	ReservationService reservation.Service
	HistoryService     history.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware (CORS, Logger, Auth) and registers the
// routes of every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Logger writes request lines to the console; Recovery turns panics into
	// 500 responses instead of crashing the server.
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	// Secretaries handle the reservation desk alongside administrators.
	staffMiddleware := auth.RequireRole(auth.RoleAdmin, auth.RoleSecretary)

	userHandler := userHttp.NewHandler(cfg.UserService)
	facilityHandler := facilityHttp.NewHandler(cfg.FacilityService)
	enrollmentHandler := enrollmentHttp.NewHandler(cfg.EnrollmentService)
	timetableHandler := timetableHttp.NewHandler(cfg.TimetableService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService, cfg.HorizonWeeks)
	registryHandler := registryHttp.NewHandler(cfg.RegistryService, cfg.ScheduleService.CurrentWeekStart)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService)
	historyHandler := historyHttp.NewHandler(cfg.HistoryService)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		facilityHttp.RegisterRoutes(v1, facilityHandler, authMiddleware, adminMiddleware)
		enrollmentHttp.RegisterRoutes(v1, enrollmentHandler, authMiddleware, adminMiddleware)
		timetableHttp.RegisterRoutes(v1, timetableHandler, authMiddleware, adminMiddleware)
		scheduleHttp.RegisterRoutes(v1, scheduleHandler, authMiddleware, adminMiddleware)
		registryHttp.RegisterRoutes(v1, registryHandler, authMiddleware, adminMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware, staffMiddleware)
		historyHttp.RegisterRoutes(v1, historyHandler, authMiddleware, adminMiddleware)
	}

	return r
}

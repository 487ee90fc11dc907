package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/facility-booking-backend/internal/api"
	"github.com/campuskit/facility-booking-backend/internal/auth"
	"github.com/campuskit/facility-booking-backend/internal/enrollment"
	"github.com/campuskit/facility-booking-backend/internal/facility"
	"github.com/campuskit/facility-booking-backend/internal/history"
	"github.com/campuskit/facility-booking-backend/internal/notify"
	"github.com/campuskit/facility-booking-backend/internal/reconcile"
	"github.com/campuskit/facility-booking-backend/internal/registry"
	"github.com/campuskit/facility-booking-backend/internal/reservation"
	"github.com/campuskit/facility-booking-backend/internal/schedule"
	"github.com/campuskit/facility-booking-backend/internal/timetable"
	"github.com/campuskit/facility-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction  bool
	ProdOrigins   string
	DBPool        *pgxpool.Pool
	JWTSecret     string
	JWTTTL        time.Duration
	BcryptCost    int
	Location      *time.Location
	HorizonWeeks  int
	ReconcileCron string
	SMTPAddr      string
	SMTPFrom      string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router       *gin.Engine
	JWTManager   *auth.JWTManager
	ReconcileJob *reconcile.Job
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	notifier := notify.FromConfig(cfg.SMTPAddr, cfg.SMTPFrom)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, jwtManager)

	// Facility module
	facilityRepo := facility.NewPgxRepository(cfg.DBPool)
	facilityService := facility.NewService(facilityRepo)

	// Enrollment module (enrolled-course lists for the booking form)
	enrollmentRepo := enrollment.NewPgxRepository(cfg.DBPool)
	enrollmentService := enrollment.NewService(enrollmentRepo)

	// History module (append-only ledger)
	historyRepo := history.NewPgxRepository(cfg.DBPool)
	historyService := history.NewService(historyRepo)

	// Timetable module (weekly templates)
	timetableRepo := timetable.NewPgxRepository(cfg.DBPool)
	timetableService := timetable.NewService(timetableRepo)

	// Schedule module (live weeks + booking engine)
	scheduleRepo := schedule.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(scheduleRepo, timetableService, facilityService,
		userService, historyService, notifier, cfg.Location, time.Now)

	// Registry module (denormalized availability cache)
	registryRepo := registry.NewPgxRepository(cfg.DBPool)
	registryService := registry.NewService(registryRepo, facilityService, scheduleRepo)

	// Reservation module (interval requests for halls and auditoriums)
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	reservationService := reservation.NewService(reservationRepo, facilityService, userService, notifier)

	// Weekly reconciliation job
	job := reconcile.NewJob(scheduleService, registryService, cfg.HorizonWeeks, cfg.ReconcileCron, cfg.Location)

	router := api.NewRouter(api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		HorizonWeeks: cfg.HorizonWeeks,

		UserService:        userService,
		FacilityService:    facilityService,
		EnrollmentService:  enrollmentService,
		TimetableService:   timetableService,
		ScheduleService:    scheduleService,
		RegistryService:    registryService,
		ReservationService: reservationService,
		HistoryService:     historyService,

		JWTManager: jwtManager,
	})

	return &Container{
		Router:       router,
		JWTManager:   jwtManager,
		ReconcileJob: job,
	}
}

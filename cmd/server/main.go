package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/app"
	"github.com/campuskit/facility-booking-backend/internal/config"
	"github.com/campuskit/facility-booking-backend/internal/db"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	// Assemble modules
	container := app.NewContainer(app.Config{
		IsProduction:  cfg.IsProduction,
		ProdOrigins:   cfg.ProdOrigins,
		DBPool:        pool,
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        cfg.JWTAccessTokenTTL,
		BcryptCost:    cfg.BcryptCost,
		Location:      cfg.Timezone,
		HorizonWeeks:  cfg.HorizonWeeks,
		ReconcileCron: cfg.ReconcileCron,
		SMTPAddr:      cfg.SMTPAddr,
		SMTPFrom:      cfg.SMTPFrom,
	})

	// Weekly reconciliation: instantiate schedules and rebuild the registry.
	if err := container.ReconcileJob.Start(); err != nil {
		log.Fatalf("failed to start reconcile job: %v", err)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	container.ReconcileJob.Stop()

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "busreservation/internal/config"
	"busreservation/internal/db"
	router "busreservation/internal/http"
	"busreservation/internal/repositories"
	"busreservation/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	stores, err := openStores(env)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	defer intconfig.CloseDB()

	reg := services.NewRegistry(stores, []byte(env.JWTSecret), env.JWTTTL, nil)
	r := router.NewRouter(env, router.HandlerFor(reg), reg.Auth)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s (storage=%s)", env.AppAddr, env.Storage)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}

func openStores(env intconfig.Env) (services.Stores, error) {
	if env.Storage == intconfig.StorageMemory {
		m := repositories.NewMemoryStore()
		log.Println("using in-memory storage; data is lost on restart")
		return services.Stores{Routes: m, Buses: m, Schedules: m, Seats: m, Reservations: m, Users: m}, nil
	}

	conn, err := intconfig.ConnectDB(env.DB)
	if err != nil {
		return services.Stores{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx, conn); err != nil {
		return services.Stores{}, err
	}
	return services.Stores{
		Routes:       repositories.RouteRepo{DB: conn},
		Buses:        repositories.BusRepo{DB: conn},
		Schedules:    repositories.ScheduleRepo{DB: conn},
		Seats:        repositories.SeatLedgerRepo{DB: conn},
		Reservations: repositories.ReservationRepo{DB: conn},
		Users:        repositories.UserRepo{DB: conn},
	}, nil
}

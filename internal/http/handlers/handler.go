package handlers

import (
	"context"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/services"
)

type AuthAPI interface {
	Register(ctx context.Context, in services.RegisterInput) (models.User, error)
	Login(ctx context.Context, email, password string) (string, models.User, error)
	Profile(ctx context.Context, userID int64) (models.User, error)
}

type CatalogAPI interface {
	CreateRoute(ctx context.Context, in services.RouteInput) (models.Route, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
	CreateBus(ctx context.Context, in services.BusInput) (models.Bus, error)
	ListBuses(ctx context.Context) ([]models.Bus, error)
}

type ScheduleAPI interface {
	Create(ctx context.Context, caller domain.Principal, in services.ScheduleInput) (models.Schedule, error)
	UpdateLegs(ctx context.Context, caller domain.Principal, token string, raw []byte) (models.Schedule, error)
	Delete(ctx context.Context, caller domain.Principal, token string) error
	ListForOperator(ctx context.Context, caller domain.Principal) ([]models.Schedule, error)
}

type SeatAPI interface {
	Layout(ctx context.Context, scheduleID string) (models.Schedule, []models.SeatView, error)
	ApplyOperatorUpdate(ctx context.Context, caller domain.Principal, scheduleID string, in []services.SeatUpdateInput) ([]models.SeatView, error)
	OperatorSeats(ctx context.Context, caller domain.Principal, scheduleID string) ([]models.SeatView, error)
}

type ReservationAPI interface {
	Reserve(ctx context.Context, caller domain.Principal, scheduleID string, in services.ReservationInput) (models.Reservation, error)
	ListForUser(ctx context.Context, caller domain.Principal) ([]models.Reservation, error)
}

type SearchAPI interface {
	Search(ctx context.Context, departurePoint, arrivalPoint, date string) (services.SearchResult, error)
}

type TicketAPI interface {
	ETicket(ctx context.Context, caller domain.Principal, reservationID string) ([]byte, string, error)
}

// Handler serves the HTTP API on top of the services.
type Handler struct {
	Auth         AuthAPI
	Catalog      CatalogAPI
	Schedules    ScheduleAPI
	Seats        SeatAPI
	Reservations ReservationAPI
	Search       SearchAPI
	Tickets      TicketAPI
}

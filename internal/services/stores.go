package services

import (
	"context"
	"time"

	"busreservation/internal/domain/models"
)

type RouteStore interface {
	CreateRoute(ctx context.Context, r models.Route) error
	ListRoutes(ctx context.Context) ([]models.Route, error)
	GetRoute(ctx context.Context, routeNumber string) (models.Route, error)
}

type BusStore interface {
	CreateBus(ctx context.Context, b models.Bus) error
	ListBuses(ctx context.Context) ([]models.Bus, error)
	GetBus(ctx context.Context, registrationNumber string) (models.Bus, error)
}

type ScheduleStore interface {
	CreateSchedule(ctx context.Context, s models.Schedule) error
	GetSchedule(ctx context.Context, token string) (models.Schedule, error)
	UpdateScheduleLegs(ctx context.Context, token string, legs []models.Leg, updatedAt time.Time) error
	DeleteSchedule(ctx context.Context, token string) error
	ListSchedulesByOperator(ctx context.Context, operatorName string) ([]models.Schedule, error)
	// ListActiveSchedulesOn returns active schedules whose validity window contains day.
	ListActiveSchedulesOn(ctx context.Context, day time.Time) ([]models.Schedule, error)
}

// SeatLedgerStore persists seat events. ApplyOperatorSeatUpdates is
// last-writer-wins per seat on the operator source.
type SeatLedgerStore interface {
	ListSeatUpdates(ctx context.Context, scheduleID string) ([]models.SeatUpdate, error)
	ListSeatUpdatesFor(ctx context.Context, scheduleIDs []string) (map[string][]models.SeatUpdate, error)
	ApplyOperatorSeatUpdates(ctx context.Context, scheduleID, operatorName string, updates []models.SeatUpdate) error
}

// ReservationStore.CreateReservation re-checks seat availability, appends the
// Reserved seat events and writes the reservation as one atomic unit. Unavailable
// seats come back as a domain.ConflictError carrying every conflicting seat.
type ReservationStore interface {
	CreateReservation(ctx context.Context, r models.Reservation) error
	ListReservationsByUsername(ctx context.Context, username string) ([]models.Reservation, error)
	GetReservation(ctx context.Context, reservationID string) (models.Reservation, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// Stores bundles the storage dependencies of the services.
type Stores struct {
	Routes       RouteStore
	Buses        BusStore
	Schedules    ScheduleStore
	Seats        SeatLedgerStore
	Reservations ReservationStore
	Users        UserStore
}

package services

import "time"

// Registry bundles the services built over one set of stores.
type Registry struct {
	Auth         AuthService
	Catalog      CatalogService
	Schedules    ScheduleService
	Seats        SeatService
	Reservations ReservationService
	Search       SearchService
	Docs         DocsService
}

// NewRegistry wires every service to st. now may be nil for the wall clock.
func NewRegistry(st Stores, secret []byte, ttl time.Duration, now func() time.Time) Registry {
	reservations := ReservationService{Schedules: st.Schedules, Seats: st.Seats, Reservations: st.Reservations, Now: now}
	return Registry{
		Auth:         AuthService{Users: st.Users, Secret: secret, TTL: ttl, Now: now},
		Catalog:      CatalogService{Routes: st.Routes, Buses: st.Buses, Now: now},
		Schedules:    ScheduleService{Routes: st.Routes, Buses: st.Buses, Schedules: st.Schedules, Now: now},
		Seats:        SeatService{Schedules: st.Schedules, Seats: st.Seats, Now: now},
		Reservations: reservations,
		Search:       SearchService{Schedules: st.Schedules, Seats: st.Seats},
		Docs:         DocsService{Reservations: reservations, Schedules: st.Schedules, Now: now},
	}
}

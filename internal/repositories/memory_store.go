package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
)

// MemoryStore is a single-process store for development and tests. One mutex
// guards every collection, which gives each write the same all-or-nothing
// behavior the MySQL transactions provide.
type MemoryStore struct {
	mu           sync.Mutex
	routes       map[string]models.Route
	buses        map[string]models.Bus
	schedules    map[string]models.Schedule
	ledger       map[string][]models.SeatUpdate
	reservations map[string]models.Reservation
	resOrder     []string
	users        map[int64]models.User
	nextUserID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		routes:       map[string]models.Route{},
		buses:        map[string]models.Bus{},
		schedules:    map[string]models.Schedule{},
		ledger:       map[string][]models.SeatUpdate{},
		reservations: map[string]models.Reservation{},
		users:        map[int64]models.User{},
	}
}

func (m *MemoryStore) CreateRoute(_ context.Context, r models.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[r.RouteNumber]; ok {
		return domain.ConflictError{Resource: "route", Msg: "already exists"}
	}
	m.routes[r.RouteNumber] = r
	return nil
}

func (m *MemoryStore) ListRoutes(context.Context) ([]models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Route, 0, len(m.routes))
	for _, r := range m.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RouteNumber < out[j].RouteNumber })
	return out, nil
}

func (m *MemoryStore) GetRoute(_ context.Context, routeNumber string) (models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.routes[routeNumber]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	return r, nil
}

func (m *MemoryStore) CreateBus(_ context.Context, b models.Bus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buses[b.RegistrationNumber]; ok {
		return domain.ConflictError{Resource: "bus", Msg: "already exists"}
	}
	for _, existing := range m.buses {
		if existing.BusNumber == b.BusNumber {
			return domain.ConflictError{Resource: "bus", Msg: "already exists"}
		}
	}
	m.buses[b.RegistrationNumber] = b
	return nil
}

func (m *MemoryStore) ListBuses(context.Context) ([]models.Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Bus, 0, len(m.buses))
	for _, b := range m.buses {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationNumber < out[j].RegistrationNumber })
	return out, nil
}

func (m *MemoryStore) GetBus(_ context.Context, registrationNumber string) (models.Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buses[registrationNumber]
	if !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "bus"}
	}
	return b, nil
}

func (m *MemoryStore) CreateSchedule(_ context.Context, s models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[s.ScheduleToken]; ok {
		return domain.ConflictError{Resource: "schedule", Msg: "already exists"}
	}
	m.schedules[s.ScheduleToken] = cloneSchedule(s)
	return nil
}

func (m *MemoryStore) GetSchedule(_ context.Context, token string) (models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[token]
	if !ok {
		return models.Schedule{}, domain.NotFoundError{Resource: "schedule"}
	}
	return cloneSchedule(s), nil
}

func (m *MemoryStore) UpdateScheduleLegs(_ context.Context, token string, legs []models.Leg, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[token]
	if !ok {
		return domain.NotFoundError{Resource: "schedule"}
	}
	s.Legs = cloneLegs(legs)
	s.UpdatedAt = updatedAt
	m.schedules[token] = s
	return nil
}

func (m *MemoryStore) DeleteSchedule(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[token]; !ok {
		return domain.NotFoundError{Resource: "schedule"}
	}
	delete(m.schedules, token)
	return nil
}

func (m *MemoryStore) ListSchedulesByOperator(_ context.Context, operatorName string) ([]models.Schedule, error) {
	return m.filterSchedules(func(s models.Schedule) bool { return s.Bus.OperatorName == operatorName }), nil
}

func (m *MemoryStore) ListActiveSchedulesOn(_ context.Context, day time.Time) ([]models.Schedule, error) {
	d := day.Format(dateLayout)
	return m.filterSchedules(func(s models.Schedule) bool {
		return s.IsActive &&
			s.Valid.StartDate.Format(dateLayout) <= d &&
			s.Valid.EndDate.Format(dateLayout) >= d
	}), nil
}

func (m *MemoryStore) filterSchedules(keep func(models.Schedule) bool) []models.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Schedule{}
	for _, s := range m.schedules {
		if keep(s) {
			out = append(out, cloneSchedule(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduleToken < out[j].ScheduleToken })
	return out
}

func (m *MemoryStore) ListSeatUpdates(_ context.Context, scheduleID string) ([]models.SeatUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SeatUpdate(nil), m.ledger[scheduleID]...), nil
}

func (m *MemoryStore) ListSeatUpdatesFor(_ context.Context, scheduleIDs []string) (map[string][]models.SeatUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]models.SeatUpdate, len(scheduleIDs))
	for _, id := range scheduleIDs {
		if events := m.ledger[id]; len(events) > 0 {
			out[id] = append([]models.SeatUpdate(nil), events...)
		}
	}
	return out, nil
}

func (m *MemoryStore) ApplyOperatorSeatUpdates(_ context.Context, scheduleID, operatorName string, updates []models.SeatUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[scheduleID]; !ok {
		return domain.NotFoundError{Resource: "schedule"}
	}
	events := m.ledger[scheduleID]
	for _, u := range updates {
		u.Source = models.SourceOperator
		u.OperatorName = operatorName
		u.ReservationID = ""
		if u.UpdatedAt.IsZero() {
			u.UpdatedAt = time.Now().UTC()
		}
		replaced := false
		for i := range events {
			if events[i].Source == models.SourceOperator && events[i].SeatNumber == u.SeatNumber {
				events[i] = u
				replaced = true
				break
			}
		}
		if !replaced {
			events = append(events, u)
		}
	}
	m.ledger[scheduleID] = events
	return nil
}

func (m *MemoryStore) CreateReservation(_ context.Context, res models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[res.ScheduleID]; !ok {
		return domain.NotFoundError{Resource: "schedule"}
	}
	merged := domain.MergeSeatUpdates(m.ledger[res.ScheduleID])
	if taken := domain.UnavailableSeats(res.SeatNumbers(), merged); len(taken) > 0 {
		return domain.ConflictError{Resource: "seat", Msg: "seats are not available", Seats: taken}
	}
	if _, ok := m.reservations[res.ReservationID]; ok {
		return domain.ConflictError{Resource: "reservation", Msg: "reservation id already exists"}
	}

	at := res.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
		res.CreatedAt = at
	}
	events := m.ledger[res.ScheduleID]
	for _, seat := range res.Seats {
		events = append(events, models.SeatUpdate{
			SeatNumber:    seat.SeatNumber,
			Status:        models.SeatReserved,
			Gender:        res.Gender,
			Source:        models.SourceReservation,
			ReservationID: res.ReservationID,
			UpdatedAt:     at,
		})
	}
	m.ledger[res.ScheduleID] = events
	res.Seats = append([]models.ReservedSeat(nil), res.Seats...)
	m.reservations[res.ReservationID] = res
	m.resOrder = append(m.resOrder, res.ReservationID)
	return nil
}

func (m *MemoryStore) ListReservationsByUsername(_ context.Context, username string) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Reservation{}
	for i := len(m.resOrder) - 1; i >= 0; i-- {
		if r := m.reservations[m.resOrder[i]]; r.Username == username {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) GetReservation(_ context.Context, reservationID string) (models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[reservationID]
	if !ok {
		return models.Reservation{}, domain.NotFoundError{Resource: "reservation"}
	}
	return r, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return u, domain.ConflictError{Resource: "user", Msg: "already exists"}
		}
	}
	m.nextUserID++
	u.ID = m.nextUserID
	m.users[u.ID] = u
	return u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (m *MemoryStore) GetUserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func cloneSchedule(s models.Schedule) models.Schedule {
	s.Legs = cloneLegs(s.Legs)
	return s
}

func cloneLegs(legs []models.Leg) []models.Leg {
	if legs == nil {
		return nil
	}
	out := make([]models.Leg, len(legs))
	for i, l := range legs {
		l.Stops = append([]string(nil), l.Stops...)
		out[i] = l
	}
	return out
}

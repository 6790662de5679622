package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/utils"
)

// ScheduleService publishes and maintains operator schedules.
type ScheduleService struct {
	Routes    RouteStore
	Buses     BusStore
	Schedules ScheduleStore
	Now       func() time.Time
}

type ScheduleInput struct {
	// ScheduleToken is kept when supplied, otherwise derived.
	ScheduleToken      string
	RouteNumber        string
	RouteName          string
	RegistrationNumber string
	Legs               []models.Leg
	StartDate          time.Time
	EndDate            time.Time
	IsActive           *bool
}

// Create validates the referenced route and bus, snapshots them and stores the
// schedule under its token. Nothing is written when a check fails.
func (s ScheduleService) Create(ctx context.Context, caller domain.Principal, in ScheduleInput) (models.Schedule, error) {
	operator := strings.TrimSpace(caller.Name)
	if operator == "" {
		return models.Schedule{}, domain.AuthenticationError{Msg: "operator information is missing"}
	}

	legs, err := normalizeLegs(in.Legs)
	if err != nil {
		return models.Schedule{}, err
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return models.Schedule{}, domain.ValidationError{Field: "scheduleValid", Msg: "startDate and endDate are required"}
	}
	start, end := utils.DateOnly(in.StartDate.UTC()), utils.DateOnly(in.EndDate.UTC())
	if end.Before(start) {
		return models.Schedule{}, domain.ValidationError{Field: "scheduleValid", Msg: "endDate must not be before startDate"}
	}
	routeNumber := strings.TrimSpace(in.RouteNumber)
	registration := strings.TrimSpace(in.RegistrationNumber)
	if routeNumber == "" {
		return models.Schedule{}, domain.ValidationError{Field: "route.routeNumber", Msg: "is required"}
	}
	if registration == "" {
		return models.Schedule{}, domain.ValidationError{Field: "bus.registrationNumber", Msg: "is required"}
	}

	route, err := s.Routes.GetRoute(ctx, routeNumber)
	if err != nil && !domain.IsNotFound(err) {
		return models.Schedule{}, err
	}
	if err != nil || !route.IsActive {
		return models.Schedule{}, domain.ValidationError{Field: "route", Msg: "Selected route is not available or inactive"}
	}

	bus, err := s.Buses.GetBus(ctx, registration)
	if err != nil && !domain.IsNotFound(err) {
		return models.Schedule{}, err
	}
	if err != nil || !bus.IsAvailable || bus.OperatorName != operator {
		return models.Schedule{}, domain.ValidationError{Field: "bus", Msg: "Selected bus is not available or inactive"}
	}

	routeName := utils.NormalizeSpace(in.RouteName)
	if routeName == "" {
		routeName = route.StartingPoint + "-" + route.EndingPoint
	}
	token := strings.TrimSpace(in.ScheduleToken)
	if token == "" {
		token = domain.ScheduleToken(route.RouteNumber, bus.RegistrationNumber, legs[0].DepartureTime, routeName)
	}

	now := clock(s.Now).now()
	sched := models.Schedule{
		ScheduleToken: token,
		Route:         models.RouteSnapshot{RouteNumber: route.RouteNumber, RouteName: routeName},
		Bus: models.BusSnapshot{
			RegistrationNumber: bus.RegistrationNumber,
			BusNumber:          bus.BusNumber,
			OperatorName:       bus.OperatorName,
			BusType:            bus.BusType,
			TicketPrice:        bus.TicketPrice,
			Capacity:           bus.Capacity,
			AvailableSeats:     bus.Capacity,
		},
		Legs:      legs,
		Valid:     models.Validity{StartDate: start, EndDate: end},
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Schedules.CreateSchedule(ctx, sched); err != nil {
		if domain.IsConflict(err) {
			return models.Schedule{}, domain.ConflictError{Resource: "schedule", Msg: "schedule token already exists", Err: err}
		}
		return models.Schedule{}, err
	}
	utils.LogEventCtx(ctx, "schedule", "create", "schedule_token="+token)
	return sched, nil
}

// UpdateLegs replaces the leg list of an operator-owned schedule. raw must
// carry a non-empty "schedule" array and nothing else.
func (s ScheduleService) UpdateLegs(ctx context.Context, caller domain.Principal, token string, raw []byte) (models.Schedule, error) {
	sched, err := s.owned(ctx, caller, token)
	if err != nil {
		return models.Schedule{}, err
	}
	legs, err := parseLegsPatch(raw)
	if err != nil {
		return models.Schedule{}, err
	}
	now := clock(s.Now).now()
	if err := s.Schedules.UpdateScheduleLegs(ctx, sched.ScheduleToken, legs, now); err != nil {
		return models.Schedule{}, err
	}
	sched.Legs = legs
	sched.UpdatedAt = now
	utils.LogEventCtx(ctx, "schedule", "update_legs", fmt.Sprintf("schedule_token=%s legs=%d", sched.ScheduleToken, len(legs)))
	return sched, nil
}

func (s ScheduleService) Delete(ctx context.Context, caller domain.Principal, token string) error {
	sched, err := s.owned(ctx, caller, token)
	if err != nil {
		return err
	}
	if err := s.Schedules.DeleteSchedule(ctx, sched.ScheduleToken); err != nil {
		return err
	}
	utils.LogEventCtx(ctx, "schedule", "delete", "schedule_token="+sched.ScheduleToken)
	return nil
}

func (s ScheduleService) ListForOperator(ctx context.Context, caller domain.Principal) ([]models.Schedule, error) {
	if strings.TrimSpace(caller.Name) == "" {
		return nil, domain.AuthenticationError{Msg: "operator information is missing"}
	}
	return s.Schedules.ListSchedulesByOperator(ctx, caller.Name)
}

func (s ScheduleService) owned(ctx context.Context, caller domain.Principal, token string) (models.Schedule, error) {
	return loadOwnedSchedule(ctx, s.Schedules, caller, token)
}

// loadOwnedSchedule loads token and checks the caller operates its bus.
// Missing caller name is 401, unknown schedule 404, foreign schedule 403.
func loadOwnedSchedule(ctx context.Context, store ScheduleStore, caller domain.Principal, token string) (models.Schedule, error) {
	if strings.TrimSpace(caller.Name) == "" {
		return models.Schedule{}, domain.AuthenticationError{Msg: "operator information is missing"}
	}
	sched, err := store.GetSchedule(ctx, strings.TrimSpace(token))
	if err != nil {
		return models.Schedule{}, err
	}
	if sched.Bus.OperatorName != caller.Name {
		return models.Schedule{}, domain.AuthorizationError{Msg: "you do not have permission to modify this schedule"}
	}
	return sched, nil
}

func parseLegsPatch(raw []byte) ([]models.Leg, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, domain.ValidationError{Field: "body", Msg: "invalid JSON payload", Err: err}
	}
	legsRaw, ok := body["schedule"]
	if !ok || bytes.Equal(bytes.TrimSpace(legsRaw), []byte("null")) {
		return nil, domain.ValidationError{Field: "schedule", Msg: "Only the schedule section can be updated"}
	}
	extra := make([]string, 0, len(body))
	for k := range body {
		if k != "schedule" {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, domain.ValidationError{Field: strings.Join(extra, ","), Msg: "Only the schedule section can be updated"}
	}
	var legs []models.Leg
	if err := json.Unmarshal(legsRaw, &legs); err != nil {
		return nil, domain.ValidationError{Field: "schedule", Msg: "Invalid schedule data provided", Err: err}
	}
	return normalizeLegs(legs)
}

func normalizeLegs(in []models.Leg) ([]models.Leg, error) {
	if len(in) == 0 {
		return nil, domain.ValidationError{Field: "schedule", Msg: "Invalid schedule data provided"}
	}
	out := make([]models.Leg, 0, len(in))
	for i, l := range in {
		l.DeparturePoint = utils.NormalizeSpace(l.DeparturePoint)
		l.ArrivalPoint = utils.NormalizeSpace(l.ArrivalPoint)
		l.Stops = utils.TrimAll(l.Stops)
		field := fmt.Sprintf("schedule[%d]", i)
		switch {
		case l.DeparturePoint == "" || l.ArrivalPoint == "":
			return nil, domain.ValidationError{Field: field, Msg: "departurePoint and arrivalPoint are required"}
		case l.DepartureTime.IsZero() || l.ArrivalTime.IsZero():
			return nil, domain.ValidationError{Field: field, Msg: "departureTime and arrivalTime are required"}
		case l.ArrivalTime.Before(l.DepartureTime):
			return nil, domain.ValidationError{Field: field, Msg: "arrivalTime must not be before departureTime"}
		}
		out = append(out, l)
	}
	return out, nil
}

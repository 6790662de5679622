package services

import (
	"context"
	"strings"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/utils"
)

// CatalogService manages the admin-owned routes and buses.
type CatalogService struct {
	Routes RouteStore
	Buses  BusStore
	Now    func() time.Time
}

type RouteInput struct {
	RouteNumber   string
	StartingPoint string
	EndingPoint   string
	Distance      string
	IsActive      *bool
}

type BusInput struct {
	RegistrationNumber string
	BusNumber          string
	DriverName         string
	ConductorName      string
	OperatorName       string
	BusType            string
	Capacity           int
	TicketPrice        int64
	RouteNumber        string
	IsAvailable        *bool
}

func (s CatalogService) CreateRoute(ctx context.Context, in RouteInput) (models.Route, error) {
	rt := models.Route{
		RouteNumber:   strings.TrimSpace(in.RouteNumber),
		StartingPoint: utils.NormalizeSpace(in.StartingPoint),
		EndingPoint:   utils.NormalizeSpace(in.EndingPoint),
		Distance:      strings.TrimSpace(in.Distance),
		IsActive:      in.IsActive == nil || *in.IsActive,
	}
	switch {
	case rt.RouteNumber == "":
		return models.Route{}, domain.ValidationError{Field: "routeNumber", Msg: "is required"}
	case strings.Contains(rt.RouteNumber, "-"):
		return models.Route{}, domain.ValidationError{Field: "routeNumber", Msg: "must not contain '-'"}
	case rt.StartingPoint == "" || rt.EndingPoint == "":
		return models.Route{}, domain.ValidationError{Field: "route", Msg: "startingPoint and endingPoint are required"}
	}
	rt.CreatedAt = clock(s.Now).now()
	rt.UpdatedAt = rt.CreatedAt

	if err := s.Routes.CreateRoute(ctx, rt); err != nil {
		return models.Route{}, err
	}
	utils.LogEventCtx(ctx, "catalog", "create_route", "route_number="+rt.RouteNumber)
	return rt, nil
}

func (s CatalogService) ListRoutes(ctx context.Context) ([]models.Route, error) {
	return s.Routes.ListRoutes(ctx)
}

// CreateBus requires an existing route and a unique registration number.
func (s CatalogService) CreateBus(ctx context.Context, in BusInput) (models.Bus, error) {
	now := clock(s.Now).now()
	b := models.Bus{
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		BusNumber:          strings.TrimSpace(in.BusNumber),
		DriverName:         utils.NormalizeSpace(in.DriverName),
		ConductorName:      utils.NormalizeSpace(in.ConductorName),
		OperatorName:       utils.NormalizeSpace(in.OperatorName),
		BusType:            strings.TrimSpace(in.BusType),
		Capacity:           in.Capacity,
		TicketPrice:        in.TicketPrice,
		RouteNumber:        strings.TrimSpace(in.RouteNumber),
		IsAvailable:        in.IsAvailable == nil || *in.IsAvailable,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	switch {
	case b.RegistrationNumber == "":
		return models.Bus{}, domain.ValidationError{Field: "registrationNumber", Msg: "is required"}
	case b.BusNumber == "":
		return models.Bus{}, domain.ValidationError{Field: "busNumber", Msg: "is required"}
	case b.OperatorName == "":
		return models.Bus{}, domain.ValidationError{Field: "operatorName", Msg: "is required"}
	case b.BusType == "":
		return models.Bus{}, domain.ValidationError{Field: "busType", Msg: "is required"}
	case b.Capacity <= 0:
		return models.Bus{}, domain.ValidationError{Field: "capacity", Msg: "must be positive"}
	case b.TicketPrice < 0:
		return models.Bus{}, domain.ValidationError{Field: "ticketPrice", Msg: "must not be negative"}
	case b.RouteNumber == "":
		return models.Bus{}, domain.ValidationError{Field: "routeNumber", Msg: "is required"}
	}

	if _, err := s.Routes.GetRoute(ctx, b.RouteNumber); err != nil {
		if domain.IsNotFound(err) {
			return models.Bus{}, domain.ValidationError{Field: "routeNumber", Msg: "Invalid route number"}
		}
		return models.Bus{}, err
	}

	b.BusID = domain.BusID(now, b.RegistrationNumber)
	if err := s.Buses.CreateBus(ctx, b); err != nil {
		if domain.IsConflict(err) {
			return models.Bus{}, domain.ConflictError{Resource: "bus", Msg: "a bus with this registration or bus number already exists", Err: err}
		}
		return models.Bus{}, err
	}
	utils.LogEventCtx(ctx, "catalog", "create_bus", "registration_number="+b.RegistrationNumber+" bus_id="+b.BusID)
	return b, nil
}

func (s CatalogService) ListBuses(ctx context.Context) ([]models.Bus, error) {
	return s.Buses.ListBuses(ctx)
}

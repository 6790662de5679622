package services

import (
	"context"
	"testing"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/repositories"

	"github.com/stretchr/testify/require"
)

const testToken = "05NB-123420241231-Colombo-Kurunegala"

var (
	testNow  = time.Date(2024, 12, 31, 6, 0, 0, 0, time.UTC)
	operator = domain.Principal{ID: 2, Name: "NB Express", Role: domain.RoleOperator}
	commuter = domain.Principal{ID: 3, Name: "nimal", Role: domain.RoleCommuter}
)

type fixture struct {
	store        *repositories.MemoryStore
	catalog      CatalogService
	schedules    ScheduleService
	seats        SeatService
	reservations ReservationService
	search       SearchService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	m := repositories.NewMemoryStore()
	now := func() time.Time { return testNow }
	f := fixture{
		store:        m,
		catalog:      CatalogService{Routes: m, Buses: m, Now: now},
		schedules:    ScheduleService{Routes: m, Buses: m, Schedules: m, Now: now},
		seats:        SeatService{Schedules: m, Seats: m, Now: now},
		reservations: ReservationService{Schedules: m, Seats: m, Reservations: m, Now: now},
		search:       SearchService{Schedules: m, Seats: m},
	}

	ctx := context.Background()
	_, err := f.catalog.CreateRoute(ctx, RouteInput{RouteNumber: "05", StartingPoint: "Colombo", EndingPoint: "Kurunegala", Distance: "94km"})
	require.NoError(t, err)
	_, err = f.catalog.CreateBus(ctx, BusInput{
		RegistrationNumber: "NB-1234",
		BusNumber:          "B-77",
		DriverName:         "Sunil",
		OperatorName:       operator.Name,
		BusType:            "AC",
		Capacity:           45,
		TicketPrice:        1500,
		RouteNumber:        "05",
	})
	require.NoError(t, err)
	return f
}

func colomboLeg(day time.Time) models.Leg {
	return models.Leg{
		DeparturePoint: "Colombo",
		DepartureTime:  day.Add(6 * time.Hour),
		ArrivalPoint:   "Kurunegala",
		ArrivalTime:    day.Add(8*time.Hour + 30*time.Minute),
		Stops:          []string{"Kadawatha", "Warakapola"},
	}
}

func (f fixture) publish(t *testing.T) models.Schedule {
	t.Helper()
	day := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	sched, err := f.schedules.Create(context.Background(), operator, ScheduleInput{
		RouteNumber:        "05",
		RouteName:          "Colombo-Kurunegala",
		RegistrationNumber: "NB-1234",
		Legs:               []models.Leg{colomboLeg(day)},
		StartDate:          time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return sched
}

func passenger(seats ...int) ReservationInput {
	return ReservationInput{
		PassengerName:    "Nimal Perera",
		Gender:           "male",
		MobileNumber:     "0771234567",
		Email:            "nimal@example.com",
		BoardingPlace:    "Colombo",
		DestinationPlace: "Kurunegala",
		SeatNumbers:      seats,
	}
}

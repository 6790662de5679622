package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/utils"
)

// ReservationService is the commuter booking path. The commit itself runs in
// ReservationStore.CreateReservation; the ledger read here only fails fast.
type ReservationService struct {
	Schedules    ScheduleStore
	Seats        SeatLedgerStore
	Reservations ReservationStore
	Now          func() time.Time
}

type ReservationInput struct {
	PassengerName    string
	Gender           string
	MobileNumber     string
	Email            string
	BoardingPlace    string
	DestinationPlace string
	SeatNumbers      []int
}

// Reserve holds every requested seat or none. Seats already taken come back
// as a ConflictError listing all of them.
func (s ReservationService) Reserve(ctx context.Context, caller domain.Principal, scheduleID string, in ReservationInput) (models.Reservation, error) {
	username := strings.TrimSpace(caller.Name)
	if username == "" {
		return models.Reservation{}, domain.AuthenticationError{Msg: "commuter information is missing"}
	}
	scheduleID = strings.TrimSpace(scheduleID)
	if scheduleID == "" {
		return models.Reservation{}, domain.ValidationError{Field: "scheduleId", Msg: "is required"}
	}
	in, err := normalizeReservationInput(in)
	if err != nil {
		return models.Reservation{}, err
	}

	sched, err := s.Schedules.GetSchedule(ctx, scheduleID)
	if err != nil {
		return models.Reservation{}, err
	}
	if err := checkSeatNumbers(in.SeatNumbers, sched.Bus.Capacity); err != nil {
		return models.Reservation{}, err
	}

	events, err := s.Seats.ListSeatUpdates(ctx, sched.ScheduleToken)
	if err != nil {
		return models.Reservation{}, err
	}
	if taken := domain.UnavailableSeats(in.SeatNumbers, domain.MergeSeatUpdates(events)); len(taken) > 0 {
		return models.Reservation{}, domain.ConflictError{Resource: "seat", Msg: "Some seats are already reserved", Seats: taken}
	}

	now := clock(s.Now).now()
	key := domain.NewReservationKey(now, sched.Route.RouteNumber, sched.Bus.RegistrationNumber, in.SeatNumbers)
	res := models.Reservation{
		ReservationID:    key.String(),
		Username:         username,
		PassengerName:    in.PassengerName,
		Gender:           in.Gender,
		MobileNumber:     in.MobileNumber,
		Email:            in.Email,
		BoardingPlace:    in.BoardingPlace,
		DestinationPlace: in.DestinationPlace,
		ScheduleID:       sched.ScheduleToken,
		TicketAmount:     utils.TicketAmount(sched.Bus.TicketPrice, len(in.SeatNumbers)),
		CreatedAt:        now,
	}
	for _, n := range in.SeatNumbers {
		res.Seats = append(res.Seats, models.ReservedSeat{SeatNumber: n, Status: models.SeatReserved})
	}

	if err := s.Reservations.CreateReservation(ctx, res); err != nil {
		if seats := domain.ConflictSeats(err); len(seats) > 0 {
			utils.LogEventCtx(ctx, "reservation", "conflict", fmt.Sprintf("schedule_id=%s seats=%v", sched.ScheduleToken, seats))
		}
		return models.Reservation{}, err
	}
	utils.LogEventCtx(ctx, "reservation", "reserve", fmt.Sprintf("reservation_id=%s seats=%d", res.ReservationID, len(res.Seats)))
	return res, nil
}

func (s ReservationService) ListForUser(ctx context.Context, caller domain.Principal) ([]models.Reservation, error) {
	if strings.TrimSpace(caller.Name) == "" {
		return nil, domain.AuthenticationError{Msg: "commuter information is missing"}
	}
	return s.Reservations.ListReservationsByUsername(ctx, caller.Name)
}

// Get returns a reservation owned by caller.
func (s ReservationService) Get(ctx context.Context, caller domain.Principal, reservationID string) (models.Reservation, error) {
	if strings.TrimSpace(caller.Name) == "" {
		return models.Reservation{}, domain.AuthenticationError{Msg: "commuter information is missing"}
	}
	if _, err := domain.ParseReservationKey(reservationID); err != nil {
		return models.Reservation{}, err
	}
	res, err := s.Reservations.GetReservation(ctx, strings.TrimSpace(reservationID))
	if err != nil {
		return models.Reservation{}, err
	}
	if res.Username != caller.Name {
		return models.Reservation{}, domain.AuthorizationError{Msg: "reservation belongs to another user"}
	}
	return res, nil
}

func normalizeReservationInput(in ReservationInput) (ReservationInput, error) {
	in.PassengerName = utils.NormalizeSpace(in.PassengerName)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.BoardingPlace = utils.NormalizeSpace(in.BoardingPlace)
	in.DestinationPlace = utils.NormalizeSpace(in.DestinationPlace)

	gender, err := normalizeGender(in.Gender, true)
	if err != nil {
		return in, domain.ValidationError{Field: "gender", Msg: err.Error()}
	}
	in.Gender = gender

	switch {
	case in.PassengerName == "":
		return in, domain.ValidationError{Field: "passengerName", Msg: "is required"}
	case in.MobileNumber == "":
		return in, domain.ValidationError{Field: "mobileNumber", Msg: "is required"}
	case in.Email != "" && !validEmail(in.Email):
		return in, domain.ValidationError{Field: "email", Msg: "is invalid"}
	case in.BoardingPlace == "" || in.DestinationPlace == "":
		return in, domain.ValidationError{Field: "boardingPlace", Msg: "boardingPlace and destinationPlace are required"}
	case len(in.SeatNumbers) == 0:
		return in, domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	return in, nil
}

func checkSeatNumbers(seats []int, capacity int) error {
	seen := make(map[int]struct{}, len(seats))
	for _, n := range seats {
		if n < 1 || n > capacity {
			return domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("seat %d is outside 1..%d", n, capacity)}
		}
		if _, dup := seen[n]; dup {
			return domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("seat %d requested twice", n)}
		}
		seen[n] = struct{}{}
	}
	return nil
}

package models

import "time"

// ReservedSeat is a seat held by a reservation.
type ReservedSeat struct {
	SeatNumber int        `json:"seatNumber"`
	Status     SeatStatus `json:"status"`
}

// Reservation is the durable record of one successful reserve call.
type Reservation struct {
	ReservationID    string         `json:"reservationId"`
	Username         string         `json:"username"`
	PassengerName    string         `json:"passengerName"`
	Gender           string         `json:"gender"`
	MobileNumber     string         `json:"mobileNumber"`
	Email            string         `json:"email,omitempty"`
	BoardingPlace    string         `json:"boardingPlace"`
	DestinationPlace string         `json:"destinationPlace"`
	Seats            []ReservedSeat `json:"seats"`
	ScheduleID       string         `json:"scheduleId"`
	TicketAmount     int64          `json:"ticketAmount"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// SeatNumbers lists the reserved seat numbers in reservation order.
func (r Reservation) SeatNumbers() []int {
	out := make([]int, 0, len(r.Seats))
	for _, s := range r.Seats {
		out = append(out, s.SeatNumber)
	}
	return out
}

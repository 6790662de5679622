package models

import "time"

type SeatStatus string

const (
	SeatAvailable    SeatStatus = "Available"
	SeatNotAvailable SeatStatus = "NotAvailable"
	SeatReserved     SeatStatus = "Reserved"
	SeatNotProvided  SeatStatus = "NotProvided"
)

// SeatSource tags which writer produced a ledger entry.
type SeatSource string

const (
	SourceOperator    SeatSource = "operator"
	SourceReservation SeatSource = "reservation"
)

// SeatUpdate is one ledger event for a seat of a schedule.
type SeatUpdate struct {
	SeatNumber    int        `json:"seatNumber"`
	Status        SeatStatus `json:"status"`
	Gender        string     `json:"gender,omitempty"`
	Source        SeatSource `json:"source"`
	OperatorName  string     `json:"operatorName,omitempty"`
	ReservationID string     `json:"reservationId,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// SeatView is the resolved status of a single seat.
type SeatView struct {
	SeatNumber int        `json:"seatNumber"`
	Status     SeatStatus `json:"status"`
	Gender     *string    `json:"gender"`
}

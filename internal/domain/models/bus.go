package models

import "time"

// Bus is a catalog entry keyed by registration number.
type Bus struct {
	BusID              string    `json:"busId"`
	RegistrationNumber string    `json:"registrationNumber"`
	BusNumber          string    `json:"busNumber"`
	DriverName         string    `json:"driverName"`
	ConductorName      string    `json:"conductorName,omitempty"`
	OperatorName       string    `json:"operatorName"`
	BusType            string    `json:"busType"`
	Capacity           int       `json:"capacity"`
	TicketPrice        int64     `json:"ticketPrice"`
	IsAvailable        bool      `json:"isAvailable"`
	RouteNumber        string    `json:"routeNumber"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

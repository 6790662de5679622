package models

import "time"

// RouteSnapshot is the route data frozen into a schedule at creation.
type RouteSnapshot struct {
	RouteNumber string `json:"routeNumber"`
	RouteName   string `json:"routeName"`
}

// BusSnapshot is the bus data frozen into a schedule at creation.
type BusSnapshot struct {
	RegistrationNumber string `json:"registrationNumber"`
	BusNumber          string `json:"busNumber"`
	OperatorName       string `json:"operatorName"`
	BusType            string `json:"busType"`
	TicketPrice        int64  `json:"ticketPrice"`
	Capacity           int    `json:"capacity"`
	AvailableSeats     int    `json:"availableSeats"`
}

// Leg is one departure/arrival segment of a schedule.
type Leg struct {
	DeparturePoint string    `json:"departurePoint"`
	DepartureTime  time.Time `json:"departureTime"`
	ArrivalPoint   string    `json:"arrivalPoint"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Stops          []string  `json:"stops"`
}

// Validity is the inclusive date window in which a schedule runs.
type Validity struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Schedule is an operator-published trip. ScheduleToken is its external key.
type Schedule struct {
	ScheduleToken string        `json:"scheduleToken"`
	Route         RouteSnapshot `json:"route"`
	Bus           BusSnapshot   `json:"bus"`
	Legs          []Leg         `json:"schedule"`
	Valid         Validity      `json:"scheduleValid"`
	IsActive      bool          `json:"isActive"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

const (
	AvailabilityAvailable = "Available"
	AvailabilitySoldOut   = "Sold Out"
)

// ScheduleAvailability is a search hit annotated with live seat availability.
type ScheduleAvailability struct {
	Schedule
	AvailableSeats     int    `json:"availableSeats"`
	AvailabilityStatus string `json:"availabilityStatus"`
}

// SearchCriteria echoes the search input back to the caller.
type SearchCriteria struct {
	DeparturePoint string `json:"departurePoint"`
	ArrivalPoint   string `json:"arrivalPoint"`
	Date           string `json:"date"`
}

package models

import "time"

// Route is a catalog entry managed by admins. Schedules copy what they need from it.
type Route struct {
	RouteNumber   string    `json:"routeNumber"`
	StartingPoint string    `json:"startingPoint"`
	EndingPoint   string    `json:"endingPoint"`
	Distance      string    `json:"distance"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

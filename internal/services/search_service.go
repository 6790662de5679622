package services

import (
	"context"
	"fmt"
	"strings"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/utils"
)

const noSchedulesMessage = "No buses found for the specified criteria"

type SearchService struct {
	Schedules ScheduleStore
	Seats     SeatLedgerStore
}

type SearchResult struct {
	Criteria  models.SearchCriteria         `json:"criteria"`
	Schedules []models.ScheduleAvailability `json:"schedules"`
	Message   string                        `json:"message,omitempty"`
}

// Search lists active schedules valid on date with a leg from departurePoint
// to arrivalPoint, each annotated with its live seat availability.
func (s SearchService) Search(ctx context.Context, departurePoint, arrivalPoint, date string) (SearchResult, error) {
	criteria := models.SearchCriteria{
		DeparturePoint: strings.TrimSpace(departurePoint),
		ArrivalPoint:   strings.TrimSpace(arrivalPoint),
		Date:           strings.TrimSpace(date),
	}
	if criteria.DeparturePoint == "" || criteria.ArrivalPoint == "" || criteria.Date == "" {
		return SearchResult{}, domain.ValidationError{Msg: "Missing required query parameters: departurePoint, arrivalPoint, or date"}
	}
	day, err := utils.ParseDate(criteria.Date)
	if err != nil {
		return SearchResult{}, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD", Err: err}
	}

	candidates, err := s.Schedules.ListActiveSchedulesOn(ctx, day)
	if err != nil {
		return SearchResult{}, err
	}
	matches := make([]models.Schedule, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, sc := range candidates {
		if servesLeg(sc, criteria.DeparturePoint, criteria.ArrivalPoint) {
			matches = append(matches, sc)
			ids = append(ids, sc.ScheduleToken)
		}
	}

	out := SearchResult{Criteria: criteria, Schedules: []models.ScheduleAvailability{}}
	if len(matches) == 0 {
		out.Message = noSchedulesMessage
		return out, nil
	}

	ledgers, err := s.Seats.ListSeatUpdatesFor(ctx, ids)
	if err != nil {
		return SearchResult{}, err
	}
	for _, sc := range matches {
		available := domain.AvailableSeatCount(sc.Bus.Capacity, domain.MergeSeatUpdates(ledgers[sc.ScheduleToken]))
		status := models.AvailabilityAvailable
		if available == 0 {
			status = models.AvailabilitySoldOut
		}
		sc.Bus.AvailableSeats = available
		out.Schedules = append(out.Schedules, models.ScheduleAvailability{
			Schedule:           sc,
			AvailableSeats:     available,
			AvailabilityStatus: status,
		})
	}
	utils.LogEventCtx(ctx, "search", "search", fmt.Sprintf("date=%s matches=%d", criteria.Date, len(out.Schedules)))
	return out, nil
}

func servesLeg(sc models.Schedule, departurePoint, arrivalPoint string) bool {
	for _, l := range sc.Legs {
		if strings.TrimSpace(l.DeparturePoint) == departurePoint && strings.TrimSpace(l.ArrivalPoint) == arrivalPoint {
			return true
		}
	}
	return false
}

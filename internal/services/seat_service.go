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

// SeatService reads and writes the per-schedule seat ledger.
type SeatService struct {
	Schedules ScheduleStore
	Seats     SeatLedgerStore
	Now       func() time.Time
}

type SeatUpdateInput struct {
	SeatNumber int
	Status     string
	Gender     string
}

// MergedStatus folds the ledger of scheduleID. An empty ledger is not an error.
func (s SeatService) MergedStatus(ctx context.Context, scheduleID string) (map[int]models.SeatView, error) {
	events, err := s.Seats.ListSeatUpdates(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return domain.MergeSeatUpdates(events), nil
}

// Layout returns exactly capacity seats for the schedule, ascending.
func (s SeatService) Layout(ctx context.Context, scheduleID string) (models.Schedule, []models.SeatView, error) {
	sched, err := s.Schedules.GetSchedule(ctx, strings.TrimSpace(scheduleID))
	if err != nil {
		return models.Schedule{}, nil, err
	}
	merged, err := s.MergedStatus(ctx, sched.ScheduleToken)
	if err != nil {
		return models.Schedule{}, nil, err
	}
	return sched, domain.ProjectSeatLayout(sched.Bus.Capacity, merged), nil
}

// ApplyOperatorUpdate records operator statuses for seats of an owned schedule.
// Repeating the same update converges to one entry per seat.
func (s SeatService) ApplyOperatorUpdate(ctx context.Context, caller domain.Principal, scheduleID string, in []SeatUpdateInput) ([]models.SeatView, error) {
	sched, err := loadOwnedSchedule(ctx, s.Schedules, caller, scheduleID)
	if err != nil {
		return nil, err
	}
	updates, err := operatorSeatUpdates(in, sched.Bus.Capacity, clock(s.Now).now())
	if err != nil {
		return nil, err
	}
	if err := s.Seats.ApplyOperatorSeatUpdates(ctx, sched.ScheduleToken, caller.Name, updates); err != nil {
		return nil, err
	}
	utils.LogEventCtx(ctx, "seats", "operator_update", fmt.Sprintf("schedule_id=%s seats=%d", sched.ScheduleToken, len(updates)))

	merged, err := s.MergedStatus(ctx, sched.ScheduleToken)
	if err != nil {
		return nil, err
	}
	return domain.SortedSeatViews(merged), nil
}

// OperatorSeats returns the recorded seats of an owned schedule.
func (s SeatService) OperatorSeats(ctx context.Context, caller domain.Principal, scheduleID string) ([]models.SeatView, error) {
	sched, err := loadOwnedSchedule(ctx, s.Schedules, caller, scheduleID)
	if err != nil {
		return nil, err
	}
	merged, err := s.MergedStatus(ctx, sched.ScheduleToken)
	if err != nil {
		return nil, err
	}
	return domain.SortedSeatViews(merged), nil
}

func operatorSeatUpdates(in []SeatUpdateInput, capacity int, at time.Time) ([]models.SeatUpdate, error) {
	if len(in) == 0 {
		return nil, domain.ValidationError{Field: "seatUpdates", Msg: "at least one seat update is required"}
	}
	index := map[int]int{}
	out := make([]models.SeatUpdate, 0, len(in))
	for i, u := range in {
		field := fmt.Sprintf("seatUpdates[%d]", i)
		if u.SeatNumber < 1 || u.SeatNumber > capacity {
			return nil, domain.ValidationError{Field: field, Msg: fmt.Sprintf("seatNumber must be between 1 and %d", capacity)}
		}
		status := models.SeatStatus(strings.TrimSpace(u.Status))
		switch status {
		case models.SeatAvailable, models.SeatNotAvailable, models.SeatNotProvided:
		default:
			return nil, domain.ValidationError{Field: field, Msg: "status must be Available, NotAvailable or NotProvided"}
		}
		gender, err := normalizeGender(u.Gender, false)
		if err != nil {
			return nil, domain.ValidationError{Field: field, Msg: err.Error()}
		}
		upd := models.SeatUpdate{
			SeatNumber: u.SeatNumber,
			Status:     status,
			Gender:     gender,
			Source:     models.SourceOperator,
			UpdatedAt:  at,
		}
		if pos, dup := index[u.SeatNumber]; dup {
			out[pos] = upd
			continue
		}
		index[u.SeatNumber] = len(out)
		out = append(out, upd)
	}
	return out, nil
}

func normalizeGender(g string, required bool) (string, error) {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "male":
		return "Male", nil
	case "female":
		return "Female", nil
	case "":
		if required {
			return "", fmt.Errorf("gender is required")
		}
		return "", nil
	default:
		return "", fmt.Errorf("gender must be Male or Female")
	}
}

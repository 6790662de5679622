package domain

import (
	"sort"

	"busreservation/internal/domain/models"
)

// MergeSeatUpdates folds ledger events into one view per seat number.
//
// Precedence per seat: an operator NotAvailable/NotProvided wins, then a
// reservation Reserved marker, then Available. Among several operator events
// for the same seat the most recent UpdatedAt wins, ties go to the later event.
func MergeSeatUpdates(updates []models.SeatUpdate) map[int]models.SeatView {
	type operatorEntry struct {
		update models.SeatUpdate
		seen   bool
	}
	operator := map[int]operatorEntry{}
	reserved := map[int]models.SeatUpdate{}
	seats := map[int]struct{}{}

	for _, u := range updates {
		seats[u.SeatNumber] = struct{}{}
		switch u.Source {
		case models.SourceReservation:
			if u.Status != models.SeatReserved {
				continue
			}
			if _, ok := reserved[u.SeatNumber]; !ok {
				reserved[u.SeatNumber] = u
			}
		default:
			cur := operator[u.SeatNumber]
			if !cur.seen || !u.UpdatedAt.Before(cur.update.UpdatedAt) {
				operator[u.SeatNumber] = operatorEntry{update: u, seen: true}
			}
		}
	}

	out := make(map[int]models.SeatView, len(seats))
	for seat := range seats {
		view := models.SeatView{SeatNumber: seat, Status: models.SeatAvailable}
		op, hasOp := operator[seat]
		res, hasRes := reserved[seat]
		switch {
		case hasOp && blocksSeat(op.update.Status):
			view.Status = op.update.Status
			view.Gender = genderPtr(op.update.Gender)
		case hasRes:
			view.Status = models.SeatReserved
			view.Gender = genderPtr(res.Gender)
		case hasOp:
			view.Gender = genderPtr(op.update.Gender)
		}
		out[seat] = view
	}
	return out
}

func blocksSeat(s models.SeatStatus) bool {
	return s == models.SeatNotAvailable || s == models.SeatNotProvided
}

func genderPtr(g string) *string {
	if g == "" {
		return nil
	}
	return &g
}

// ProjectSeatLayout expands a merged ledger into exactly capacity seats,
// numbered 1..capacity. Unrecorded seats are Available with no gender.
func ProjectSeatLayout(capacity int, merged map[int]models.SeatView) []models.SeatView {
	if capacity < 0 {
		capacity = 0
	}
	out := make([]models.SeatView, 0, capacity)
	for n := 1; n <= capacity; n++ {
		if v, ok := merged[n]; ok {
			v.SeatNumber = n
			out = append(out, v)
			continue
		}
		out = append(out, models.SeatView{SeatNumber: n, Status: models.SeatAvailable})
	}
	return out
}

// AvailableSeatCount is capacity minus the in-range seats not currently Available.
func AvailableSeatCount(capacity int, merged map[int]models.SeatView) int {
	taken := 0
	for seat, v := range merged {
		if seat < 1 || seat > capacity {
			continue
		}
		if v.Status != models.SeatAvailable {
			taken++
		}
	}
	if n := capacity - taken; n > 0 {
		return n
	}
	return 0
}

// UnavailableSeats returns the requested seats whose merged status is not
// Available, in ascending order without duplicates.
func UnavailableSeats(requested []int, merged map[int]models.SeatView) []int {
	seen := map[int]struct{}{}
	out := []int{}
	for _, seat := range requested {
		if _, dup := seen[seat]; dup {
			continue
		}
		seen[seat] = struct{}{}
		if v, ok := merged[seat]; ok && v.Status != models.SeatAvailable {
			out = append(out, seat)
		}
	}
	sort.Ints(out)
	return out
}

// SortedSeatViews returns the merged ledger as a list ordered by seat number.
func SortedSeatViews(merged map[int]models.SeatView) []models.SeatView {
	out := make([]models.SeatView, 0, len(merged))
	for _, v := range merged {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out
}

package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve_ScenarioB(t *testing.T) {
	f := newFixture(t)
	f.publish(t)
	ctx := context.Background()

	res, err := f.reservations.Reserve(ctx, commuter, testToken, passenger(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, "241231-05-1234-1-2-3", res.ReservationID)
	assert.EqualValues(t, 4500, res.TicketAmount)
	assert.Equal(t, "Male", res.Gender)
	assert.Equal(t, "nimal", res.Username)

	_, layout, err := f.seats.Layout(ctx, testToken)
	require.NoError(t, err)
	require.Len(t, layout, 45)
	for _, seat := range layout {
		want := models.SeatAvailable
		if seat.SeatNumber <= 3 {
			want = models.SeatReserved
		}
		assert.Equal(t, want, seat.Status, "seat %d", seat.SeatNumber)
	}
}

func TestReserve_ScenarioC(t *testing.T) {
	f := newFixture(t)
	f.publish(t)
	ctx := context.Background()

	_, err := f.reservations.Reserve(ctx, commuter, testToken, passenger(1, 2, 3))
	require.NoError(t, err)

	_, err = f.reservations.Reserve(ctx, commuter, testToken, passenger(2))
	require.True(t, domain.IsConflict(err), "got %v", err)
	assert.Equal(t, []int{2}, domain.ConflictSeats(err))
}

func TestReserve_PartialOverlapReservesNothing(t *testing.T) {
	f := newFixture(t)
	f.publish(t)
	ctx := context.Background()

	_, err := f.reservations.Reserve(ctx, commuter, testToken, passenger(4, 6))
	require.NoError(t, err)

	_, err = f.reservations.Reserve(ctx, commuter, testToken, passenger(5, 6, 4))
	assert.Equal(t, []int{4, 6}, domain.ConflictSeats(err))

	merged, err := f.seats.MergedStatus(ctx, testToken)
	require.NoError(t, err)
	_, touched := merged[5]
	assert.False(t, touched, "seat 5 must stay unrecorded")
}

func TestReserve_OperatorBlockedSeatIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.publish(t)
	ctx := context.Background()

	_, err := f.seats.ApplyOperatorUpdate(ctx, operator, testToken, []SeatUpdateInput{{SeatNumber: 9, Status: "NotProvided"}})
	require.NoError(t, err)

	_, err = f.reservations.Reserve(ctx, commuter, testToken, passenger(9))
	assert.Equal(t, []int{9}, domain.ConflictSeats(err))
}

func TestReserve_Validation(t *testing.T) {
	f := newFixture(t)
	f.publish(t)
	ctx := context.Background()

	cases := map[string]ReservationInput{
		"no seats":     passenger(),
		"out of range": passenger(46),
		"zero seat":    passenger(0),
		"duplicate":    passenger(1, 1),
		"bad gender": func() ReservationInput {
			in := passenger(1)
			in.Gender = "x"
			return in
		}(),
		"no mobile": func() ReservationInput {
			in := passenger(1)
			in.MobileNumber = " "
			return in
		}(),
	}
	for name, in := range cases {
		_, err := f.reservations.Reserve(ctx, commuter, testToken, in)
		assert.True(t, domain.IsValidation(err), "%s: %v", name, err)
	}

	_, err := f.reservations.Reserve(ctx, commuter, "missing", passenger(1))
	assert.True(t, domain.IsNotFound(err))

	_, err = f.reservations.Reserve(ctx, domain.Principal{Role: domain.RoleCommuter}, testToken, passenger(1))
	assert.True(t, domain.IsAuthentication(err))
}

func TestReserve_ConcurrentOverlapHasOneWinner(t *testing.T) {
	f := newFixture(t)
	f.publish(t)

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := domain.Principal{ID: int64(100 + i), Name: fmt.Sprintf("c%d", i), Role: domain.RoleCommuter}
			_, err := f.reservations.Reserve(context.Background(), caller, testToken, passenger(7, 8))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
				return
			}
			if !domain.IsConflict(err) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			seats := domain.ConflictSeats(err)
			if len(seats) != 2 {
				t.Errorf("loser saw partial seat list %v", seats)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, winners)

	events, err := f.store.ListSeatUpdates(context.Background(), testToken)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestReservationGet_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.publish(t)
	ctx := context.Background()

	res, err := f.reservations.Reserve(ctx, commuter, testToken, passenger(1))
	require.NoError(t, err)

	got, err := f.reservations.Get(ctx, commuter, res.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, res.ReservationID, got.ReservationID)

	_, err = f.reservations.Get(ctx, domain.Principal{Name: "someone"}, res.ReservationID)
	assert.True(t, domain.IsAuthorization(err))

	_, err = f.reservations.Get(ctx, commuter, "garbage")
	assert.True(t, domain.IsValidation(err))

	list, err := f.reservations.ListForUser(ctx, commuter)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

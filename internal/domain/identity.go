package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	tokenDateLayout       = "20060102"
	reservationDateLayout = "060102"
)

// ScheduleToken derives the external key of a schedule:
// routeNumber + registrationNumber + YYYYMMDD(first departure) + "-" + routeName without spaces.
func ScheduleToken(routeNumber, registrationNumber string, firstDeparture time.Time, routeName string) string {
	return strings.TrimSpace(routeNumber) +
		strings.TrimSpace(registrationNumber) +
		firstDeparture.Format(tokenDateLayout) +
		"-" + stripSpaces(routeName)
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// BusID derives the short catalog id of a bus: YY + "0" + last two characters
// of the registration number.
func BusID(now time.Time, registrationNumber string) string {
	return now.Format("06") + "0" + lastN(alphanumeric(registrationNumber), 2)
}

// ReservationKey holds the parts a reservation id is built from.
type ReservationKey struct {
	Date               time.Time
	RouteNumber        string
	RegistrationSuffix string
	Seats              []int
}

// NewReservationKey builds the key for a reservation made on day.
func NewReservationKey(day time.Time, routeNumber, registrationNumber string, seats []int) ReservationKey {
	y, m, d := day.Date()
	return ReservationKey{
		Date:               time.Date(y, m, d, 0, 0, 0, 0, day.Location()),
		RouteNumber:        strings.TrimSpace(routeNumber),
		RegistrationSuffix: lastN(alphanumeric(registrationNumber), 4),
		Seats:              append([]int(nil), seats...),
	}
}

// String renders YYMMDD-route-last4-seat-seat-...
func (k ReservationKey) String() string {
	parts := make([]string, 0, 3+len(k.Seats))
	parts = append(parts, k.Date.Format(reservationDateLayout), k.RouteNumber, k.RegistrationSuffix)
	for _, s := range k.Seats {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, "-")
}

// ParseReservationKey reverses ReservationKey.String. Route numbers never
// contain "-" so the segments are positional.
func ParseReservationKey(id string) (ReservationKey, error) {
	parts := strings.Split(strings.TrimSpace(id), "-")
	if len(parts) < 4 {
		return ReservationKey{}, ValidationError{Field: "reservationId", Msg: "malformed reservation id"}
	}
	day, err := time.Parse(reservationDateLayout, parts[0])
	if err != nil {
		return ReservationKey{}, ValidationError{Field: "reservationId", Msg: "malformed date segment", Err: err}
	}
	if parts[1] == "" || parts[2] == "" {
		return ReservationKey{}, ValidationError{Field: "reservationId", Msg: "malformed reservation id"}
	}
	seats := make([]int, 0, len(parts)-3)
	for _, p := range parts[3:] {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return ReservationKey{}, ValidationError{Field: "reservationId", Msg: fmt.Sprintf("invalid seat segment %q", p)}
		}
		seats = append(seats, n)
	}
	return ReservationKey{
		Date:               day,
		RouteNumber:        parts[1],
		RegistrationSuffix: parts[2],
		Seats:              seats,
	}, nil
}

func alphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lastN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return string(r)
	}
	return string(r[len(r)-n:])
}

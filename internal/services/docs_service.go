package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/utils"

	"github.com/gosimple/slug"
	"github.com/phpdave11/gofpdf"
)

// DocsService renders the e-ticket PDF of a reservation.
type DocsService struct {
	Reservations ReservationService
	Schedules    ScheduleStore
	Now          func() time.Time
}

type ticketData struct {
	Reservation models.Reservation
	Schedule    models.Schedule
	HasSchedule bool
	IssuedAt    time.Time
}

// ETicket returns the PDF bytes and a download file name for a reservation
// owned by caller.
func (s DocsService) ETicket(ctx context.Context, caller domain.Principal, reservationID string) ([]byte, string, error) {
	res, err := s.Reservations.Get(ctx, caller, reservationID)
	if err != nil {
		return nil, "", err
	}
	data := ticketData{Reservation: res, IssuedAt: clock(s.Now).now()}
	// the schedule may have been deleted since; the ticket still renders from the reservation
	if sched, err := s.Schedules.GetSchedule(ctx, res.ScheduleID); err == nil {
		data.Schedule = sched
		data.HasSchedule = true
	} else if !domain.IsNotFound(err) {
		return nil, "", err
	}

	pdf, err := buildETicketPDF(data)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "render e-ticket", Err: err}
	}
	utils.LogEventCtx(ctx, "docs", "generate_eticket", "reservation_id="+res.ReservationID)
	return pdf, ticketFilename(res), nil
}

func ticketFilename(res models.Reservation) string {
	return slug.Make("eticket "+res.ReservationID+" "+res.PassengerName) + ".pdf"
}

func buildETicketPDF(d ticketData) ([]byte, error) {
	r := d.Reservation
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+r.ReservationID, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reservation ID : %s", r.ReservationID),
		fmt.Sprintf("Passenger      : %s (%s)", safe(r.PassengerName, "-"), safe(r.Gender, "-")),
		fmt.Sprintf("Mobile         : %s", safe(r.MobileNumber, "-")),
		fmt.Sprintf("Boarding       : %s", safe(r.BoardingPlace, "-")),
		fmt.Sprintf("Destination    : %s", safe(r.DestinationPlace, "-")),
		fmt.Sprintf("Seats          : %s", seatList(r.SeatNumbers())),
		fmt.Sprintf("Amount         : %s", utils.FormatRupees(r.TicketAmount)),
	}
	if d.HasSchedule {
		sc := d.Schedule
		lines = append(lines,
			fmt.Sprintf("Route          : %s %s", sc.Route.RouteNumber, safe(sc.Route.RouteName, "-")),
			fmt.Sprintf("Bus            : %s (%s, %s)", sc.Bus.RegistrationNumber, safe(sc.Bus.BusType, "-"), safe(sc.Bus.OperatorName, "-")),
		)
		for _, leg := range sc.Legs {
			lines = append(lines, fmt.Sprintf("Leg            : %s %s -> %s %s",
				leg.DeparturePoint, leg.DepartureTime.Format("2006-01-02 15:04"),
				leg.ArrivalPoint, leg.ArrivalTime.Format("15:04")))
		}
	} else {
		lines = append(lines, fmt.Sprintf("Schedule       : %s", r.ScheduleID))
	}
	lines = append(lines,
		fmt.Sprintf("Booked at      : %s", utils.FormatDateTime(r.CreatedAt)),
		fmt.Sprintf("Issued at      : %s", utils.FormatDateTime(d.IssuedAt)),
	)
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please show this e-ticket to the conductor when boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func seatList(seats []int) string {
	parts := make([]string, 0, len(seats))
	for _, n := range seats {
		parts = append(parts, strconv.Itoa(n))
	}
	return safe(strings.Join(parts, ", "), "-")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

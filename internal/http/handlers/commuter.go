package handlers

import (
	"net/http"

	"busreservation/internal/http/middleware"
	"busreservation/internal/services"

	"github.com/gin-gonic/gin"
)

type reserveRequest struct {
	PassengerName    string `json:"passengerName" binding:"required"`
	Gender           string `json:"gender" binding:"required"`
	MobileNumber     string `json:"mobileNumber" binding:"required"`
	Email            string `json:"email" binding:"omitempty,email"`
	BoardingPlace    string `json:"boardingPlace" binding:"required"`
	DestinationPlace string `json:"destinationPlace" binding:"required"`
	Seats            []int  `json:"seats"`
	// SeatNumbers is accepted as an alias of Seats.
	SeatNumbers []int `json:"seatNumbers"`
}

func (r reserveRequest) seats() []int {
	if len(r.Seats) > 0 {
		return r.Seats
	}
	return r.SeatNumbers
}

// GET /api/commuter/searchbus?departurePoint=&arrivalPoint=&date=
func (h Handler) SearchBus(c *gin.Context) {
	res, err := h.Search.Search(c.Request.Context(), c.Query("departurePoint"), c.Query("arrivalPoint"), c.Query("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/commuter/seats/:scheduleId
func (h Handler) SeatLayout(c *gin.Context) {
	sched, seats, err := h.Seats.Layout(c.Request.Context(), c.Param("scheduleId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scheduleId": sched.ScheduleToken,
		"capacity":   sched.Bus.Capacity,
		"seats":      seats,
	})
}

// POST /api/commuter/reserve?scheduleId=
func (h Handler) Reserve(c *gin.Context) {
	var req reserveRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.Reservations.Reserve(c.Request.Context(), middleware.PrincipalFrom(c), c.Query("scheduleId"), services.ReservationInput{
		PassengerName:    req.PassengerName,
		Gender:           req.Gender,
		MobileNumber:     req.MobileNumber,
		Email:            req.Email,
		BoardingPlace:    req.BoardingPlace,
		DestinationPlace: req.DestinationPlace,
		SeatNumbers:      req.seats(),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Reservation successful",
		"reservationId": res.ReservationID,
		"reservation":   res,
	})
}

// GET /api/commuter/reservations
func (h Handler) MyReservations(c *gin.Context) {
	list, err := h.Reservations.ListForUser(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

// GET /api/commuter/reservations/:reservationId/ticket
func (h Handler) ETicket(c *gin.Context) {
	pdf, filename, err := h.Tickets.ETicket(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("reservationId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

package handlers

import (
	"io"
	"net/http"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/http/middleware"
	"busreservation/internal/services"
	"busreservation/internal/utils"

	"github.com/gin-gonic/gin"
)

type scheduleRequest struct {
	ScheduleToken string `json:"scheduleToken"`
	Route         struct {
		RouteNumber string `json:"routeNumber" binding:"required"`
		RouteName   string `json:"routeName"`
	} `json:"route"`
	Bus struct {
		RegistrationNumber string `json:"registrationNumber" binding:"required"`
	} `json:"bus"`
	Legs          []models.Leg `json:"schedule" binding:"required,min=1"`
	ScheduleValid struct {
		StartDate string `json:"startDate" binding:"required"`
		EndDate   string `json:"endDate" binding:"required"`
	} `json:"scheduleValid"`
	IsActive *bool `json:"isActive"`
}

type seatUpdatesRequest struct {
	SeatUpdates []struct {
		SeatNumber int    `json:"seatNumber" binding:"required,gt=0"`
		Status     string `json:"status" binding:"required"`
		Gender     string `json:"gender"`
	} `json:"seatUpdates" binding:"required,min=1,dive"`
}

// POST /api/operator/schedules
func (h Handler) CreateSchedule(c *gin.Context) {
	var req scheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	start, err := utils.ParseDate(req.ScheduleValid.StartDate)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "scheduleValid.startDate", Msg: "must be YYYY-MM-DD", Err: err})
		return
	}
	end, err := utils.ParseDate(req.ScheduleValid.EndDate)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "scheduleValid.endDate", Msg: "must be YYYY-MM-DD", Err: err})
		return
	}

	sched, err := h.Schedules.Create(c.Request.Context(), middleware.PrincipalFrom(c), services.ScheduleInput{
		ScheduleToken:      req.ScheduleToken,
		RouteNumber:        req.Route.RouteNumber,
		RouteName:          req.Route.RouteName,
		RegistrationNumber: req.Bus.RegistrationNumber,
		Legs:               req.Legs,
		StartDate:          start,
		EndDate:            end,
		IsActive:           req.IsActive,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Schedule created successfully", "schedule": sched})
}

// GET /api/operator/schedules
func (h Handler) ListSchedules(c *gin.Context) {
	list, err := h.Schedules.ListForOperator(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedules retrieved", "schedules": list})
}

// PUT /api/operator/schedules/:scheduleId
//
// The body is passed through raw so key presence can be checked: only the
// "schedule" section may be sent.
func (h Handler) UpdateSchedule(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "unable to read request body", nil)
		return
	}
	sched, err := h.Schedules.UpdateLegs(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("scheduleId"), raw)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule updated successfully", "schedule": sched})
}

// DELETE /api/operator/schedules/:scheduleId
func (h Handler) DeleteSchedule(c *gin.Context) {
	if err := h.Schedules.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("scheduleId")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted successfully"})
}

// POST /api/operator/schedules/:scheduleId/update-seats
func (h Handler) UpdateSeats(c *gin.Context) {
	var req seatUpdatesRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	in := make([]services.SeatUpdateInput, 0, len(req.SeatUpdates))
	for _, u := range req.SeatUpdates {
		in = append(in, services.SeatUpdateInput{SeatNumber: u.SeatNumber, Status: u.Status, Gender: u.Gender})
	}
	scheduleID := c.Param("scheduleId")
	seats, err := h.Seats.ApplyOperatorUpdate(c.Request.Context(), middleware.PrincipalFrom(c), scheduleID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Seat statuses updated successfully",
		"seatStatus": gin.H{
			"scheduleId":  scheduleID,
			"seatUpdates": seats,
		},
	})
}

// GET /api/operator/schedules/:scheduleId/seats
func (h Handler) OperatorSeats(c *gin.Context) {
	scheduleID := c.Param("scheduleId")
	seats, err := h.Seats.OperatorSeats(c.Request.Context(), middleware.PrincipalFrom(c), scheduleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scheduleId": scheduleID, "seatUpdates": seats})
}

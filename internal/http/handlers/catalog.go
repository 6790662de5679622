package handlers

import (
	"net/http"

	"busreservation/internal/services"

	"github.com/gin-gonic/gin"
)

type routeRequest struct {
	RouteNumber   string `json:"routeNumber" binding:"required,routenumber"`
	StartingPoint string `json:"startingPoint" binding:"required"`
	EndingPoint   string `json:"endingPoint" binding:"required"`
	Distance      string `json:"distance"`
	IsActive      *bool  `json:"isActive"`
}

type busRequest struct {
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	BusNumber          string `json:"busNumber" binding:"required"`
	DriverName         string `json:"driverName"`
	ConductorName      string `json:"conductorName"`
	OperatorName       string `json:"operatorName" binding:"required"`
	BusType            string `json:"busType" binding:"required"`
	Capacity           int    `json:"capacity" binding:"required,gt=0"`
	TicketPrice        int64  `json:"ticketPrice" binding:"gte=0"`
	RouteNumber        string `json:"routeNumber" binding:"required"`
	IsAvailable        *bool  `json:"isAvailable"`
}

// POST /api/admin/routes
func (h Handler) CreateRoute(c *gin.Context) {
	var req routeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rt, err := h.Catalog.CreateRoute(c.Request.Context(), services.RouteInput{
		RouteNumber:   req.RouteNumber,
		StartingPoint: req.StartingPoint,
		EndingPoint:   req.EndingPoint,
		Distance:      req.Distance,
		IsActive:      req.IsActive,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Route created successfully", "route": rt})
}

// GET /api/admin/routes
func (h Handler) ListRoutes(c *gin.Context) {
	routes, err := h.Catalog.ListRoutes(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

// POST /api/admin/buses
func (h Handler) CreateBus(c *gin.Context) {
	var req busRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	bus, err := h.Catalog.CreateBus(c.Request.Context(), services.BusInput{
		RegistrationNumber: req.RegistrationNumber,
		BusNumber:          req.BusNumber,
		DriverName:         req.DriverName,
		ConductorName:      req.ConductorName,
		OperatorName:       req.OperatorName,
		BusType:            req.BusType,
		Capacity:           req.Capacity,
		TicketPrice:        req.TicketPrice,
		RouteNumber:        req.RouteNumber,
		IsAvailable:        req.IsAvailable,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Bus created successfully", "bus": bus})
}

// GET /api/admin/buses
func (h Handler) ListBuses(c *gin.Context) {
	buses, err := h.Catalog.ListBuses(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, buses)
}

package api

import (
	"log"
	stdhttp "net/http"

	intconfig "busreservation/internal/config"
	"busreservation/internal/domain"
	h "busreservation/internal/http/handlers"
	"busreservation/internal/http/middleware"
	"busreservation/internal/services"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the API under /api. parser resolves bearer tokens for the
// protected groups.
func NewRouter(env intconfig.Env, hd h.Handler, parser middleware.TokenParser) *gin.Engine {
	h.RegisterValidators()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.Auth(parser)

	// gin allows one wildcard name per segment, so schedule tokens are read as :scheduleId

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		users := api.Group("/users")
		users.POST("/register", hd.Register)
		users.POST("/login", hd.Login)
		users.GET("/profile", auth, hd.Profile)

		admin := api.Group("/admin", auth, middleware.RequireRoles(domain.RoleAdmin))
		mountAdmin(admin, hd)

		commuter := api.Group("/commuter")
		// search is public, everything else needs a commuter token
		commuter.GET("/searchbus", hd.SearchBus)
		mountCommuter(commuter.Group("", auth, middleware.RequireRoles(domain.RoleCommuter)), hd)

		operator := api.Group("/operator", auth, middleware.RequireRoles(domain.RoleOperator))
		mountOperator(operator, hd)
	}

	h.SetRouter(r)
	return r
}

func mountAdmin(g *gin.RouterGroup, hd h.Handler) {
	g.GET("/routes", hd.ListRoutes)
	g.POST("/routes", hd.CreateRoute)
	g.GET("/buses", hd.ListBuses)
	g.POST("/buses", hd.CreateBus)
}

func mountCommuter(g *gin.RouterGroup, hd h.Handler) {
	g.GET("/seats/:scheduleId", hd.SeatLayout)
	g.POST("/reserve", hd.Reserve)
	g.GET("/reservations", hd.MyReservations)
	g.GET("/reservations/:reservationId/ticket", hd.ETicket)
}

func mountOperator(g *gin.RouterGroup, hd h.Handler) {
	g.POST("/schedules", hd.CreateSchedule)
	g.GET("/schedules", hd.ListSchedules)
	g.PUT("/schedules/:scheduleId", hd.UpdateSchedule)
	g.DELETE("/schedules/:scheduleId", hd.DeleteSchedule)
	g.POST("/schedules/:scheduleId/update-seats", hd.UpdateSeats)
	g.GET("/schedules/:scheduleId/seats", hd.OperatorSeats)
}

// HandlerFor exposes reg through the handler interfaces.
func HandlerFor(reg services.Registry) h.Handler {
	return h.Handler{
		Auth:         reg.Auth,
		Catalog:      reg.Catalog,
		Schedules:    reg.Schedules,
		Seats:        reg.Seats,
		Reservations: reg.Reservations,
		Search:       reg.Search,
		Tickets:      reg.Docs,
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"counseling-portal/internal/domain/user"
	"counseling-portal/internal/handler/api"
	"counseling-portal/internal/handler/middleware"
	"counseling-portal/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth            *api.AuthHandler
	Appointment     *api.AppointmentHandler
	Service         *api.ServiceHandler
	Availability    *api.AvailabilityHandler
	Conflict        *api.ConflictHandler
	Policy          *api.PolicyHandler
	BlockedInterval *api.BlockedIntervalHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api/v1")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		// Catalog, availability and policy previews are browsable without a
		// session so prospective clients can look before signing in.
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/services", Handler: h.Service.List},
			{Method: http.MethodGet, Path: "/services/:id", Handler: h.Service.Get},
			{Method: http.MethodGet, Path: "/availability", Handler: h.Availability.GetDay},
			{Method: http.MethodPost, Path: "/conflicts/check", Handler: h.Conflict.Check},
			{Method: http.MethodGet, Path: "/policies/cancellation", Handler: h.Policy.AssessCancellation},
			{Method: http.MethodGet, Path: "/policies/reschedule", Handler: h.Policy.AssessReschedule},
		})

		appointments := apiGroup.Group("/appointments")
		appointments.Use(authMiddleware.RequireAuth())
		{
			addRoutes(appointments, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Appointment.Book},
				{Method: http.MethodGet, Path: "", Handler: h.Appointment.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Appointment.Get},
				{Method: http.MethodGet, Path: "/:id/history", Handler: h.Appointment.GetHistory},
				{Method: http.MethodPost, Path: "/:id/reschedule", Handler: h.Appointment.Reschedule},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Appointment.Cancel},
				{Method: http.MethodPatch, Path: "/:id/notes", Handler: h.Appointment.UpdateNotes},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Appointment.Confirm, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Appointment.Complete, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/no-show", Handler: h.Appointment.MarkNoShow, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), adminOnly)
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/no-show-sweep", Handler: h.Appointment.SweepNoShows},
				{Method: http.MethodPost, Path: "/reminder-sweep", Handler: h.Appointment.SendReminders},
				{Method: http.MethodPost, Path: "/blocked-intervals", Handler: h.BlockedInterval.Create},
				{Method: http.MethodGet, Path: "/blocked-intervals", Handler: h.BlockedInterval.List},
				{Method: http.MethodDelete, Path: "/blocked-intervals/:id", Handler: h.BlockedInterval.Delete},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

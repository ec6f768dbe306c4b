package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"appointease-api/internal/config"
	"appointease-api/internal/middleware"
	"appointease-api/internal/service"
	"appointease-api/internal/view"
)

// NewRouter assembles the HTTP surface under /api/v1.
func NewRouter(cfg *config.Config, svc *service.Service, users middleware.UserResolver, log zerolog.Logger) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	h := New(svc, log)
	guard := middleware.Auth(cfg.JWTSecret, users)
	limiter := middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	api := r.Group("/api/v1")

	authRoutes := api.Group("/auth", limiter)
	authRoutes.POST("/register", h.register)
	authRoutes.POST("/login", h.login)

	userRoutes := api.Group("/users", guard)
	userRoutes.GET("", h.getUsers)
	userRoutes.GET("/me", h.getMe)

	apptRoutes := api.Group("/appointments", guard)
	apptRoutes.POST("", h.createAppointment)
	apptRoutes.GET("", h.listAppointments)
	apptRoutes.GET("/:appointmentId", h.getAppointment)
	apptRoutes.PATCH("/:appointmentId", h.updateAppointment)
	apptRoutes.PATCH("/:appointmentId/cancel", h.cancelAppointment)
	apptRoutes.PATCH("/:appointmentId/accept", h.acceptAppointment)
	apptRoutes.PATCH("/:appointmentId/decline", h.declineAppointment)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, view.Response{
			Success: false,
			Message: "Not Found",
			ErrorMessages: []view.ErrorMessage{
				{Path: c.Request.URL.String(), Message: "API not found"},
			},
		})
	})

	return r
}

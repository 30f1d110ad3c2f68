package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/auth"
	"github.com/Freeeeeet/consult_scheduler/internal/controller/state"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
)

// Deps зависимости HTTP API
type Deps struct {
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
	Users        *service.UserService
	Sessions     *state.Manager
	Tokens       *auth.TokenManager
	RateLimiter  *RateLimiter // nil = без ограничения
	Logger       *zap.Logger
}

// Handler обработчики HTTP API
type Handler struct {
	availability *service.AvailabilityService
	bookings     *service.BookingService
	users        *service.UserService
	sessions     *state.Manager
	logger       *zap.Logger
	now          func() time.Time
}

func newHandler(d Deps) *Handler {
	return &Handler{
		availability: d.Availability,
		bookings:     d.Bookings,
		users:        d.Users,
		sessions:     d.Sessions,
		logger:       d.Logger,
		now:          time.Now,
	}
}

// NewRouter собирает gin роутер со всеми маршрутами API
func NewRouter(d Deps) *gin.Engine {
	h := newHandler(d)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.Middleware())
	}
	api.Use(authMiddleware(d.Tokens))

	api.GET("/me", h.me)
	api.PUT("/me/timezone", h.setTimeZone)

	api.GET("/consultants", h.listConsultants)
	api.GET("/consultants/:id/availability", h.getAvailability)
	api.GET("/consultants/:id/days", h.availableDays)
	api.GET("/consultants/:id/slots", h.slots)
	api.POST("/consultants/:id/bookings", h.createBooking)

	api.GET("/bookings", h.listBookings)
	api.PATCH("/bookings/:id", requireConsultant(), h.updateBookingStatus)
	api.DELETE("/bookings/:id", h.deleteBooking)

	consultant := api.Group("", requireConsultant())
	consultant.PUT("/availability", h.putAvailability)

	ed := consultant.Group("/editor")
	ed.POST("", h.openEditor)
	ed.GET("", h.editorState)
	ed.DELETE("", h.closeEditor)
	ed.POST("/pointer", h.pointer)
	ed.POST("/blocks", h.addBlock)
	ed.DELETE("/blocks", h.clearBlocks)
	ed.DELETE("/blocks/:blockId", h.deleteBlock)
	ed.POST("/save", h.saveEditor)
	ed.GET("/image", h.editorImage)

	return r
}

// NewHTTPHandler роутер, обёрнутый в трассировку OpenTelemetry
func NewHTTPHandler(d Deps) http.Handler {
	return otelhttp.NewHandler(NewRouter(d), "consult_scheduler")
}

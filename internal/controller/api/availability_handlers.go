package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
)

type consultantResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	TimeZone string `json:"time_zone"`
}

type putAvailabilityRequest struct {
	Blocks []model.PersistedBlock `json:"blocks" binding:"required"`
}

type timeZoneRequest struct {
	TimeZone string `json:"time_zone" binding:"required"`
}

type slotResponse struct {
	Start  model.TimeOfDay `json:"start"`
	End    model.TimeOfDay `json:"end"`
	Label  string          `json:"label"`
	Booked bool            `json:"booked"`
}

func consultantID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid consultant id")
		return 0, false
	}
	return id, true
}

// GET /api/me
func (h *Handler) me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), principal(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /api/me/timezone
func (h *Handler) setTimeZone(c *gin.Context) {
	var req timeZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := h.users.SetTimeZone(c.Request.Context(), principal(c).UserID, req.TimeZone)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /api/consultants
func (h *Handler) listConsultants(c *gin.Context) {
	users, err := h.users.Consultants(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]consultantResponse, 0, len(users))
	for _, u := range users {
		out = append(out, consultantResponse{ID: u.ID, Name: u.DisplayName(), TimeZone: u.TimeZone})
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/consultants/:id/availability
func (h *Handler) getAvailability(c *gin.Context) {
	id, ok := consultantID(c)
	if !ok {
		return
	}
	doc, err := h.availability.Load(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// PUT /api/availability
func (h *Handler) putAvailability(c *gin.Context) {
	var req putAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	doc, err := h.availability.SaveDocument(c.Request.Context(), principal(c), req.Blocks)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/consultants/:id/days
func (h *Handler) availableDays(c *gin.Context) {
	id, ok := consultantID(c)
	if !ok {
		return
	}
	days, err := h.availability.AvailableDays(c.Request.Context(), id)
	if err != nil && !service.IsNotSet(err) {
		h.respondError(c, err)
		return
	}

	names := make([]string, 0, len(days))
	for _, d := range days {
		name, _ := availability.DayName(d)
		names = append(names, name)
	}
	c.JSON(http.StatusOK, gin.H{"days": names, "notSet": service.IsNotSet(err)})
}

// GET /api/consultants/:id/slots?date=YYYY-MM-DD&day=Mon
func (h *Handler) slots(c *gin.Context) {
	id, ok := consultantID(c)
	if !ok {
		return
	}
	date, err := service.ResolveDate(c.Query("date"), c.Query("day"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resolved, err := h.bookings.Slots(c.Request.Context(), id, date)
	if err != nil && !service.IsNotSet(err) {
		h.respondError(c, err)
		return
	}

	out := make([]slotResponse, 0, len(resolved))
	for _, s := range resolved {
		out = append(out, slotResponse{
			Start:  s.Start,
			End:    s.End,
			Label:  availability.FormatTime12(s.Start) + " - " + availability.FormatTime12(s.End),
			Booked: s.Booked,
		})
	}
	day, _ := availability.DayName(availability.WeekDayOf(date))
	c.JSON(http.StatusOK, gin.H{
		"date":   availability.FormatDate(date),
		"day":    day,
		"slots":  out,
		"notSet": service.IsNotSet(err),
	})
}

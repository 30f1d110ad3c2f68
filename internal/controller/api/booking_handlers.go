package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
)

type createBookingRequest struct {
	Date        string          `json:"date" binding:"required"`
	Day         string          `json:"day"`
	StartTime   model.TimeOfDay `json:"startTime"`
	EndTime     model.TimeOfDay `json:"endTime" binding:"required"`
	ClientName  string          `json:"clientName"`
	ClientEmail string          `json:"clientEmail"`
	Notes       string          `json:"notes"`
}

type statusRequest struct {
	Status model.BookingStatus `json:"status" binding:"required,oneof=confirmed declined"`
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid booking id")
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/consultants/:id/bookings
func (h *Handler) createBooking(c *gin.Context) {
	id, ok := consultantID(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), principal(c), service.CreateBookingRequest{
		ConsultantID: id,
		Date:         req.Date,
		Day:          req.Day,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		Notes:        req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings
func (h *Handler) listBookings(c *gin.Context) {
	grouped, err := h.bookings.List(c.Request.Context(), principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

// PATCH /api/bookings/:id
func (h *Handler) updateBookingStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.UpdateStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DELETE /api/bookings/:id
func (h *Handler) deleteBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if err := h.bookings.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

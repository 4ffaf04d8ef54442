package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atlastrips/travel-booking/internal/domain"
	"github.com/atlastrips/travel-booking/internal/dto"
	"github.com/atlastrips/travel-booking/internal/gateway"
	"github.com/atlastrips/travel-booking/internal/middleware"
	"github.com/atlastrips/travel-booking/internal/response"
	"github.com/atlastrips/travel-booking/internal/service"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	service service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), middleware.UserFromContext(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Created(c, result)
}

// List handles GET /api/v1/bookings
func (h *BookingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.service.ListBookings(c.Request.Context(), middleware.UserFromContext(c), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, result.Data, gin.H{
		"page":      result.Page,
		"page_size": result.PageSize,
		"has_more":  result.HasMore,
	})
}

// Get handles GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.service.GetBooking(c.Request.Context(), middleware.UserFromContext(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, booking)
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.service.CancelBooking(c.Request.Context(), middleware.UserFromContext(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, booking)
}

// Confirm handles POST /api/v1/bookings/:id/confirm. Admin only; the
// route carries the RequireAdmin middleware.
func (h *BookingHandler) Confirm(c *gin.Context) {
	booking, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, booking)
}

// PayRemaining handles POST /api/v1/bookings/:id/pay-remaining
func (h *BookingHandler) PayRemaining(c *gin.Context) {
	redirect, err := h.service.PayRemaining(c.Request.Context(), middleware.UserFromContext(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, redirect)
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsConflictError(err):
		response.Conflict(c, err.Error())
	case domain.IsAuthorizationError(err):
		response.Forbidden(c, err.Error())
	case errors.Is(err, gateway.ErrProviderUnavailable):
		_ = c.Error(err)
		response.BadGateway(c, "payment provider unavailable")
	default:
		_ = c.Error(err)
		response.InternalError(c, err)
	}
}

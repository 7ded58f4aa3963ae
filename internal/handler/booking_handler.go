package handler

import (
	"errors"
	"net/http"

	"go-cinema-booking/internal/middleware"
	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/service"
	apperrors "go-cinema-booking/pkg/app_errors"
	"go-cinema-booking/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookings service.BookingService
	holds    service.HoldService
}

func NewBookingHandler(bookings service.BookingService, holds service.HoldService) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		holds:    holds,
	}
}

func (h *BookingHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1", auth)
	{
		router.POST("booking/hold", h.HoldSeats)
		router.POST("booking/release", h.ReleaseSeats)
		router.POST("bookings", h.CreateBooking)
		router.GET("bookings/:id", h.GetBooking)
	}
}

func (h *BookingHandler) HoldSeats(c *gin.Context) {
	var req model.HoldSeatsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	resp, err := h.holds.Hold(c, middleware.UserID(c), req)
	if err != nil {
		h.handleBookingError(c, err, "HoldSeats")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ReleaseSeats(c *gin.Context) {
	var req model.ReleaseSeatsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.holds.Release(c, middleware.UserID(c), req); err != nil {
		h.handleBookingError(c, err, "ReleaseSeats")
		return
	}

	c.Status(http.StatusOK)
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	booking, err := h.bookings.Create(c, middleware.UserID(c), req)
	if err != nil {
		h.handleBookingError(c, err, "CreateBooking")
		return
	}

	c.JSON(http.StatusCreated, model.CreateBookingResponse{
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		TotalCents:  booking.TotalCents,
		Status:      string(booking.Status),
		ExpiresAt:   booking.ExpiresAt,
	})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	var uri IDUri
	if err := BindUri(c, &uri); err != nil {
		return
	}

	booking, err := h.bookings.GetByID(c, uri.ID, middleware.UserID(c), middleware.IsStaff(c))
	if err != nil {
		h.handleBookingError(c, err, "GetBooking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Seat list must not be empty",
		})
	case errors.Is(err, apperrors.ErrSeatConflict):
		log.Warn("Seat conflict")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Seat already held or sold, please reselect",
		})
	case errors.Is(err, apperrors.ErrSeatNotFound):
		log.Warn("Seat not found")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown seat for this showtime",
		})
	case errors.Is(err, apperrors.ErrShowtimeNotFound):
		log.Warn("Showtime not found")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown showtime",
		})
	case errors.Is(err, apperrors.ErrComboNotFound):
		log.Warn("Combo not found")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown combo item",
		})
	case errors.Is(err, apperrors.ErrPromotionNotFound),
		errors.Is(err, apperrors.ErrPromotionNotActive),
		errors.Is(err, apperrors.ErrPromotionExpired),
		errors.Is(err, apperrors.ErrPromotionMinAmount),
		errors.Is(err, apperrors.ErrPromotionExhausted):
		log.Warn("Invalid promotion code")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion code",
		})
	case errors.Is(err, apperrors.ErrBookingNotFound):
		log.Warn("Booking not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not your booking",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

package handler

import (
	"errors"
	"net/http"

	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/service"
	apperrors "go-cinema-booking/pkg/app_errors"
	"go-cinema-booking/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TicketHandler struct {
	tickets service.TicketService
}

func NewTicketHandler(tickets service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, staffOnly gin.HandlerFunc) {
	router := r.Group("/api/v1/admin", auth, staffOnly)
	{
		router.POST("verify-ticket", h.VerifyTicket)
	}
}

// VerifyTicket 櫃檯掃描 QR 後呼叫；無效票也回傳票券快照供螢幕顯示
func (h *TicketHandler) VerifyTicket(c *gin.Context) {
	var req model.VerifyTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	resp, err := h.tickets.VerifyTicket(c, req.TicketID)
	if err != nil {
		h.handleTicketError(c, resp, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) handleTicketError(c *gin.Context, resp *model.VerifyTicketResponse, err error) {
	log := logger.WithComponent("handler").With(zap.String("operation", "VerifyTicket"), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, resp)
	case errors.Is(err, apperrors.ErrBookingNotPaid):
		log.Warn("Booking not paid")
		c.JSON(http.StatusConflict, resp)
	case errors.Is(err, apperrors.ErrTicketAlreadyUsed):
		log.Warn("Ticket already used")
		c.JSON(http.StatusConflict, resp)
	case errors.Is(err, apperrors.ErrTicketExpired):
		log.Warn("Ticket expired")
		c.JSON(http.StatusGone, resp)
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

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

type ShowtimeHandler struct {
	showtimes service.ShowtimeService
}

func NewShowtimeHandler(showtimes service.ShowtimeService) *ShowtimeHandler {
	return &ShowtimeHandler{showtimes: showtimes}
}

func (h *ShowtimeHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, staffOnly gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("showtimes", h.ListShowtimes)
		router.GET("showtimes/:id/seats", h.GetSeatMap)
	}

	admin := r.Group("/api/v1/admin", auth, staffOnly)
	{
		admin.POST("showtimes", h.CreateShowtime)
	}
}

func (h *ShowtimeHandler) ListShowtimes(c *gin.Context) {
	showtimes, err := h.showtimes.List(c)
	if err != nil {
		h.handleShowtimeError(c, err, "ListShowtimes")
		return
	}

	c.JSON(http.StatusOK, showtimes)
}

// GetSeatMap 座位表輪詢端點；回應可能來自短 TTL 快取，
// 下單時服務端仍會重新驗證座位狀態
func (h *ShowtimeHandler) GetSeatMap(c *gin.Context) {
	var uri IDUri
	if err := BindUri(c, &uri); err != nil {
		return
	}

	views, err := h.showtimes.GetSeatMap(c, uri.ID)
	if err != nil {
		h.handleShowtimeError(c, err, "GetSeatMap")
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *ShowtimeHandler) CreateShowtime(c *gin.Context) {
	var req model.CreateShowtimeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	showtime, err := h.showtimes.Create(c, req)
	if err != nil {
		h.handleShowtimeError(c, err, "CreateShowtime")
		return
	}

	c.JSON(http.StatusCreated, showtime)
}

func (h *ShowtimeHandler) handleShowtimeError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrShowtimeNotFound):
		log.Warn("Showtime not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Showtime not found",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

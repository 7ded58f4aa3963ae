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

type PromotionHandler struct {
	promotions service.PromotionService
}

func NewPromotionHandler(promotions service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

func (h *PromotionHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("promotions/verify", h.VerifyPromotion)
	}
}

// VerifyPromotion 是公開端點：結帳頁可以在下單前反覆試碼
func (h *PromotionHandler) VerifyPromotion(c *gin.Context) {
	var req model.VerifyPromotionRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	resp, err := h.promotions.Verify(c, req)
	if err != nil {
		log := logger.WithComponent("handler").With(zap.String("operation", "VerifyPromotion"), zap.Error(err))
		if resp != nil {
			// 無效的碼以 404 回報，並附上不通過的原因
			log.Warn("Promotion rejected")
			c.JSON(http.StatusNotFound, resp)
			return
		}
		if errors.Is(err, apperrors.ErrPromotionNotFound) {
			log.Warn("Promotion not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
			return
		}
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

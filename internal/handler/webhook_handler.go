package handler

import (
	"net/http"

	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/service"
	"go-cinema-booking/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	payments service.PaymentService
}

func NewWebhookHandler(payments service.PaymentService) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

func (h *WebhookHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("sepay-webhook", h.HandleSepayWebhook)
	}
}

// HandleSepayWebhook 接收金流閘道的轉帳通知。
// 對不上帳是預期中的常態，回 success=false 讓閘道重試或由營運人員跟進，
// 絕不因此回 5xx 導致閘道停止通知。
func (h *WebhookHandler) HandleSepayWebhook(c *gin.Context) {
	var req model.SepayWebhookRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	resp, err := h.payments.HandleNotification(c, req)
	if err != nil {
		logger.WithComponent("handler").Error("webhook reconciliation failed",
			zap.String("operation", "HandleSepayWebhook"), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-cinema-booking/internal/model"
	apperrors "go-cinema-booking/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type promotionServiceMock struct {
	mock.Mock
}

func (m *promotionServiceMock) Verify(ctx context.Context, req model.VerifyPromotionRequest) (*model.VerifyPromotionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerifyPromotionResponse), args.Error(1)
}

func (m *promotionServiceMock) Evaluate(ctx context.Context, code string, amountCents int64) (*model.Promotion, error) {
	args := m.Called(ctx, code, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func setupPromotionTestRouter(promotions *promotionServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	promotionHandler := NewPromotionHandler(promotions)
	promotionHandler.RegisterRoutes(router)

	return router
}

func TestVerifyPromotion(t *testing.T) {
	t.Run("ValidCode", func(t *testing.T) {
		promotions := &promotionServiceMock{}
		router := setupPromotionTestRouter(promotions)

		promotions.On("Verify", mock.Anything, mock.Anything).Return(&model.VerifyPromotionResponse{
			Valid:           true,
			PromotionID:     1,
			DiscountPercent: 15,
		}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/promotions/verify", model.VerifyPromotionRequest{
			Code:        "MOVIE15",
			AmountCents: 25000,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"valid":true`)
		promotions.AssertExpectations(t)
	})

	t.Run("InvalidCode - 404 With Reason", func(t *testing.T) {
		promotions := &promotionServiceMock{}
		router := setupPromotionTestRouter(promotions)

		promotions.On("Verify", mock.Anything, mock.Anything).Return(&model.VerifyPromotionResponse{
			Valid:   false,
			Message: "expired",
		}, apperrors.ErrPromotionExpired).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/promotions/verify", model.VerifyPromotionRequest{
			Code:        "OLD10",
			AmountCents: 25000,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "expired")
	})

	t.Run("Failed - MissingCode", func(t *testing.T) {
		promotions := &promotionServiceMock{}
		router := setupPromotionTestRouter(promotions)

		req := createJSONHTTPRequest("POST", "/api/v1/promotions/verify", map[string]interface{}{
			"amount_cents": 25000,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		promotions.AssertNotCalled(t, "Verify")
	})
}

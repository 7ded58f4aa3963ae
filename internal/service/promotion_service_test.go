package service

import (
	"context"
	"testing"
	"time"

	"go-cinema-booking/internal/model"
	apperrors "go-cinema-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type promotionRepoMock struct {
	mock.Mock
}

func (m *promotionRepoMock) FindByCode(ctx context.Context, code string) (*model.Promotion, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *promotionRepoMock) IncrementUsage(ctx context.Context, tx pgx.Tx, id int) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func activePromotion() *model.Promotion {
	now := time.Now().UTC()
	return &model.Promotion{
		ID:              1,
		Code:            "MOVIE15",
		Name:            "15% off",
		DiscountPercent: 15,
		StartsAt:        now.Add(-time.Hour),
		EndsAt:          now.Add(time.Hour),
		IsActive:        true,
		MinAmountCents:  0,
		MaxUsage:        0,
	}
}

func TestPromotionService_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(activePromotion(), nil).Once()
		svc := NewPromotionService(repo)

		promo, err := svc.Evaluate(ctx, "MOVIE15", 10000)

		require.NoError(t, err)
		assert.Equal(t, 15, promo.DiscountPercent)
		repo.AssertExpectations(t)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "NOPE").Return(nil, apperrors.ErrPromotionNotFound).Once()
		svc := NewPromotionService(repo)

		_, err := svc.Evaluate(ctx, "NOPE", 10000)

		assert.ErrorIs(t, err, apperrors.ErrPromotionNotFound)
		repo.AssertExpectations(t)
	})

	t.Run("Failed - NotActive", func(t *testing.T) {
		promo := activePromotion()
		promo.IsActive = false
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(promo, nil).Once()
		svc := NewPromotionService(repo)

		_, err := svc.Evaluate(ctx, "MOVIE15", 10000)

		assert.ErrorIs(t, err, apperrors.ErrPromotionNotActive)
	})

	t.Run("Failed - NotStartedYet", func(t *testing.T) {
		promo := activePromotion()
		promo.StartsAt = time.Now().UTC().Add(time.Hour)
		promo.EndsAt = time.Now().UTC().Add(2 * time.Hour)
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(promo, nil).Once()
		svc := NewPromotionService(repo)

		_, err := svc.Evaluate(ctx, "MOVIE15", 10000)

		assert.ErrorIs(t, err, apperrors.ErrPromotionExpired)
	})

	t.Run("Failed - WindowOver", func(t *testing.T) {
		promo := activePromotion()
		promo.StartsAt = time.Now().UTC().Add(-2 * time.Hour)
		promo.EndsAt = time.Now().UTC().Add(-time.Hour)
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(promo, nil).Once()
		svc := NewPromotionService(repo)

		_, err := svc.Evaluate(ctx, "MOVIE15", 10000)

		assert.ErrorIs(t, err, apperrors.ErrPromotionExpired)
	})

	t.Run("Failed - BelowMinAmount", func(t *testing.T) {
		promo := activePromotion()
		promo.MinAmountCents = 20000
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(promo, nil).Once()
		svc := NewPromotionService(repo)

		_, err := svc.Evaluate(ctx, "MOVIE15", 10000)

		assert.ErrorIs(t, err, apperrors.ErrPromotionMinAmount)
	})

	t.Run("Failed - UsageExhausted", func(t *testing.T) {
		promo := activePromotion()
		promo.MaxUsage = 100
		promo.UsageCount = 100
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(promo, nil).Once()
		svc := NewPromotionService(repo)

		_, err := svc.Evaluate(ctx, "MOVIE15", 10000)

		assert.ErrorIs(t, err, apperrors.ErrPromotionExhausted)
	})

	t.Run("ZeroMaxUsageMeansUnlimited", func(t *testing.T) {
		promo := activePromotion()
		promo.MaxUsage = 0
		promo.UsageCount = 999999
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(promo, nil).Once()
		svc := NewPromotionService(repo)

		_, err := svc.Evaluate(ctx, "MOVIE15", 10000)

		require.NoError(t, err)
	})
}

func TestPromotionService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidCode", func(t *testing.T) {
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(activePromotion(), nil).Once()
		svc := NewPromotionService(repo)

		resp, err := svc.Verify(ctx, model.VerifyPromotionRequest{Code: "MOVIE15", AmountCents: 10000})

		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, 1, resp.PromotionID)
		assert.Equal(t, 15, resp.DiscountPercent)
	})

	t.Run("InvalidCodeCarriesReason", func(t *testing.T) {
		promo := activePromotion()
		promo.MinAmountCents = 20000
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "MOVIE15").Return(promo, nil).Once()
		svc := NewPromotionService(repo)

		resp, err := svc.Verify(ctx, model.VerifyPromotionRequest{Code: "MOVIE15", AmountCents: 500})

		assert.ErrorIs(t, err, apperrors.ErrPromotionMinAmount)
		require.NotNil(t, resp)
		assert.False(t, resp.Valid)
		assert.Equal(t, "minimum amount not reached", resp.Message)
	})

	t.Run("NotFoundCarriesReason", func(t *testing.T) {
		repo := &promotionRepoMock{}
		repo.On("FindByCode", ctx, "NOPE").Return(nil, apperrors.ErrPromotionNotFound).Once()
		svc := NewPromotionService(repo)

		resp, err := svc.Verify(ctx, model.VerifyPromotionRequest{Code: "NOPE", AmountCents: 10000})

		assert.ErrorIs(t, err, apperrors.ErrPromotionNotFound)
		require.NotNil(t, resp)
		assert.Equal(t, "not found", resp.Message)
	})
}

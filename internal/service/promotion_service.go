package service

import (
	"context"
	"errors"
	"time"

	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/repository"
	apperrors "go-cinema-booking/pkg/app_errors"
)

// PromotionService 折扣碼驗證。純讀取、無副作用，可重複呼叫。
type PromotionService interface {
	Verify(ctx context.Context, req model.VerifyPromotionRequest) (*model.VerifyPromotionResponse, error)
	// Evaluate 供訂單建立流程使用：回傳可用的折扣活動或第一個失敗原因
	Evaluate(ctx context.Context, code string, amountCents int64) (*model.Promotion, error)
}

type PromotionServiceImpl struct {
	repo repository.PromotionRepository
}

func NewPromotionService(repo repository.PromotionRepository) PromotionService {
	return &PromotionServiceImpl{repo: repo}
}

// Evaluate 依序檢查：存在 → 啟用 → 時間窗 → 最低金額 → 使用上限。
// 第一個不過的條件即為失敗原因。
func (s *PromotionServiceImpl) Evaluate(ctx context.Context, code string, amountCents int64) (*model.Promotion, error) {
	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !promo.IsActive {
		return nil, apperrors.ErrPromotionNotActive
	}

	now := time.Now().UTC()
	if now.Before(promo.StartsAt) || now.After(promo.EndsAt) {
		return nil, apperrors.ErrPromotionExpired
	}

	if promo.MinAmountCents > 0 && amountCents < promo.MinAmountCents {
		return nil, apperrors.ErrPromotionMinAmount
	}

	if promo.MaxUsage > 0 && promo.UsageCount >= promo.MaxUsage {
		return nil, apperrors.ErrPromotionExhausted
	}

	return promo, nil
}

func (s *PromotionServiceImpl) Verify(ctx context.Context, req model.VerifyPromotionRequest) (*model.VerifyPromotionResponse, error) {
	promo, err := s.Evaluate(ctx, req.Code, req.AmountCents)
	if err != nil {
		if reason, ok := invalidReason(err); ok {
			return &model.VerifyPromotionResponse{Valid: false, Message: reason}, err
		}
		return nil, err
	}

	return &model.VerifyPromotionResponse{
		Valid:           true,
		PromotionID:     promo.ID,
		DiscountPercent: promo.DiscountPercent,
	}, nil
}

func invalidReason(err error) (string, bool) {
	switch {
	case errors.Is(err, apperrors.ErrPromotionNotFound):
		return "not found", true
	case errors.Is(err, apperrors.ErrPromotionNotActive):
		return "not active", true
	case errors.Is(err, apperrors.ErrPromotionExpired):
		return "expired", true
	case errors.Is(err, apperrors.ErrPromotionMinAmount):
		return "minimum amount not reached", true
	case errors.Is(err, apperrors.ErrPromotionExhausted):
		return "usage limit reached", true
	}
	return "", false
}

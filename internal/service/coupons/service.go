package coupons

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	couponRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/coupon"
)

const entityCoupon = "coupon"

// maxCodeLength длина кода купона
const maxCodeLength = 32

// Service сервис купонов
type Service struct {
	repo         CouponRepository
	audit        AuditRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo CouponRepository, audit AuditRecorder, logger Logger) *Service {
	return &Service{repo: repo, audit: audit, timeProvider: realTimeProvider{}, logger: logger}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Validate проверяет купон для суммы и считает скидку
// Счетчик использований не меняется: купон списывается только при создании записи
func (s *Service) Validate(ctx context.Context, code string, amount float64) (*ValidateResponse, error) {
	code = couponRepo.NormalizeCode(code)
	if code == "" || amount < 0 {
		return nil, fmt.Errorf("%w: code and non-negative amount are required", ErrInvalidInput)
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			return nil, ErrCouponNotFound
		}
		s.logger.Error("Validate: repository error for coupon %q: %v", code, err)
		return nil, fmt.Errorf("%w: Validate - repository error: %v", ErrInternal, err)
	}

	if err := coupon.Check(amount, s.timeProvider.Now()); err != nil {
		s.logger.Info("Validate: coupon %q not applicable: %v", code, err)
		return nil, fmt.Errorf("%w: %v", ErrNotApplicable, err)
	}

	discount := coupon.Discount(amount)
	return &ValidateResponse{
		Code:        coupon.Code,
		Amount:      amount,
		Discount:    discount,
		FinalAmount: domain.Round2(amount - discount),
	}, nil
}

// Create создает купон
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	s.logger.Info("Create: coupon %q by user=%d", req.Code, req.ActorID)

	coupon := &domain.Coupon{
		Code:         couponRepo.NormalizeCode(req.Code),
		DiscountType: domain.DiscountType(req.DiscountType),
		Value:        req.Value,
		MinAmount:    req.MinAmount,
		MaxUses:      req.MaxUses,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
		Active:       true,
	}
	if coupon.Code == "" || len(coupon.Code) > maxCodeLength {
		return nil, fmt.Errorf("%w: code must be 1..%d characters", ErrInvalidInput, maxCodeLength)
	}
	if err := validate(coupon); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCodeTaken) {
			return nil, ErrCodeTaken
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	resp := fromDomain(created)
	s.audit.Record(ctx, req.ActorID, domain.AuditCreate, entityCoupon, &created.ID, resp)
	return &resp, nil
}

// List все купоны
func (s *Service) List(ctx context.Context) (*ListResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &ListResponse{Coupons: make([]Response, 0, len(list))}
	for _, c := range list {
		resp.Coupons = append(resp.Coupons, fromDomain(c))
	}
	return resp, nil
}

// Update меняет условия купона; код и счетчик использований не меняются
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*Response, error) {
	s.logger.Info("Update: coupon id=%d by user=%d", id, req.ActorID)

	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			return nil, ErrCouponNotFound
		}
		s.logger.Error("Update: repository error for coupon id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	req.applyTo(coupon)
	if err := validate(coupon); err != nil {
		s.logger.Warn("Update: validation failed for coupon id=%d: %v", id, err)
		return nil, err
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			return nil, ErrCouponNotFound
		}
		s.logger.Error("Update: repository error for coupon id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	resp := fromDomain(coupon)
	s.audit.Record(ctx, req.ActorID, domain.AuditUpdate, entityCoupon, &coupon.ID, resp)
	return &resp, nil
}

func validate(c *domain.Coupon) error {
	switch c.DiscountType {
	case domain.DiscountPercent:
		if c.Value <= 0 || c.Value > 100 {
			return fmt.Errorf("%w: percent value must be in (0, 100]", ErrInvalidInput)
		}
	case domain.DiscountFixed:
		if c.Value <= 0 {
			return fmt.Errorf("%w: fixed value must be positive", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: discountType must be percent or fixed", ErrInvalidInput)
	}

	if c.MinAmount < 0 {
		return fmt.Errorf("%w: minAmount must not be negative", ErrInvalidInput)
	}
	if c.MaxUses < 0 {
		return fmt.Errorf("%w: maxUses must not be negative", ErrInvalidInput)
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && !c.ValidFrom.Before(*c.ValidUntil) {
		return fmt.Errorf("%w: validFrom must be before validUntil", ErrInvalidInput)
	}
	return nil
}

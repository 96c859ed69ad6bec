package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

// AdminService купоны, заявки на роль и пользователи. Бэкенд проверяет права
// сам, локальная проверка только экономит запрос.
type AdminService struct {
	api   AdminAPI
	users CurrentUserProvider
	log   zerolog.Logger
}

func NewAdminService(api AdminAPI, users CurrentUserProvider, log zerolog.Logger) *AdminService {
	return &AdminService{api: api, users: users, log: log}
}

func (s *AdminService) requireAdmin() error {
	u := s.users.CurrentUser()
	if u == nil {
		return ErrNotAuthenticated
	}
	if u.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *AdminService) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.api.ListCoupons(ctx)
}

// CreateCoupon код приводится к верхнему регистру; все суммы и лимит > 0
func (s *AdminService) CreateCoupon(ctx context.Context, in backend.CouponInput) (*domain.Coupon, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Code == "" || !validCouponInput(in) {
		return nil, ErrInvalidInput
	}
	c, err := s.api.CreateCoupon(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Str("code", in.Code).Msg("create coupon failed")
		return nil, err
	}
	return c, nil
}

// UpdateCoupon код не меняется, передаются только суммы и лимит
func (s *AdminService) UpdateCoupon(ctx context.Context, id string, in backend.CouponInput) (*domain.Coupon, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	in.Code = ""
	if id == "" || !validCouponInput(in) {
		return nil, ErrInvalidInput
	}
	c, err := s.api.UpdateCoupon(ctx, id, in)
	if err != nil {
		s.log.Warn().Err(err).Str("coupon_id", id).Msg("update coupon failed")
		return nil, err
	}
	return c, nil
}

func (s *AdminService) DeleteCoupon(ctx context.Context, id string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidInput
	}
	return s.api.DeleteCoupon(ctx, id)
}

func (s *AdminService) PendingRoleRequests(ctx context.Context) ([]domain.RoleRequest, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.api.PendingRoleRequests(ctx)
}

// ResolveRoleRequest одобряет или отклоняет заявку
func (s *AdminService) ResolveRoleRequest(ctx context.Context, id string, approve bool) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidInput
	}
	var err error
	if approve {
		err = s.api.ApproveRoleRequest(ctx, id)
	} else {
		err = s.api.RejectRoleRequest(ctx, id)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", id).Bool("approve", approve).Msg("resolve role request failed")
	}
	return err
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.api.ListUsers(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.api.GetUser(ctx, id)
}

func validCouponInput(in backend.CouponInput) bool {
	return in.MinAmount.IsPositive() && in.DiscountAmount.IsPositive() && in.UsageLimit > 0
}

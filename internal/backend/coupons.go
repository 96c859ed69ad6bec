package backend

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

type ValidateCouponResponse struct {
	Valid          bool            `json:"valid"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

func (c *Client) ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*ValidateCouponResponse, error) {
	var out ValidateCouponResponse
	body := struct {
		Code       string          `json:"code"`
		OrderTotal decimal.Decimal `json:"orderTotal"`
	}{code, orderTotal}
	if err := c.do(ctx, http.MethodPost, "/coupons/validate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CouponInput тело создания и изменения купона
type CouponInput struct {
	Code           string          `json:"code,omitempty"`
	MinAmount      decimal.Decimal `json:"minAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	UsageLimit     int64           `json:"usageLimit"`
}

func (c *Client) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	var out []domain.Coupon
	if err := c.do(ctx, http.MethodGet, "/coupons", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCoupon(ctx context.Context, in CouponInput) (*domain.Coupon, error) {
	var out domain.Coupon
	if err := c.do(ctx, http.MethodPost, "/coupons", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCoupon(ctx context.Context, id string, in CouponInput) (*domain.Coupon, error) {
	var out domain.Coupon
	if err := c.do(ctx, http.MethodPut, pathf("/coupons/%s", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCoupon(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathf("/coupons/%s", id), nil, nil)
}

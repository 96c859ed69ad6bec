package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCart_AddAndTotal(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "5.99"), 1))
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "5.99"), 1))

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.True(t, f.cart.CartTotal().Equal(dec("11.98")), f.cart.CartTotal().String())
	assert.True(t, f.cart.DiscountAmount().IsZero())
	assert.True(t, f.cart.FinalTotal().Equal(dec("11.98")))
	assert.Equal(t, int64(2), f.cart.ItemCount())
}

func TestCart_AddNonPositiveQuantityCountsAsOne(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "1"), 0))
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "1"), -3))
	assert.Equal(t, int64(2), f.cart.Items()[0].Quantity)

	assert.ErrorIs(t, f.cart.AddToCart(ctx, domain.Medicine{}, 1), ErrInvalidInput)
}

func TestCart_UpdateQuantity(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "2"), 1))
	require.NoError(t, f.cart.AddToCart(ctx, med("m2", "p1", "3"), 1))

	f.cart.UpdateQuantity(ctx, "m2", 7)
	assert.Equal(t, int64(7), f.cart.Items()[1].Quantity)

	for _, q := range []int64{0, -1} {
		require.NoError(t, f.cart.AddToCart(ctx, med("m2", "p1", "3"), 1))
		f.cart.UpdateQuantity(ctx, "m2", q)
		assert.Len(t, f.cart.Items(), 1)
	}
	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].Medicine.ID)

	// unknown id is a no-op
	f.cart.RemoveFromCart(ctx, "nope")
	assert.Len(t, f.cart.Items(), 1)
}

func TestCart_ItemsIsSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "2"), 1))
	items := f.cart.Items()
	items[0].Quantity = 99
	assert.Equal(t, int64(1), f.cart.Items()[0].Quantity)
}

func TestCart_PersistsAfterLoad(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "2.50"), 3))

	restored := NewCartService(f.repo, f.api, f.cart.log)
	assert.Empty(t, restored.Items())
	require.NoError(t, restored.Load(ctx))
	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].Quantity)
	assert.True(t, restored.CartTotal().Equal(dec("7.5")))

	f.cart.ClearCart(ctx)
	require.NoError(t, restored.Load(ctx))
	assert.Empty(t, restored.Items())
}

func TestCart_NoWritesBeforeLoad(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "1"), 1))

	early := NewCartService(f.repo, f.api, f.cart.log)
	require.NoError(t, early.AddToCart(ctx, med("m9", "p1", "1"), 1))

	items, err := f.repo.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].Medicine.ID)
}

func TestCart_ApplyCoupon(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "20"), 1))

	var gotCode string
	var gotTotal decimal.Decimal
	f.api.validate = func(code string, total decimal.Decimal) (*backend.ValidateCouponResponse, error) {
		gotCode, gotTotal = code, total
		return &backend.ValidateCouponResponse{Valid: true, Code: code, DiscountAmount: dec("2.5")}, nil
	}

	res := f.cart.ApplyCoupon(ctx, "  save10 ")
	assert.Equal(t, ApplyResult{Success: true, Message: "-$2.50 discount applied"}, res)
	assert.Equal(t, "SAVE10", gotCode)
	assert.True(t, gotTotal.Equal(dec("20")))

	applied := f.cart.AppliedCoupon()
	require.NotNil(t, applied)
	assert.Equal(t, "SAVE10", applied.Code)
	assert.True(t, f.cart.FinalTotal().Equal(dec("17.5")))

	f.cart.RemoveCoupon()
	assert.Nil(t, f.cart.AppliedCoupon())
	assert.True(t, f.cart.FinalTotal().Equal(dec("20")))
}

func TestCart_ApplyCouponFailures(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res := f.cart.ApplyCoupon(ctx, "   ")
	assert.Equal(t, ApplyResult{Success: false, Message: "Invalid coupon"}, res)
	assert.Empty(t, f.api.Calls(), "blank code must not reach the backend")

	f.api.validate = func(string, decimal.Decimal) (*backend.ValidateCouponResponse, error) {
		return &backend.ValidateCouponResponse{Valid: false}, nil
	}
	assert.Equal(t, ApplyResult{Message: "Invalid coupon"}, f.cart.ApplyCoupon(ctx, "X"))

	f.api.validate = func(string, decimal.Decimal) (*backend.ValidateCouponResponse, error) {
		return nil, &backend.APIError{Status: http.StatusBadRequest, Message: "Minimum order amount is $50"}
	}
	assert.Equal(t, ApplyResult{Message: "Minimum order amount is $50"}, f.cart.ApplyCoupon(ctx, "X"))

	f.api.validate = func(string, decimal.Decimal) (*backend.ValidateCouponResponse, error) {
		return nil, &backend.NetworkError{Err: context.DeadlineExceeded}
	}
	assert.Equal(t, ApplyResult{Message: "Invalid coupon"}, f.cart.ApplyCoupon(ctx, "X"))
	assert.Nil(t, f.cart.AppliedCoupon())
}

func TestCart_DiscountCappedAtSubtotal(t *testing.T) {
	cases := []struct {
		name      string
		subtotal  string
		discount  string
		wantDisc  string
		wantTotal string
	}{
		{"coupon exceeds subtotal", "5", "10", "5", "0"},
		{"coupon below subtotal", "11.98", "2", "2", "9.98"},
		{"negative coupon clamps", "8", "-3", "0", "8"},
		{"equal", "10", "10", "10", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()
			require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", tc.subtotal), 1))
			f.api.validate = func(code string, _ decimal.Decimal) (*backend.ValidateCouponResponse, error) {
				return &backend.ValidateCouponResponse{Valid: true, Code: code, DiscountAmount: dec(tc.discount)}, nil
			}
			require.True(t, f.cart.ApplyCoupon(ctx, "C").Success)

			assert.True(t, f.cart.DiscountAmount().Equal(dec(tc.wantDisc)), f.cart.DiscountAmount().String())
			assert.True(t, f.cart.FinalTotal().Equal(dec(tc.wantTotal)), f.cart.FinalTotal().String())
			assert.False(t, f.cart.FinalTotal().IsNegative())
		})
	}
}

func TestCart_RejectsNegativePrice(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.ErrorIs(t, f.cart.AddToCart(ctx, med("m1", "p1", "-3"), 1), ErrInvalidInput)
	assert.Empty(t, f.cart.Items())
	assert.True(t, f.cart.FinalTotal().IsZero())
}

func TestCart_LoadDropsNegativePrices(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.repo.SaveItems(ctx, []domain.CartItem{
		{Medicine: med("m1", "p1", "-3"), Quantity: 1},
		{Medicine: med("m2", "p1", "2"), Quantity: 1},
	}))
	require.NoError(t, f.cart.Load(ctx))
	require.Len(t, f.cart.Items(), 1)
	assert.True(t, f.cart.FinalTotal().Equal(dec("2")))
}

// FinalTotal == max(0, S - min(D, S)) over a grid of carts and coupons
func TestCart_FinalTotalNeverNegative(t *testing.T) {
	prices := []string{"0", "0.01", "1.99", "5.99", "100"}
	quantities := []int64{1, 2, 7}
	discounts := []string{"-5", "0", "0.5", "10", "1000"}
	for _, p := range prices {
		for _, q := range quantities {
			for _, d := range discounts {
				f := newFixture(t, nil)
				ctx := context.Background()
				require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", p), q))
				f.api.validate = func(code string, _ decimal.Decimal) (*backend.ValidateCouponResponse, error) {
					return &backend.ValidateCouponResponse{Valid: true, Code: code, DiscountAmount: dec(d)}, nil
				}
				f.cart.ApplyCoupon(ctx, "C")

				sub := dec(p).Mul(decimal.NewFromInt(q))
				wantDisc := decimal.Zero
				if dec(d).IsPositive() && sub.IsPositive() {
					wantDisc = decimal.Min(dec(d), sub)
				}
				want := decimal.Max(decimal.Zero, sub.Sub(wantDisc))

				got := f.cart.FinalTotal()
				assert.False(t, got.IsNegative(), "p=%s q=%d d=%s", p, q, d)
				assert.False(t, f.cart.DiscountAmount().IsNegative(), "p=%s q=%d d=%s", p, q, d)
				assert.True(t, got.Equal(want), "p=%s q=%d d=%s got=%s want=%s", p, q, d, got, want)
			}
		}
	}
}

func TestCart_CouponCappedWhenCartShrinks(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "30"), 1))
	require.True(t, f.cart.ApplyCoupon(ctx, "TEN").Success)
	assert.True(t, f.cart.FinalTotal().Equal(dec("20")))

	f.cart.UpdateQuantity(ctx, "m1", 0)
	require.NoError(t, f.cart.AddToCart(ctx, med("m2", "p1", "4"), 1))
	assert.NotNil(t, f.cart.AppliedCoupon())
	assert.True(t, f.cart.DiscountAmount().Equal(dec("4")))
	assert.True(t, f.cart.FinalTotal().IsZero())
}

func TestCart_ClearDropsCoupon(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p1", "30"), 1))
	require.True(t, f.cart.ApplyCoupon(ctx, "TEN").Success)
	f.cart.ClearCart(ctx)
	assert.Empty(t, f.cart.Items())
	assert.Nil(t, f.cart.AppliedCoupon())
}

func TestCart_PharmacyIDsInOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.cart.AddToCart(ctx, med("m1", "p2", "1"), 1))
	require.NoError(t, f.cart.AddToCart(ctx, med("m2", "p1", "1"), 1))
	require.NoError(t, f.cart.AddToCart(ctx, med("m3", "p2", "1"), 1))
	assert.Equal(t, []string{"p2", "p1"}, f.cart.PharmacyIDs())
}

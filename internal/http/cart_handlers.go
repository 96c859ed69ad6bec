package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/service"
)

type cartView struct {
	Items       []domain.CartItem     `json:"items"`
	ItemCount   int64                 `json:"itemCount"`
	PharmacyIDs []string              `json:"pharmacyIds"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	Discount    decimal.Decimal       `json:"discount"`
	Total       decimal.Decimal       `json:"total"`
	Coupon      *domain.AppliedCoupon `json:"coupon"`
}

func (s *Server) cartView() cartView {
	items := s.cart.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartView{
		Items:       items,
		ItemCount:   s.cart.ItemCount(),
		PharmacyIDs: s.cart.PharmacyIDs(),
		Subtotal:    s.cart.CartTotal(),
		Discount:    s.cart.DiscountAmount(),
		Total:       s.cart.FinalTotal(),
		Coupon:      s.cart.AppliedCoupon(),
	}
}

// @Summary Get cart with totals
// @Tags cart
// @Produce json
// @Success 200 {object} cartView
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.cartView())
}

// @Summary Clear cart and coupon
// @Tags cart
// @Success 204
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	s.cart.ClearCart(c)
	c.Status(http.StatusNoContent)
}

type addItemReq struct {
	Medicine domain.Medicine `json:"medicine"`
	Quantity int64           `json:"quantity"`
}

// @Summary Add medicine to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param input body addItemReq true "Item"
// @Success 200 {object} cartView
// @Failure 400 {object} map[string]string
// @Router /cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	if err := s.cart.AddToCart(c, req.Medicine, req.Quantity); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView())
}

type updateItemReq struct {
	Quantity int64 `json:"quantity"`
}

// @Summary Set item quantity, zero or less removes it
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "Medicine ID"
// @Param input body updateItemReq true "Quantity"
// @Success 200 {object} cartView
// @Router /cart/items/{id} [put]
func (s *Server) updateCartItem(c *gin.Context) {
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	s.cart.UpdateQuantity(c, c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, s.cartView())
}

// @Summary Remove item
// @Tags cart
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 200 {object} cartView
// @Router /cart/items/{id} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	s.cart.RemoveFromCart(c, c.Param("id"))
	c.JSON(http.StatusOK, s.cartView())
}

type couponReq struct {
	Code string `json:"code"`
}

type applyCouponResp struct {
	service.ApplyResult
	Cart cartView `json:"cart"`
}

// @Summary Apply coupon
// @Description Failure is reported in the body with success=false, not by status code.
// @Tags cart
// @Accept json
// @Produce json
// @Param input body couponReq true "Coupon"
// @Success 200 {object} applyCouponResp
// @Router /cart/coupon [post]
func (s *Server) applyCoupon(c *gin.Context) {
	var req couponReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	res := s.cart.ApplyCoupon(c, req.Code)
	c.JSON(http.StatusOK, applyCouponResp{ApplyResult: res, Cart: s.cartView()})
}

// @Summary Remove coupon
// @Tags cart
// @Produce json
// @Success 200 {object} cartView
// @Router /cart/coupon [delete]
func (s *Server) removeCoupon(c *gin.Context) {
	s.cart.RemoveCoupon()
	c.JSON(http.StatusOK, s.cartView())
}

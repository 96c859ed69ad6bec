package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
)

// @Summary List coupons
// @Tags admin
// @Produce json
// @Success 200 {array} domain.Coupon
// @Failure 403 {object} map[string]string
// @Router /admin/coupons [get]
func (s *Server) listCoupons(c *gin.Context) {
	list, err := s.admin.ListCoupons(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create coupon
// @Tags admin
// @Accept json
// @Produce json
// @Param input body backend.CouponInput true "Coupon"
// @Success 201 {object} domain.Coupon
// @Failure 400 {object} map[string]string
// @Router /admin/coupons [post]
func (s *Server) createCoupon(c *gin.Context) {
	var req backend.CouponInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	cp, err := s.admin.CreateCoupon(c, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cp)
}

// @Summary Update coupon
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param input body backend.CouponInput true "Coupon"
// @Success 200 {object} domain.Coupon
// @Failure 400 {object} map[string]string
// @Router /admin/coupons/{id} [put]
func (s *Server) updateCoupon(c *gin.Context) {
	var req backend.CouponInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	cp, err := s.admin.UpdateCoupon(c, c.Param("id"), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cp)
}

// @Summary Delete coupon
// @Tags admin
// @Param id path string true "Coupon ID"
// @Success 204
// @Router /admin/coupons/{id} [delete]
func (s *Server) deleteCoupon(c *gin.Context) {
	if err := s.admin.DeleteCoupon(c, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Pending role requests
// @Tags admin
// @Produce json
// @Success 200 {array} domain.RoleRequest
// @Router /admin/role-requests [get]
func (s *Server) listRoleRequests(c *gin.Context) {
	list, err := s.admin.PendingRoleRequests(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Approve role request
// @Tags admin
// @Param id path string true "Request ID"
// @Success 204
// @Router /admin/role-requests/{id}/approve [post]
func (s *Server) approveRoleRequest(c *gin.Context) {
	s.resolveRoleRequest(c, true)
}

// @Summary Reject role request
// @Tags admin
// @Param id path string true "Request ID"
// @Success 204
// @Router /admin/role-requests/{id}/reject [post]
func (s *Server) rejectRoleRequest(c *gin.Context) {
	s.resolveRoleRequest(c, false)
}

func (s *Server) resolveRoleRequest(c *gin.Context, approve bool) {
	if err := s.admin.ResolveRoleRequest(c, c.Param("id"), approve); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {array} domain.User
// @Router /admin/users [get]
func (s *Server) listUsers(c *gin.Context) {
	list, err := s.admin.ListUsers(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} domain.User
// @Router /admin/users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	u, err := s.admin.GetUser(c, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

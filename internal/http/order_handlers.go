package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/payment"
)

// @Summary List cached orders
// @Description Filters are applied to the local cache; use /orders/refresh to reload from the backend.
// @Tags orders
// @Produce json
// @Param customerId query string false "Customer ID"
// @Param pharmacyId query string false "Pharmacy ID"
// @Param deliveryPersonId query string false "Delivery person ID"
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	var list []domain.Order
	switch {
	case c.Query("customerId") != "":
		list = s.orders.OrdersByCustomer(c.Query("customerId"))
	case c.Query("pharmacyId") != "":
		list = s.orders.OrdersByPharmacy(c.Query("pharmacyId"))
	case c.Query("deliveryPersonId") != "":
		list = s.orders.OrdersByDeliveryPerson(c.Query("deliveryPersonId"))
	default:
		list = s.orders.Orders()
	}
	if list == nil {
		list = []domain.Order{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Reload orders visible to the current role
// @Tags orders
// @Produce json
// @Success 200 {array} domain.Order
// @Failure 401 {object} map[string]string
// @Router /orders/refresh [post]
func (s *Server) refreshOrders(c *gin.Context) {
	list, err := s.orders.RefreshOrders(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []domain.Order{}
	}
	c.JSON(http.StatusOK, list)
}

// пустой адрес заменяется адресом из профиля
type placeOrderReq struct {
	DeliveryAddress string `json:"deliveryAddress"`
}

// @Summary Place order from cart
// @Tags orders
// @Accept json
// @Produce json
// @Param input body placeOrderReq true "Delivery"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /orders [post]
func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.orders.PlaceOrder(c, req.DeliveryAddress)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

type placeCardOrderReq struct {
	DeliveryAddress string       `json:"deliveryAddress"`
	Card            payment.Card `json:"card"`
}

// @Summary Place order with simulated card payment
// @Description The card is only validated; the order is always cash on delivery.
// @Tags orders
// @Accept json
// @Produce json
// @Param input body placeCardOrderReq true "Delivery and card"
// @Success 201 {object} service.Checkout
// @Failure 400 {object} map[string]string
// @Router /orders/card [post]
func (s *Server) placeOrderWithCard(c *gin.Context) {
	var req placeCardOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	co, err := s.orders.PlaceOrderWithCard(c, req.DeliveryAddress, req.Card)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, co)
}

// @Summary Get cached order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.OrderByID(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateStatusReq struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "Status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.orders.UpdateOrderStatus(c, c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type assignDeliveryReq struct {
	DeliveryPersonID string `json:"deliveryPersonId" binding:"required"`
}

// @Summary Assign delivery person
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body assignDeliveryReq true "Delivery person"
// @Success 200 {object} domain.Order
// @Failure 403 {object} map[string]string
// @Router /orders/{id}/assign-delivery [put]
func (s *Server) assignDelivery(c *gin.Context) {
	var req assignDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.orders.AssignDeliveryPerson(c, c.Param("id"), req.DeliveryPersonID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type instructionsReq struct {
	Instructions []domain.Instruction `json:"instructions"`
}

// @Summary Replace delivery instructions
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body instructionsReq true "Instructions"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /orders/{id}/instructions [post]
func (s *Server) setInstructions(c *gin.Context) {
	var req instructionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.orders.SetInstructions(c, c.Param("id"), req.Instructions)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

package backend

import (
	"context"
	"net/http"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

type OrderLine struct {
	MedicineID string `json:"medicineId"`
	Quantity   int64  `json:"quantity"`
}

// CreateOrderRequest тело POST /orders
type CreateOrderRequest struct {
	PharmacyID      string      `json:"pharmacyId"`
	Items           []OrderLine `json:"items"`
	DeliveryAddress string      `json:"deliveryAddress"`
	CouponCode      string      `json:"couponCode,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	var o domain.Order
	body := map[string]domain.OrderStatus{"status": status}
	if err := c.do(ctx, http.MethodPut, pathf("/orders/%s/status", orderID), body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) AssignDelivery(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error) {
	var o domain.Order
	body := map[string]string{"deliveryPersonId": deliveryPersonID}
	if err := c.do(ctx, http.MethodPut, pathf("/orders/%s/assign-delivery", orderID), body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) SetInstructions(ctx context.Context, orderID string, instructions []domain.Instruction) (*domain.Order, error) {
	var o domain.Order
	body := map[string][]domain.Instruction{"instructions": instructions}
	if err := c.do(ctx, http.MethodPost, pathf("/orders/instructions/%s", orderID), body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) listOrders(ctx context.Context, path string) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyOrders заказы текущего покупателя
func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	return c.listOrders(ctx, "/orders/myorders")
}

// MyDeliveries заказы, назначенные текущему курьеру
func (c *Client) MyDeliveries(ctx context.Context) ([]domain.Order, error) {
	return c.listOrders(ctx, "/orders/mydeliveries")
}

func (c *Client) PharmacyOrders(ctx context.Context, pharmacyID string) ([]domain.Order, error) {
	return c.listOrders(ctx, pathf("/orders/pharmacy/%s", pharmacyID))
}

// AllOrders только для админа
func (c *Client) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return c.listOrders(ctx, "/orders")
}

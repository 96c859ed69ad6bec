package domain

import "errors"

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPacking   OrderStatus = "packing"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
)

// ErrInvalidTransition переход статуса запрещён (назад или не той ролью)
var ErrInvalidTransition = errors.New("invalid status transition")

func (s OrderStatus) rank() int {
	switch s {
	case OrderStatusPacking:
		return 1
	case OrderStatusOnTheWay:
		return 2
	case OrderStatusDelivered:
		return 3
	}
	return 0
}

// Valid сообщает, является ли статус одним из известных
func (s OrderStatus) Valid() bool { return s.rank() > 0 }

// CanTransitionTo разрешает только движение вперёд или повтор того же статуса
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

// Next следующий статус; для delivered возвращает false
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderStatusPacking:
		return OrderStatusOnTheWay, true
	case OrderStatusOnTheWay:
		return OrderStatusDelivered, true
	}
	return "", false
}

// CanSetStatus проверяет, может ли роль выставить статус to.
// from пустой, если текущий статус неизвестен (заказа нет в кэше).
func CanSetStatus(role Role, from, to OrderStatus) error {
	if !to.Valid() {
		return ErrInvalidTransition
	}
	if from != "" && !from.CanTransitionTo(to) {
		return ErrInvalidTransition
	}
	switch role {
	case RoleAdmin:
		return nil
	case RolePharmacyOwner:
		if to == OrderStatusPacking || to == OrderStatusOnTheWay {
			return nil
		}
	case RoleDeliveryPerson:
		if to != OrderStatusDelivered {
			return ErrInvalidTransition
		}
		if from == "" || from == OrderStatusOnTheWay || from == OrderStatusDelivered {
			return nil
		}
	}
	return ErrInvalidTransition
}

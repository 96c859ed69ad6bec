package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

// ErrNotFound возвращается, когда ключа или сущности нет
var ErrNotFound = errors.New("not found")

// Ключи локального хранилища
const (
	KeyCart      = "@pharmacy_plus_cart"
	KeyOrders    = "@pharmacy_plus_orders"
	KeyAuthUser  = "@pharmacy_plus_auth"
	KeyAuthToken = "@pharmacy_plus_jwt_token"
)

// Store долговременное key-value хранилище клиента. Это кэш, а не источник истины.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CartRepository сохраняет позиции корзины
type CartRepository interface {
	LoadItems(ctx context.Context) ([]domain.CartItem, error)
	SaveItems(ctx context.Context, items []domain.CartItem) error
}

// OrderCacheRepository сохраняет локальную копию заказов
type OrderCacheRepository interface {
	LoadOrders(ctx context.Context) ([]domain.Order, error)
	SaveOrders(ctx context.Context, orders []domain.Order) error
}

// AuthRepository сохраняет текущего пользователя и токен
type AuthRepository interface {
	LoadAuth(ctx context.Context) (*domain.User, string, error)
	SaveAuth(ctx context.Context, user *domain.User, token string) error
}

// MedicineFilter параметры фильтрации каталога
type MedicineFilter struct {
	NameSubstring string
	Category      string
	PharmacyID    string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
}

// Match применяет фильтр к одному товару. PharmacyID выбирает эндпоинт
// и здесь не проверяется.
func (f MedicineFilter) Match(m domain.Medicine) bool {
	if !containsIgnoreCase(m.Name, f.NameSubstring) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(m.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && m.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && m.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

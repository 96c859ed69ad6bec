package repository

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

// KVRepository реализует репозитории корзины, заказов и сессии поверх Store.
// Значения хранятся в JSON.
type KVRepository struct {
	store Store
}

func NewKVRepository(store Store) *KVRepository {
	return &KVRepository{store: store}
}

// Ensure interfaces
var (
	_ CartRepository       = (*KVRepository)(nil)
	_ OrderCacheRepository = (*KVRepository)(nil)
	_ AuthRepository       = (*KVRepository)(nil)
)

func (r *KVRepository) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errors.Wrapf(err, "decode %s", key)
	}
	return true, nil
}

func (r *KVRepository) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return r.store.Set(ctx, key, raw)
}

func (r *KVRepository) LoadItems(ctx context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if _, err := r.getJSON(ctx, KeyCart, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *KVRepository) SaveItems(ctx context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	return r.setJSON(ctx, KeyCart, items)
}

func (r *KVRepository) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if _, err := r.getJSON(ctx, KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *KVRepository) SaveOrders(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	return r.setJSON(ctx, KeyOrders, orders)
}

// LoadAuth возвращает nil-пользователя и пустой токен, если сессии нет
func (r *KVRepository) LoadAuth(ctx context.Context) (*domain.User, string, error) {
	var user domain.User
	found, err := r.getJSON(ctx, KeyAuthUser, &user)
	if err != nil {
		return nil, "", err
	}
	var token string
	if _, err := r.getJSON(ctx, KeyAuthToken, &token); err != nil {
		return nil, "", err
	}
	if !found {
		return nil, token, nil
	}
	return &user, token, nil
}

// SaveAuth nil-пользователь или пустой токен удаляют соответствующий ключ
func (r *KVRepository) SaveAuth(ctx context.Context, user *domain.User, token string) error {
	if user != nil {
		if err := r.setJSON(ctx, KeyAuthUser, user); err != nil {
			return err
		}
	} else if err := r.store.Delete(ctx, KeyAuthUser); err != nil {
		return err
	}
	if token != "" {
		return r.setJSON(ctx, KeyAuthToken, token)
	}
	return r.store.Delete(ctx, KeyAuthToken)
}

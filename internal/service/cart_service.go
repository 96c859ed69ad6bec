package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
)

const invalidCouponMessage = "Invalid coupon"

// ApplyResult итог применения купона для показа пользователю
type ApplyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CartService корзина и применённый купон. Позиции сохраняются в хранилище
// после каждого изменения, купон живёт только в памяти.
type CartService struct {
	mu      sync.RWMutex
	items   []domain.CartItem
	coupon  *domain.AppliedCoupon
	loaded  bool
	repo    repository.CartRepository
	coupons CouponValidator
	log     zerolog.Logger
}

func NewCartService(repo repository.CartRepository, coupons CouponValidator, log zerolog.Logger) *CartService {
	return &CartService{repo: repo, coupons: coupons, log: log}
}

// Load читает корзину из хранилища. До него изменения не сохраняются,
// чтобы не затереть сохранённую корзину пустой.
func (s *CartService) Load(ctx context.Context) error {
	items, err := s.repo.LoadItems(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	if err != nil {
		return errors.Wrap(err, "load cart")
	}
	s.items = normalizeItems(items)
	return nil
}

// drop zero quantities, negative prices and duplicate ids left by older writers
func normalizeItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity < 1 || it.Medicine.ID == "" || it.Medicine.Price.IsNegative() {
			continue
		}
		if i, ok := seen[it.Medicine.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		seen[it.Medicine.ID] = len(out)
		out = append(out, it)
	}
	return out
}

// AddToCart добавляет товар или увеличивает количество; quantity < 1 считается за 1
func (s *CartService) AddToCart(ctx context.Context, m domain.Medicine, quantity int64) error {
	if m.ID == "" || m.Price.IsNegative() {
		return ErrInvalidInput
	}
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(m.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.CartItem{Medicine: m, Quantity: quantity})
	}
	s.persistLocked(ctx)
	return nil
}

// UpdateQuantity ставит количество; quantity <= 0 удаляет позицию
func (s *CartService) UpdateQuantity(ctx context.Context, medicineID string, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(medicineID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	} else {
		s.items[i].Quantity = quantity
	}
	s.persistLocked(ctx)
}

func (s *CartService) RemoveFromCart(ctx context.Context, medicineID string) {
	s.UpdateQuantity(ctx, medicineID, 0)
}

// ClearCart очищает позиции и снимает купон
func (s *CartService) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.coupon = nil
	s.persistLocked(ctx)
}

func (s *CartService) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CartItem(nil), s.items...)
}

// ItemCount сумма количеств по всем позициям
func (s *CartService) ItemCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *CartService) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return subtotal(s.items)
}

// PharmacyIDs различные аптеки в порядке появления
func (s *CartService) PharmacyIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pharmacyIDs(s.items)
}

// ApplyCoupon проверяет код на бэкенде для текущей суммы корзины.
// Ошибки не возвращаются: результат всегда пригоден для показа.
func (s *CartService) ApplyCoupon(ctx context.Context, code string) ApplyResult {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ApplyResult{Success: false, Message: invalidCouponMessage}
	}
	total := s.CartTotal()

	res, err := s.coupons.ValidateCoupon(ctx, code, total)
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("coupon validation failed")
		return ApplyResult{Success: false, Message: backend.Message(err, invalidCouponMessage)}
	}
	if res == nil || !res.Valid {
		return ApplyResult{Success: false, Message: invalidCouponMessage}
	}

	applied := domain.AppliedCoupon{Code: code, DiscountAmount: res.DiscountAmount}
	if res.Code != "" {
		applied.Code = strings.ToUpper(res.Code)
	}
	s.mu.Lock()
	s.coupon = &applied
	s.mu.Unlock()
	return ApplyResult{
		Success: true,
		Message: fmt.Sprintf("-$%s discount applied", applied.DiscountAmount.StringFixed(2)),
	}
}

func (s *CartService) RemoveCoupon() {
	s.mu.Lock()
	s.coupon = nil
	s.mu.Unlock()
}

// AppliedCoupon копия купона или nil
func (s *CartService) AppliedCoupon() *domain.AppliedCoupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.coupon == nil {
		return nil
	}
	cp := *s.coupon
	return &cp
}

// DiscountAmount скидка ограничена суммой корзины и не бывает отрицательной
func (s *CartService) DiscountAmount() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return discount(s.coupon, subtotal(s.items))
}

func (s *CartService) FinalTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub := subtotal(s.items)
	return decimal.Max(decimal.Zero, sub.Sub(discount(s.coupon, sub)))
}

// cartSnapshot состояние корзины на момент оформления заказа
type cartSnapshot struct {
	items  []domain.CartItem
	coupon *domain.AppliedCoupon
}

func (s *CartService) snapshot() cartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := cartSnapshot{items: append([]domain.CartItem(nil), s.items...)}
	if s.coupon != nil {
		cp := *s.coupon
		snap.coupon = &cp
	}
	return snap
}

func (s *CartService) indexOf(medicineID string) int {
	for i, it := range s.items {
		if it.Medicine.ID == medicineID {
			return i
		}
	}
	return -1
}

// persistLocked вызывается под s.mu, чтобы записи шли в порядке изменений
func (s *CartService) persistLocked(ctx context.Context) {
	if !s.loaded {
		return
	}
	if err := s.repo.SaveItems(ctx, s.items); err != nil {
		s.log.Error().Err(err).Int("items", len(s.items)).Msg("persist cart")
	}
}

func subtotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func discount(c *domain.AppliedCoupon, sub decimal.Decimal) decimal.Decimal {
	if c == nil || !c.DiscountAmount.IsPositive() || !sub.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(c.DiscountAmount, sub)
}

func pharmacyIDs(items []domain.CartItem) []string {
	var out []string
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		id := it.Medicine.PharmacyID.ID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

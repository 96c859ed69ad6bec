package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/payment"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
)

// PaymentMethodCOD единственный реальный способ оплаты
const PaymentMethodCOD = "cod"

// Checkout результат оформления с картой: заказ всегда оформлен как COD
type Checkout struct {
	Order         *domain.Order  `json:"order"`
	PaymentMethod string         `json:"paymentMethod"`
	Card          payment.Result `json:"card"`
}

// OrderService реализует логику заказов: оформление из корзины, смена статуса,
// назначение курьера, указания и локальный кэш заказов
type OrderService struct {
	mu      sync.RWMutex
	orders  []domain.Order
	loaded  bool
	repo    repository.OrderCacheRepository
	api     OrderAPI
	cart    *CartService
	users   CurrentUserProvider
	log     zerolog.Logger
	now     func() time.Time
	pending sync.Mutex // one placement at a time
}

func NewOrderService(repo repository.OrderCacheRepository, api OrderAPI, cart *CartService, users CurrentUserProvider, log zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, api: api, cart: cart, users: users, log: log, now: time.Now}
}

func (s *OrderService) Load(ctx context.Context) error {
	orders, err := s.repo.LoadOrders(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	if err != nil {
		return errors.Wrap(err, "load orders")
	}
	s.orders = orders
	return nil
}

// PlaceOrder оформляет заказ из корзины. Все локальные проверки выполняются
// до сетевого вызова; при ошибке корзина и купон не меняются.
// Пустой адрес заменяется адресом из профиля.
func (s *OrderService) PlaceOrder(ctx context.Context, deliveryAddress string) (*domain.Order, error) {
	s.pending.Lock()
	defer s.pending.Unlock()

	u := s.users.CurrentUser()
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	snap := s.cart.snapshot()
	if len(snap.items) == 0 {
		return nil, ErrEmptyCart
	}
	deliveryAddress = strings.TrimSpace(deliveryAddress)
	if deliveryAddress == "" {
		deliveryAddress = strings.TrimSpace(u.Address)
	}
	if deliveryAddress == "" {
		return nil, ErrInvalidInput
	}
	pharmacies := pharmacyIDs(snap.items)
	if len(pharmacies) != 1 || pharmacies[0] == "" {
		return nil, ErrMixedPharmacy
	}

	req := backend.CreateOrderRequest{
		PharmacyID:      pharmacies[0],
		Items:           make([]backend.OrderLine, 0, len(snap.items)),
		DeliveryAddress: deliveryAddress,
	}
	for _, it := range snap.items {
		req.Items = append(req.Items, backend.OrderLine{MedicineID: it.Medicine.ID, Quantity: it.Quantity})
	}
	if snap.coupon != nil {
		req.CouponCode = snap.coupon.Code
	}

	created, err := s.api.CreateOrder(ctx, req)
	if err == nil {
		err = checkReturned(created)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("pharmacy_id", req.PharmacyID).Int("items", len(req.Items)).Msg("create order failed")
		return nil, err
	}

	s.mu.Lock()
	s.orders = append([]domain.Order{*created}, s.orders...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.cart.ClearCart(ctx)
	s.log.Info().Str("order_id", created.ID).Str("pharmacy_id", req.PharmacyID).Msg("order placed")
	out := *created
	return &out, nil
}

// PlaceOrderWithCard прогоняет симуляцию оплаты картой и всегда оформляет
// заказ с оплатой при получении
func (s *OrderService) PlaceOrderWithCard(ctx context.Context, deliveryAddress string, card payment.Card) (*Checkout, error) {
	res := payment.Simulate(card, s.now())
	s.log.Info().Bool("approved", res.Approved).Str("card", card.Masked()).Str("message", res.Message).Msg("card payment simulated")
	o, err := s.PlaceOrder(ctx, deliveryAddress)
	if err != nil {
		return nil, err
	}
	return &Checkout{Order: o, PaymentMethod: PaymentMethodCOD, Card: res}, nil
}

// UpdateOrderStatus меняет статус с проверкой роли и направления перехода.
// Отказ бэкенда возвращается как ошибка, кэш при этом не меняется.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	u := s.users.CurrentUser()
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	if orderID == "" || !status.Valid() {
		return nil, ErrInvalidInput
	}
	if u.Role == domain.RoleCustomer {
		return nil, ErrForbidden
	}

	var from domain.OrderStatus
	if cached, ok := s.cached(orderID); ok {
		from = cached.Status
		if u.Role == domain.RoleDeliveryPerson && !cached.DeliveryPersonID.IsZero() && cached.DeliveryPersonID.ID != u.ID {
			return nil, ErrNotAssigned
		}
	}
	if err := domain.CanSetStatus(u.Role, from, status); err != nil {
		return nil, errors.Wrapf(err, "%s -> %s as %s", from, status, u.Role)
	}

	updated, err := s.api.UpdateOrderStatus(ctx, orderID, status)
	if err == nil {
		err = checkReturned(updated)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Str("status", string(status)).Msg("update order status failed")
		return nil, err
	}
	s.replace(ctx, *updated)
	return updated, nil
}

// AssignDeliveryPerson назначает курьера; доступно аптеке и админу
func (s *OrderService) AssignDeliveryPerson(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error) {
	if err := s.requireRole(domain.RoleAdmin, domain.RolePharmacyOwner); err != nil {
		return nil, err
	}
	if orderID == "" || strings.TrimSpace(deliveryPersonID) == "" {
		return nil, ErrInvalidInput
	}
	updated, err := s.api.AssignDelivery(ctx, orderID, strings.TrimSpace(deliveryPersonID))
	if err == nil {
		err = checkReturned(updated)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("assign delivery failed")
		return nil, err
	}
	s.replace(ctx, *updated)
	return updated, nil
}

// SetInstructions заменяет указания курьеру. Пустая иконка становится "info".
func (s *OrderService) SetInstructions(ctx context.Context, orderID string, instructions []domain.Instruction) (*domain.Order, error) {
	if err := s.requireRole(domain.RoleAdmin, domain.RolePharmacyOwner); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, ErrInvalidInput
	}
	clean := make([]domain.Instruction, 0, len(instructions))
	for _, in := range instructions {
		in.Text = strings.TrimSpace(in.Text)
		if in.Text == "" || !in.Priority.Valid() {
			return nil, ErrInvalidInput
		}
		if in.Icon == "" {
			in.Icon = domain.DefaultInstructionIcon
		}
		clean = append(clean, in)
	}
	updated, err := s.api.SetInstructions(ctx, orderID, clean)
	if err == nil {
		err = checkReturned(updated)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("set instructions failed")
		return nil, err
	}
	s.replace(ctx, *updated)
	return updated, nil
}

// RefreshOrders загружает заказы, видимые текущей роли, и заменяет кэш
func (s *OrderService) RefreshOrders(ctx context.Context) ([]domain.Order, error) {
	u := s.users.CurrentUser()
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	var (
		orders []domain.Order
		err    error
	)
	switch u.Role {
	case domain.RoleCustomer:
		orders, err = s.api.MyOrders(ctx)
	case domain.RoleDeliveryPerson:
		orders, err = s.api.MyDeliveries(ctx)
	case domain.RoleAdmin:
		orders, err = s.api.AllOrders(ctx)
	case domain.RolePharmacyOwner:
		orders, err = s.ownerOrders(ctx, u.ID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		s.log.Warn().Err(err).Str("role", string(u.Role)).Msg("refresh orders failed")
		return nil, err
	}

	s.mu.Lock()
	s.orders = orders
	s.persistLocked(ctx)
	s.mu.Unlock()
	return append([]domain.Order(nil), orders...), nil
}

// ownerOrders заказы всех аптек владельца, запросы идут параллельно
func (s *OrderService) ownerOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	pharmacies, err := s.api.ListPharmacies(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	perPharmacy := make([][]domain.Order, len(pharmacies))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pharmacies {
		g.Go(func() error {
			list, err := s.api.PharmacyOrders(gctx, p.ID)
			if err != nil {
				return errors.Wrapf(err, "pharmacy %s", p.ID)
			}
			perPharmacy[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []domain.Order
	for _, list := range perPharmacy {
		out = append(out, list...)
	}
	return out, nil
}

// Orders копия кэша, новые заказы первыми
func (s *OrderService) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Order(nil), s.orders...)
}

func (s *OrderService) OrderByID(id string) (*domain.Order, error) {
	o, ok := s.cached(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (s *OrderService) OrdersByCustomer(customerID string) []domain.Order {
	return s.filter(func(o domain.Order) bool { return o.CustomerID.ID == customerID })
}

func (s *OrderService) OrdersByPharmacy(pharmacyID string) []domain.Order {
	return s.filter(func(o domain.Order) bool { return o.PharmacyID.ID == pharmacyID })
}

func (s *OrderService) OrdersByDeliveryPerson(deliveryPersonID string) []domain.Order {
	return s.filter(func(o domain.Order) bool { return o.DeliveryPersonID.ID == deliveryPersonID })
}

func (s *OrderService) filter(keep func(domain.Order) bool) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func (s *OrderService) cached(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

// replace обновляет закэшированную копию; незакэшированные заказы не добавляются
func (s *OrderService) replace(ctx context.Context, o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			s.orders[i] = o
			s.persistLocked(ctx)
			return
		}
	}
}

// checkReturned отбрасывает ответ без документа заказа
func checkReturned(o *domain.Order) error {
	if o == nil || o.ID == "" {
		return errors.Wrap(backend.ErrEmptyResponse, "order without id")
	}
	return nil
}

func (s *OrderService) requireRole(roles ...domain.Role) error {
	u := s.users.CurrentUser()
	if u == nil {
		return ErrNotAuthenticated
	}
	for _, r := range roles {
		if u.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

func (s *OrderService) persistLocked(ctx context.Context) {
	if !s.loaded {
		return
	}
	if err := s.repo.SaveOrders(ctx, s.orders); err != nil {
		s.log.Error().Err(err).Int("orders", len(s.orders)).Msg("persist orders")
	}
}

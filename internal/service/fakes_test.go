package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
)

// fakeAPI records calls and answers from the configured fields.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	validate    func(code string, total decimal.Decimal) (*backend.ValidateCouponResponse, error)
	createOrder func(req backend.CreateOrderRequest) (*domain.Order, error)
	updateErr   error
	emptyUpdate bool
	auth        *backend.AuthResponse
	authErr     error
	orders      map[string][]domain.Order // keyed by list endpoint or pharmacy id
	pharmacies  []domain.Pharmacy
	medicines   []domain.Medicine
	coupons     []domain.Coupon
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ValidateCoupon(_ context.Context, code string, total decimal.Decimal) (*backend.ValidateCouponResponse, error) {
	f.record("ValidateCoupon")
	return f.validate(code, total)
}

func (f *fakeAPI) Login(context.Context, string, string) (*backend.AuthResponse, error) {
	f.record("Login")
	return f.auth, f.authErr
}

func (f *fakeAPI) Register(context.Context, backend.RegisterRequest) (*backend.AuthResponse, error) {
	f.record("Register")
	return f.auth, f.authErr
}

func (f *fakeAPI) Logout(context.Context) error {
	f.record("Logout")
	return f.authErr
}

func (f *fakeAPI) UpdateProfile(context.Context, backend.ProfileUpdate) (*backend.AuthResponse, error) {
	f.record("UpdateProfile")
	return f.auth, f.authErr
}

func (f *fakeAPI) RequestRole(context.Context, domain.Role) error {
	f.record("RequestRole")
	return f.authErr
}

func (f *fakeAPI) CreateOrder(_ context.Context, req backend.CreateOrderRequest) (*domain.Order, error) {
	f.record("CreateOrder")
	return f.createOrder(req)
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	f.record("UpdateOrderStatus")
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.emptyUpdate {
		return &domain.Order{}, nil
	}
	return &domain.Order{ID: id, Status: status}, nil
}

func (f *fakeAPI) AssignDelivery(_ context.Context, id, dp string) (*domain.Order, error) {
	f.record("AssignDelivery")
	return &domain.Order{ID: id, Status: domain.OrderStatusPacking, DeliveryPersonID: domain.RefTo[domain.User](dp)}, nil
}

func (f *fakeAPI) SetInstructions(_ context.Context, id string, in []domain.Instruction) (*domain.Order, error) {
	f.record("SetInstructions")
	return &domain.Order{ID: id, Status: domain.OrderStatusPacking, Instructions: in}, nil
}

func (f *fakeAPI) MyOrders(context.Context) ([]domain.Order, error) {
	f.record("MyOrders")
	return f.orders["my"], nil
}

func (f *fakeAPI) MyDeliveries(context.Context) ([]domain.Order, error) {
	f.record("MyDeliveries")
	return f.orders["deliveries"], nil
}

func (f *fakeAPI) PharmacyOrders(_ context.Context, id string) ([]domain.Order, error) {
	f.record("PharmacyOrders")
	return f.orders[id], nil
}

func (f *fakeAPI) AllOrders(context.Context) ([]domain.Order, error) {
	f.record("AllOrders")
	return f.orders["all"], nil
}

func (f *fakeAPI) ListPharmacies(context.Context, string) ([]domain.Pharmacy, error) {
	f.record("ListPharmacies")
	return f.pharmacies, nil
}

func (f *fakeAPI) ListMedicines(context.Context) ([]domain.Medicine, error) {
	f.record("ListMedicines")
	return f.medicines, nil
}

func (f *fakeAPI) PharmacyMedicines(_ context.Context, id string) ([]domain.Medicine, error) {
	f.record("PharmacyMedicines")
	var out []domain.Medicine
	for _, m := range f.medicines {
		if m.PharmacyID.ID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeAPI) DeleteMedicine(context.Context, string) error {
	f.record("DeleteMedicine")
	return nil
}

func (f *fakeAPI) ListCoupons(context.Context) ([]domain.Coupon, error) {
	f.record("ListCoupons")
	return f.coupons, nil
}

func (f *fakeAPI) CreateCoupon(_ context.Context, in backend.CouponInput) (*domain.Coupon, error) {
	f.record("CreateCoupon")
	return &domain.Coupon{ID: "c1", Code: in.Code, MinAmount: in.MinAmount, DiscountAmount: in.DiscountAmount, UsageLimit: in.UsageLimit, IsActive: true}, nil
}

func (f *fakeAPI) UpdateCoupon(_ context.Context, id string, in backend.CouponInput) (*domain.Coupon, error) {
	f.record("UpdateCoupon")
	return &domain.Coupon{ID: id, DiscountAmount: in.DiscountAmount}, nil
}

func (f *fakeAPI) DeleteCoupon(context.Context, string) error {
	f.record("DeleteCoupon")
	return nil
}

func (f *fakeAPI) PendingRoleRequests(context.Context) ([]domain.RoleRequest, error) {
	f.record("PendingRoleRequests")
	return nil, nil
}

func (f *fakeAPI) ApproveRoleRequest(context.Context, string) error {
	f.record("ApproveRoleRequest")
	return nil
}

func (f *fakeAPI) RejectRoleRequest(context.Context, string) error {
	f.record("RejectRoleRequest")
	return nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]domain.User, error) {
	f.record("ListUsers")
	return nil, nil
}

func (f *fakeAPI) GetUser(_ context.Context, id string) (*domain.User, error) {
	f.record("GetUser")
	return &domain.User{ID: id}, nil
}

// staticUser is a CurrentUserProvider with a fixed user.
type staticUser struct{ u *domain.User }

func (s staticUser) CurrentUser() *domain.User { return s.u }

func med(id, pharmacy, price string) domain.Medicine {
	return domain.Medicine{
		ID:         id,
		Name:       "Medicine " + id,
		Price:      decimal.RequireFromString(price),
		Stock:      10,
		PharmacyID: domain.RefTo[domain.Pharmacy](pharmacy),
	}
}

type fixture struct {
	api    *fakeAPI
	store  *repository.MemoryStore
	repo   *repository.KVRepository
	cart   *CartService
	orders *OrderService
}

func newFixture(t *testing.T, user *domain.User) *fixture {
	t.Helper()
	api := &fakeAPI{
		validate: func(code string, _ decimal.Decimal) (*backend.ValidateCouponResponse, error) {
			return &backend.ValidateCouponResponse{Valid: true, Code: code, DiscountAmount: decimal.NewFromInt(10)}, nil
		},
		createOrder: func(req backend.CreateOrderRequest) (*domain.Order, error) {
			return &domain.Order{ID: "o-new", PharmacyID: domain.RefTo[domain.Pharmacy](req.PharmacyID), Status: domain.OrderStatusPacking}, nil
		},
		orders: map[string][]domain.Order{},
	}
	store := repository.NewMemoryStore()
	repo := repository.NewKVRepository(store)
	cart := NewCartService(repo, api, zerolog.Nop())
	orders := NewOrderService(repo, api, cart, staticUser{user}, zerolog.Nop())
	ctx := context.Background()
	if err := cart.Load(ctx); err != nil {
		t.Fatalf("cart load: %v", err)
	}
	if err := orders.Load(ctx); err != nil {
		t.Fatalf("orders load: %v", err)
	}
	return &fixture{api: api, store: store, repo: repo, cart: cart, orders: orders}
}

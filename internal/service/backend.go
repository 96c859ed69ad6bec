package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

// Узкие интерфейсы над backend.Client: сервисы зависят только от нужных вызовов,
// в тестах подставляются фейки.

type CouponValidator interface {
	ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*backend.ValidateCouponResponse, error)
}

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*backend.AuthResponse, error)
	Register(ctx context.Context, req backend.RegisterRequest) (*backend.AuthResponse, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, upd backend.ProfileUpdate) (*backend.AuthResponse, error)
	RequestRole(ctx context.Context, role domain.Role) error
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	AssignDelivery(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error)
	SetInstructions(ctx context.Context, orderID string, instructions []domain.Instruction) (*domain.Order, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
	MyDeliveries(ctx context.Context) ([]domain.Order, error)
	PharmacyOrders(ctx context.Context, pharmacyID string) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
	ListPharmacies(ctx context.Context, ownerID string) ([]domain.Pharmacy, error)
}

type CatalogAPI interface {
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	PharmacyMedicines(ctx context.Context, pharmacyID string) ([]domain.Medicine, error)
	ListPharmacies(ctx context.Context, ownerID string) ([]domain.Pharmacy, error)
	DeleteMedicine(ctx context.Context, id string) error
}

type AdminAPI interface {
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	CreateCoupon(ctx context.Context, in backend.CouponInput) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, in backend.CouponInput) (*domain.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
	PendingRoleRequests(ctx context.Context) ([]domain.RoleRequest, error)
	ApproveRoleRequest(ctx context.Context, id string) error
	RejectRoleRequest(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// CurrentUserProvider отдаёт активного пользователя или nil
type CurrentUserProvider interface {
	CurrentUser() *domain.User
}

var (
	_ CouponValidator = (*backend.Client)(nil)
	_ AuthAPI         = (*backend.Client)(nil)
	_ OrderAPI        = (*backend.Client)(nil)
	_ CatalogAPI      = (*backend.Client)(nil)
	_ AdminAPI        = (*backend.Client)(nil)
)

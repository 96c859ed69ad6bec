package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// backend expects plain JSON numbers for amounts
	decimal.MarshalJSONWithoutQuotes = true
}

// Role роль пользователя в маркетплейсе
type Role string

const (
	RoleCustomer       Role = "customer"
	RolePharmacyOwner  Role = "pharmacy_owner"
	RoleDeliveryPerson Role = "delivery_person"
	RoleAdmin          Role = "admin"
)

// Valid сообщает, известна ли роль
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RolePharmacyOwner, RoleDeliveryPerson, RoleAdmin:
		return true
	}
	return false
}

// User пользователь приложения
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Role    Role   `json:"role"`
	Address string `json:"address,omitempty"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// Pharmacy аптека, владелец pharmacy_owner
type Pharmacy struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	OwnerID string  `json:"ownerId"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Image   string  `json:"image,omitempty"`
	Rating  float64 `json:"rating"`
}

func (p *Pharmacy) UnmarshalJSON(b []byte) error {
	type alias Pharmacy
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.MongoID
	}
	return nil
}

// Medicine товар каталога. Для корзины неизменяем.
type Medicine struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Image       string          `json:"image,omitempty"`
	PharmacyID  PharmacyRef     `json:"pharmacyId"`
	Category    string          `json:"category,omitempty"`
}

func (m *Medicine) UnmarshalJSON(b []byte) error {
	type alias Medicine
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = aux.MongoID
	}
	return nil
}

// CartItem позиция корзины; quantity всегда >= 1
type CartItem struct {
	Medicine Medicine `json:"medicine"`
	Quantity int64    `json:"quantity"`
}

// LineTotal цена позиции
func (it CartItem) LineTotal() decimal.Decimal {
	return it.Medicine.Price.Mul(decimal.NewFromInt(it.Quantity))
}

// AppliedCoupon последний успешно применённый купон
type AppliedCoupon struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// Coupon купон в том виде, в каком его отдаёт админский API
type Coupon struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	MinAmount      decimal.Decimal `json:"minAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	UsageLimit     int64           `json:"usageLimit"`
	UsedCount      int64           `json:"usedCount"`
	IsActive       bool            `json:"isActive"`
}

func (c *Coupon) UnmarshalJSON(b []byte) error {
	type alias Coupon
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.MongoID
	}
	return nil
}

// OrderItem снимок позиции на момент заказа, не живая ссылка на товар
type OrderItem struct {
	MedicineID string          `json:"medicineId"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Name       string          `json:"name"`
}

// InstructionPriority приоритет указания курьеру
type InstructionPriority string

const (
	PriorityLow    InstructionPriority = "low"
	PriorityMedium InstructionPriority = "medium"
	PriorityHigh   InstructionPriority = "high"
)

func (p InstructionPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DefaultInstructionIcon используется, если аптека не указала иконку
const DefaultInstructionIcon = "info"

// Instruction указание для курьера, добавляется аптекой после создания заказа
type Instruction struct {
	Text     string              `json:"text"`
	Icon     string              `json:"icon"`
	Priority InstructionPriority `json:"priority"`
}

// Order заказ. Создаётся один раз, дальше меняется только через смену статуса,
// назначение курьера или указания.
type Order struct {
	ID               string           `json:"id"`
	CustomerID       UserRef          `json:"customerId"`
	PharmacyID       PharmacyRef      `json:"pharmacyId"`
	Items            []OrderItem      `json:"items"`
	TotalAmount      decimal.Decimal  `json:"totalAmount"`
	Status           OrderStatus      `json:"status"`
	DeliveryAddress  string           `json:"deliveryAddress"`
	DeliveryPersonID UserRef          `json:"deliveryPersonId,omitempty"`
	CouponCode       string           `json:"couponCode,omitempty"`
	Discount         *decimal.Decimal `json:"discount,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	Instructions     []Instruction    `json:"instructions,omitempty"`
}

func (o *Order) UnmarshalJSON(b []byte) error {
	type alias Order
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = aux.MongoID
	}
	return nil
}

// RoleRequestStatus статус заявки на смену роли
type RoleRequestStatus string

const (
	RoleRequestPending  RoleRequestStatus = "pending"
	RoleRequestApproved RoleRequestStatus = "approved"
	RoleRequestRejected RoleRequestStatus = "rejected"
)

// RoleRequest заявка покупателя на роль аптеки или курьера
type RoleRequest struct {
	ID            string            `json:"id"`
	UserID        UserRef           `json:"userId"`
	RequestedRole Role              `json:"requestedRole"`
	Status        RoleRequestStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func (r *RoleRequest) UnmarshalJSON(b []byte) error {
	type alias RoleRequest
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = aux.MongoID
	}
	return nil
}

// Requestable сообщает, можно ли запросить роль через заявку
func (r Role) Requestable() bool {
	return r == RolePharmacyOwner || r == RoleDeliveryPerson
}

package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	val := []byte(`{"a":1}`)
	if err := store.Set(ctx, "k", val); err != nil {
		t.Fatalf("set: %v", err)
	}
	// caller mutation must not leak into the store
	val[0] = 'x'
	got, err := store.Get(ctx, "k")
	if err != nil || string(got) != `{"a":1}` {
		t.Fatalf("get: %q %v", got, err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("expected not found after delete")
	}
}

func TestKVRepository_CartAndOrdersRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(NewMemoryStore())

	items, err := repo.LoadItems(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("empty load: %v %v", items, err)
	}

	in := []domain.CartItem{{
		Medicine: domain.Medicine{ID: "m1", Name: "Aspirin", Price: decimal.RequireFromString("5.99"), PharmacyID: domain.RefTo[domain.Pharmacy]("p1")},
		Quantity: 2,
	}}
	if err := repo.SaveItems(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	items, err = repo.LoadItems(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("load: %v %v", items, err)
	}
	if items[0].Medicine.PharmacyID.ID != "p1" || !items[0].Medicine.Price.Equal(in[0].Medicine.Price) {
		t.Fatalf("unexpected item %+v", items[0])
	}

	if err := repo.SaveOrders(ctx, []domain.Order{{ID: "o1", Status: domain.OrderStatusPacking}}); err != nil {
		t.Fatalf("save orders: %v", err)
	}
	orders, err := repo.LoadOrders(ctx)
	if err != nil || len(orders) != 1 || orders[0].ID != "o1" {
		t.Fatalf("load orders: %v %v", orders, err)
	}
}

func TestKVRepository_Auth(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewKVRepository(store)

	u, tok, err := repo.LoadAuth(ctx)
	if err != nil || u != nil || tok != "" {
		t.Fatalf("expected empty session: %v %q %v", u, tok, err)
	}

	if err := repo.SaveAuth(ctx, &domain.User{ID: "u1", Role: domain.RoleCustomer}, "jwt"); err != nil {
		t.Fatalf("save: %v", err)
	}
	u, tok, err = repo.LoadAuth(ctx)
	if err != nil || u == nil || u.ID != "u1" || tok != "jwt" {
		t.Fatalf("load: %v %q %v", u, tok, err)
	}

	if err := repo.SaveAuth(ctx, nil, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(store.Keys()) != 0 {
		t.Fatalf("expected keys removed, got %v", store.Keys())
	}
}

func TestMedicineFilter_Match(t *testing.T) {
	min := decimal.NewFromInt(5)
	max := decimal.NewFromInt(10)
	f := MedicineFilter{NameSubstring: "asp", Category: "pain", MinPrice: &min, MaxPrice: &max}

	ok := domain.Medicine{Name: "Aspirin", Category: "Pain", Price: decimal.NewFromInt(7)}
	if !f.Match(ok) {
		t.Fatalf("expected match")
	}
	cheap := ok
	cheap.Price = decimal.NewFromInt(1)
	if f.Match(cheap) {
		t.Fatalf("min filter fail")
	}
	other := ok
	other.Category = "vitamins"
	if f.Match(other) {
		t.Fatalf("category filter fail")
	}
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/service"
)

// fakeBackend emulates the REST API the gateway consumes.
type fakeBackend struct {
	mu      sync.Mutex
	orders  map[string]map[string]any
	created int
	token   string
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		email := body["email"]
		role, id := "customer", "u1"
		switch {
		case strings.HasPrefix(email, "owner"):
			role, id = "pharmacy_owner", "own1"
		case strings.HasPrefix(email, "courier"):
			role, id = "delivery_person", "d1"
		}
		b.mu.Lock()
		b.token = "jwt-" + id
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"_id": id, "name": "N", "email": email, "role": role, "token": "jwt-" + id})
	})
	mux.HandleFunc("POST /api/coupons/validate", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["code"] != "SAVE10" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Coupon not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": true, "code": "SAVE10", "discountAmount": 10})
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.created++
		o := map[string]any{
			"_id":             "o1",
			"customerId":      map[string]any{"_id": "u1", "name": "N"},
			"pharmacyId":      body["pharmacyId"],
			"status":          "packing",
			"deliveryAddress": body["deliveryAddress"],
			"totalAmount":     1.98,
			"couponCode":      body["couponCode"],
		}
		b.orders["o1"] = o
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, o)
	})
	mux.HandleFunc("GET /api/orders/myorders", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := []map[string]any{}
		for _, o := range b.orders {
			list = append(list, o)
		}
		writeJSON(w, http.StatusOK, list)
	})
	mux.HandleFunc("GET /api/orders/mydeliveries", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("GET /api/pharmacies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"_id": "p1", "name": "Green", "ownerId": r.URL.Query().Get("ownerId")}})
	})
	mux.HandleFunc("GET /api/orders/pharmacy/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := []map[string]any{}
		for _, o := range b.orders {
			if o["pharmacyId"] == r.PathValue("id") {
				list = append(list, o)
			}
		}
		writeJSON(w, http.StatusOK, list)
	})
	mux.HandleFunc("PUT /api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		o, ok := b.orders[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Order not found"})
			return
		}
		if strings.HasSuffix(r.Header.Get("Authorization"), "jwt-d1") && o["deliveryPersonId"] != "d1" {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Not your delivery"})
			return
		}
		o["status"] = body["status"]
		writeJSON(w, http.StatusOK, o)
	})
	mux.HandleFunc("GET /api/medicines", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"_id": "m1", "name": "Aspirin", "price": 5.99, "stock": 3, "pharmacyId": "p1", "category": "Pain"},
			{"_id": "m2", "name": "Vitamin C", "price": 12, "stock": 3, "pharmacyId": map[string]any{"_id": "p2", "name": "Blue"}},
		})
	})
	return mux
}

func (b *fakeBackend) createdCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created
}

func setupServer(t *testing.T) (*Server, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{orders: map[string]map[string]any{}}
	api := httptest.NewServer(fb.handler())
	t.Cleanup(api.Close)

	log := zerolog.Nop()
	repo := repository.NewKVRepository(repository.NewMemoryStore())
	session := service.NewSession(repo, log)
	client := backend.New(api.URL+"/api", backend.WithTokenSource(session), backend.WithLogger(log))
	cart := service.NewCartService(repo, client, log)
	orders := service.NewOrderService(repo, client, cart, session, log)
	return NewServer(Services{
		Session: service.NewSessionService(session, client, log),
		Cart:    cart,
		Orders:  orders,
		Catalog: service.NewCatalogService(client, session, log),
		Admin:   service.NewAdminService(client, session, log),
	}, log), fb
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func medicine(id, pharmacy string, price float64) map[string]any {
	return map[string]any{"id": id, "name": "M " + id, "price": price, "stock": 5, "pharmacyId": pharmacy}
}

func login(t *testing.T, s *Server, email string) {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/v1/session/login", map[string]any{"email": email, "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: %v %s", email, w.Code, w.Body.String())
	}
}

func TestCartAndOrderFlow(t *testing.T) {
	s, fb := setupServer(t)
	login(t, s, "ann@x.io")

	// add twice, same medicine
	for i := 0; i < 2; i++ {
		w := doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"medicine": medicine("m1", "p1", 5.99), "quantity": 1})
		if w.Code != http.StatusOK {
			t.Fatalf("add item %v %s", w.Code, w.Body.String())
		}
	}
	var cart struct {
		Items    []map[string]any `json:"items"`
		Subtotal float64          `json:"subtotal"`
		Discount float64          `json:"discount"`
		Total    float64          `json:"total"`
	}
	decode(t, doJSON(t, s, http.MethodGet, "/api/v1/cart", nil), &cart)
	if len(cart.Items) != 1 || cart.Subtotal != 11.98 || cart.Total != 11.98 {
		t.Fatalf("unexpected cart %+v", cart)
	}

	// coupon
	var applied struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decode(t, doJSON(t, s, http.MethodPost, "/api/v1/cart/coupon", map[string]any{"code": "nope"}), &applied)
	if applied.Success || applied.Message != "Coupon not found" {
		t.Fatalf("unexpected coupon result %+v", applied)
	}
	decode(t, doJSON(t, s, http.MethodPost, "/api/v1/cart/coupon", map[string]any{"code": " save10"}), &applied)
	if !applied.Success || applied.Message != "-$10.00 discount applied" {
		t.Fatalf("unexpected coupon result %+v", applied)
	}
	decode(t, doJSON(t, s, http.MethodGet, "/api/v1/cart", nil), &cart)
	if cart.Discount != 10 || cart.Total != 1.98 {
		t.Fatalf("unexpected totals %+v", cart)
	}

	// place
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"deliveryAddress": "12 Main St"})
	if w.Code != http.StatusCreated {
		t.Fatalf("place order %v %s", w.Code, w.Body.String())
	}
	var order map[string]any
	decode(t, w, &order)
	if order["id"] != "o1" || order["customerId"] != "u1" || order["couponCode"] != "SAVE10" {
		t.Fatalf("unexpected order %+v", order)
	}

	decode(t, doJSON(t, s, http.MethodGet, "/api/v1/cart", nil), &cart)
	if len(cart.Items) != 0 || cart.Total != 0 {
		t.Fatalf("cart not cleared %+v", cart)
	}
	var list []map[string]any
	decode(t, doJSON(t, s, http.MethodGet, "/api/v1/orders?customerId=u1", nil), &list)
	if len(list) != 1 {
		t.Fatalf("order not cached: %+v", list)
	}
	if w := doJSON(t, s, http.MethodGet, "/api/v1/orders/o1", nil); w.Code != http.StatusOK {
		t.Fatalf("get order %v", w.Code)
	}
	if n := fb.createdCount(); n != 1 {
		t.Fatalf("expected one create, got %d", n)
	}
}

func TestPlaceOrder_LocalRejections(t *testing.T) {
	s, fb := setupServer(t)

	_ = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"medicine": medicine("m1", "p1", 1), "quantity": 1})
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"deliveryAddress": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", w.Code)
	}

	login(t, s, "ann@x.io")
	_ = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"medicine": medicine("m2", "p2", 1), "quantity": 1})
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"deliveryAddress": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mixed cart, got %v", w.Code)
	}
	if fb.createdCount() != 0 {
		t.Fatalf("mixed cart reached backend")
	}

	_ = doJSON(t, s, http.MethodDelete, "/api/v1/cart", nil)
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"deliveryAddress": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %v", w.Code)
	}
}

func TestCardCheckoutIsCOD(t *testing.T) {
	s, _ := setupServer(t)
	login(t, s, "ann@x.io")
	_ = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"medicine": medicine("m1", "p1", 3), "quantity": 1})

	w := doJSON(t, s, http.MethodPost, "/api/v1/orders/card", map[string]any{
		"deliveryAddress": "12 Main St",
		"card":            map[string]any{"name": "Ann", "number": "4000 0000 0000 9995", "expiry": "12/99", "cvc": "123"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("card checkout %v %s", w.Code, w.Body.String())
	}
	var co struct {
		PaymentMethod string `json:"paymentMethod"`
		Card          struct {
			Approved bool   `json:"approved"`
			Message  string `json:"message"`
		} `json:"card"`
	}
	decode(t, w, &co)
	if co.PaymentMethod != "cod" || co.Card.Approved || co.Card.Message != "Insufficient funds." {
		t.Fatalf("unexpected checkout %+v", co)
	}
}

func TestStatusFlow(t *testing.T) {
	s, _ := setupServer(t)
	login(t, s, "ann@x.io")
	_ = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"medicine": medicine("m1", "p1", 3), "quantity": 1})
	if w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"deliveryAddress": "a"}); w.Code != http.StatusCreated {
		t.Fatalf("place %v", w.Code)
	}

	// customers cannot move orders
	w := doJSON(t, s, http.MethodPut, "/api/v1/orders/o1/status", map[string]any{"status": "on_the_way"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %v", w.Code)
	}

	login(t, s, "owner@x.io")
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/refresh", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh %v %s", w.Code, w.Body.String())
	}
	w = doJSON(t, s, http.MethodPut, "/api/v1/orders/o1/status", map[string]any{"status": "on_the_way"})
	if w.Code != http.StatusOK {
		t.Fatalf("owner update %v %s", w.Code, w.Body.String())
	}
	w = doJSON(t, s, http.MethodPut, "/api/v1/orders/o1/status", map[string]any{"status": "packing"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for backward move, got %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPut, "/api/v1/orders/o1/status", map[string]any{"status": "shipped"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %v", w.Code)
	}

	// backend rejects unassigned courier; message passes through
	login(t, s, "courier@x.io")
	w = doJSON(t, s, http.MethodPut, "/api/v1/orders/o1/status", map[string]any{"status": "delivered"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for courier, got %v", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["error"] != "Not your delivery" {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestCatalogAndBadRequests(t *testing.T) {
	s, _ := setupServer(t)

	var meds []map[string]any
	decode(t, doJSON(t, s, http.MethodGet, "/api/v1/medicines?q=asp&max_price=6", nil), &meds)
	if len(meds) != 1 || meds[0]["id"] != "m1" {
		t.Fatalf("unexpected medicines %+v", meds)
	}
	if w := doJSON(t, s, http.MethodGet, "/api/v1/medicines?min_price=abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("{"))
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for broken json, got %v", w.Code)
	}

	if w := doJSON(t, s, http.MethodGet, "/api/v1/orders/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
	if w := doJSON(t, s, http.MethodDelete, "/api/v1/medicines/m1", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", w.Code)
	}
	if w := doJSON(t, s, http.MethodGet, "/api/v1/admin/coupons", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", w.Code)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	s, _ := setupServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health %v", w.Code)
	}
	if w.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("request id not echoed")
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/session", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id not generated")
	}
	var sess map[string]any
	decode(t, w, &sess)
	if sess["authenticated"] != false {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrMixedPharmacy, http.StatusBadRequest},
		{service.ErrNotAuthenticated, http.StatusUnauthorized},
		{service.ErrNotAssigned, http.StatusForbidden},
		{repository.ErrNotFound, http.StatusNotFound},
		{&backend.APIError{Status: http.StatusTeapot, Message: "x"}, http.StatusTeapot},
		{&backend.NetworkError{Err: http.ErrHandlerTimeout}, http.StatusBadGateway},
		{backend.ErrEmptyResponse, http.StatusBadGateway},
		{http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := mapErrorToStatus(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/checkout"
	"backend/internal/models"
	"backend/internal/pricing"
	"backend/internal/store"
)

type stubDirectory struct {
	customer *models.Customer
	err      error
}

func (s *stubDirectory) Resolve(_ context.Context, cand store.CustomerCandidate) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.customer != nil {
		return s.customer, nil
	}
	now := time.Now()
	return &models.Customer{
		ID:        primitive.NewObjectID(),
		Phone:     cand.Phone,
		Name:      cand.Name,
		Address:   cand.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type stubLedger struct {
	inserted []*models.Order
	byToken  map[string]*models.Order
}

func (s *stubLedger) Insert(_ context.Context, order *models.Order) (*models.Order, error) {
	order.ID = primitive.NewObjectID()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Date.IsZero() {
		order.Date = now
	}
	s.inserted = append(s.inserted, order)
	return order, nil
}

func (s *stubLedger) FindByRequestToken(_ context.Context, token string) (*models.Order, error) {
	if order, ok := s.byToken[token]; ok {
		return order, nil
	}
	return nil, store.ErrOrderNotFound
}

func newCheckoutRouter(dir *stubDirectory, ledger *stubLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := checkout.NewService(pricing.NewEngine(pricing.DefaultNonSylhetFee), dir, ledger)
	r := gin.New()
	r.POST("/orders", CreateOrder(svc))
	return r
}

func postOrder(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderPersistsAndReturns201(t *testing.T) {
	ledger := &stubLedger{}
	r := newCheckoutRouter(&stubDirectory{}, ledger)

	w := postOrder(t, r, `{
		"customer": {"phone":"01712345678","name":"A","address":"X","area":"Non-Sylhet"},
		"productIds": ["507f1f77bcf86cd799439011"],
		"productNames": ["Mini bricks set"],
		"quantities": [2],
		"unitPrices": [100]
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if order.PriceTotal != 200+pricing.DefaultNonSylhetFee {
		t.Fatalf("expected total %v, got %v", 200+float64(pricing.DefaultNonSylhetFee), order.PriceTotal)
	}
	if order.Status != models.StatusOrdered {
		t.Fatalf("expected status ordered, got %q", order.Status)
	}
	if len(ledger.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(ledger.inserted))
	}
}

func TestCreateOrderLegacyPriceTotal(t *testing.T) {
	r := newCheckoutRouter(&stubDirectory{}, &stubLedger{})

	w := postOrder(t, r, `{
		"customer": {"phone":"01712345678","name":"A","address":"X"},
		"productNames": ["Mini bricks set"],
		"quantities": [1],
		"priceTotal": 560
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if order.PriceTotal != 560 {
		t.Fatalf("expected total 560, got %v", order.PriceTotal)
	}
}

func TestCreateOrderValidationFailuresReturn400(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing customer", `{"quantities":[1],"priceTotal":10}`},
		{"missing phone", `{"customer":{"name":"A","address":"X"},"quantities":[1],"priceTotal":10}`},
		{"empty cart", `{"customer":{"phone":"017"},"priceTotal":10}`},
		{"missing total", `{"customer":{"phone":"017"},"quantities":[1]}`},
		{"bad quantity", `{"customer":{"phone":"017"},"quantities":[0],"priceTotal":10}`},
		{"bad status", `{"customer":{"phone":"017"},"quantities":[1],"priceTotal":10,"status":"shipped"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &stubLedger{}
			r := newCheckoutRouter(&stubDirectory{}, ledger)

			w := postOrder(t, r, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if len(ledger.inserted) != 0 {
				t.Fatal("expected no insert on validation failure")
			}
		})
	}
}

func TestCreateOrderNewCustomerNeedsNameAndAddress(t *testing.T) {
	dir := &stubDirectory{err: store.ErrMissingRequiredField}
	r := newCheckoutRouter(dir, &stubLedger{})

	w := postOrder(t, r, `{
		"customer": {"phone":"01712345678"},
		"quantities": [1],
		"priceTotal": 100
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateOrderReplayedTokenReturns200(t *testing.T) {
	existing := &models.Order{
		ID:           primitive.NewObjectID(),
		RequestToken: "tok-1",
		PriceTotal:   310,
		Status:       models.StatusOrdered,
	}
	ledger := &stubLedger{byToken: map[string]*models.Order{"tok-1": existing}}
	r := newCheckoutRouter(&stubDirectory{}, ledger)

	w := postOrder(t, r, `{
		"customer": {"phone":"01712345678","name":"A","address":"X"},
		"quantities": [1],
		"priceTotal": 310,
		"requestToken": "tok-1"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d: %s", w.Code, w.Body.String())
	}
	if len(ledger.inserted) != 0 {
		t.Fatal("expected no insert on replay")
	}

	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if order.ID != existing.ID {
		t.Fatal("expected the already-placed order in the response")
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"2", 2},
	}
	for _, tt := range tests {
		if got := parsePage(tt.in); got != tt.want {
			t.Fatalf("parsePage(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

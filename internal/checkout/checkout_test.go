package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
	"backend/internal/pricing"
	"backend/internal/store"
)

type fakeDirectory struct {
	resolved  *models.Customer
	err       error
	lastCand  store.CustomerCandidate
	callCount int
}

func (f *fakeDirectory) Resolve(_ context.Context, cand store.CustomerCandidate) (*models.Customer, error) {
	f.callCount++
	f.lastCand = cand
	if f.err != nil {
		return nil, f.err
	}
	return f.resolved, nil
}

type fakeLedger struct {
	inserted []*models.Order
	byToken  map[string]*models.Order
}

func (f *fakeLedger) Insert(_ context.Context, order *models.Order) (*models.Order, error) {
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Date.IsZero() {
		order.Date = now
	}
	f.inserted = append(f.inserted, order)
	return order, nil
}

func (f *fakeLedger) FindByRequestToken(_ context.Context, token string) (*models.Order, error) {
	if order, ok := f.byToken[token]; ok {
		return order, nil
	}
	return nil, store.ErrOrderNotFound
}

func newTestService(dir *fakeDirectory, ledger *fakeLedger) *Service {
	return NewService(pricing.NewEngine(pricing.DefaultNonSylhetFee), dir, ledger)
}

func validInput() Input {
	total := 200.0
	return Input{
		Customer: store.CustomerCandidate{
			Phone:   "01712345678",
			Name:    "A",
			Address: "X",
		},
		ProductIDs:   []string{"507f1f77bcf86cd799439011"},
		ProductNames: []string{"Mini bricks set"},
		Quantities:   []int{2},
		PriceTotal:   &total,
	}
}

func TestPlaceComputesTotalFromUnitPricesAndArea(t *testing.T) {
	dir := &fakeDirectory{resolved: &models.Customer{Phone: "017", Name: "A", Address: "X"}}
	ledger := &fakeLedger{}
	svc := newTestService(dir, ledger)

	in := validInput()
	in.PriceTotal = nil
	in.UnitPrices = []float64{100}
	in.Area = pricing.AreaNonSylhet

	order, replayed, err := svc.Place(context.Background(), in)
	if err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if replayed {
		t.Fatal("expected a fresh order, got a replay")
	}
	if order.PriceTotal != 200+pricing.DefaultNonSylhetFee {
		t.Fatalf("expected total %v, got %v", 200+float64(pricing.DefaultNonSylhetFee), order.PriceTotal)
	}
	if order.Status != models.StatusOrdered {
		t.Fatalf("expected status %q, got %q", models.StatusOrdered, order.Status)
	}
	if len(ledger.inserted) != 1 {
		t.Fatalf("expected exactly one insert, got %d", len(ledger.inserted))
	}
}

func TestPlaceServerTotalOverridesClientTotal(t *testing.T) {
	dir := &fakeDirectory{resolved: &models.Customer{Phone: "017", Name: "A", Address: "X"}}
	svc := newTestService(dir, &fakeLedger{})

	in := validInput()
	wrong := 1.0
	in.PriceTotal = &wrong
	in.UnitPrices = []float64{100}
	in.Area = pricing.AreaSylhet

	order, _, err := svc.Place(context.Background(), in)
	if err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if order.PriceTotal != 200 {
		t.Fatalf("expected server-computed total 200, got %v", order.PriceTotal)
	}
}

func TestPlaceLegacyClientTotalIsRecorded(t *testing.T) {
	dir := &fakeDirectory{resolved: &models.Customer{Phone: "017", Name: "A", Address: "X"}}
	svc := newTestService(dir, &fakeLedger{})

	order, _, err := svc.Place(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if order.PriceTotal != 200 {
		t.Fatalf("expected total 200, got %v", order.PriceTotal)
	}
}

func TestPlaceSnapshotComesFromResolvedCustomer(t *testing.T) {
	// the directory keeps the stored name; the snapshot must reflect the
	// post-resolve record, not the raw candidate
	dir := &fakeDirectory{resolved: &models.Customer{
		Phone:   "01712345678",
		Name:    "Stored Name",
		Address: "Stored Address",
		Email:   "stored@example.com",
	}}
	svc := newTestService(dir, &fakeLedger{})

	order, _, err := svc.Place(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if order.Customer.Name != "Stored Name" || order.Customer.Email != "stored@example.com" {
		t.Fatalf("expected snapshot from resolved record, got %+v", order.Customer)
	}
}

func TestPlaceValidationOrder(t *testing.T) {
	dir := &fakeDirectory{resolved: &models.Customer{Phone: "017"}}
	svc := newTestService(dir, &fakeLedger{})

	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"missing phone", func(in *Input) { in.Customer.Phone = "" }, "customer.phone"},
		{"empty cart", func(in *Input) { in.Quantities = nil }, "quantities"},
		{"zero quantity", func(in *Input) { in.Quantities = []int{0} }, "quantities"},
		{"oversized quantity", func(in *Input) { in.Quantities = []int{100} }, "quantities"},
		{"id length mismatch", func(in *Input) { in.ProductIDs = []string{"a", "b"} }, "productIds"},
		{"name length mismatch", func(in *Input) { in.ProductNames = []string{"a", "b"} }, "productNames"},
		{"price length mismatch", func(in *Input) { in.UnitPrices = []float64{1, 2}; in.Area = pricing.AreaSylhet }, "unitPrices"},
		{"bad status", func(in *Input) { in.Status = "shipped" }, "status"},
		{"no total", func(in *Input) { in.PriceTotal = nil }, "priceTotal"},
		{"unknown area", func(in *Input) { in.PriceTotal = nil; in.UnitPrices = []float64{1}; in.Area = "Dhaka" }, "area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, _, err := svc.Place(context.Background(), in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestPlaceValidationHappensBeforeAnyWrite(t *testing.T) {
	dir := &fakeDirectory{resolved: &models.Customer{Phone: "017"}}
	ledger := &fakeLedger{}
	svc := newTestService(dir, ledger)

	in := validInput()
	in.Quantities = []int{0}

	if _, _, err := svc.Place(context.Background(), in); err == nil {
		t.Fatal("expected validation error")
	}
	if dir.callCount != 0 || len(ledger.inserted) != 0 {
		t.Fatal("expected no writes on validation failure")
	}
}

func TestPlaceRequestTokenReplayReturnsExistingOrder(t *testing.T) {
	existing := &models.Order{ID: primitive.NewObjectID(), RequestToken: "tok-1", PriceTotal: 310}
	dir := &fakeDirectory{resolved: &models.Customer{Phone: "017"}}
	ledger := &fakeLedger{byToken: map[string]*models.Order{"tok-1": existing}}
	svc := newTestService(dir, ledger)

	in := validInput()
	in.RequestToken = "tok-1"

	order, replayed, err := svc.Place(context.Background(), in)
	if err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if !replayed {
		t.Fatal("expected replay to be reported")
	}
	if order.ID != existing.ID {
		t.Fatal("expected the already-placed order to be returned")
	}
	if dir.callCount != 0 || len(ledger.inserted) != 0 {
		t.Fatal("expected no writes on a token replay")
	}
}

func TestPlaceDirectoryErrorAbortsWithoutInsert(t *testing.T) {
	dir := &fakeDirectory{err: store.ErrMissingRequiredField}
	ledger := &fakeLedger{}
	svc := newTestService(dir, ledger)

	_, _, err := svc.Place(context.Background(), validInput())
	if !errors.Is(err, store.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
	if len(ledger.inserted) != 0 {
		t.Fatal("expected no order insert after directory failure")
	}
}

func TestPlaceKeepsSuppliedStatusAndDate(t *testing.T) {
	dir := &fakeDirectory{resolved: &models.Customer{Phone: "017"}}
	svc := newTestService(dir, &fakeLedger{})

	in := validInput()
	in.Status = models.StatusOrdered
	in.Date = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	order, _, err := svc.Place(context.Background(), in)
	if err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if !order.Date.Equal(in.Date) {
		t.Fatalf("expected submitted date to be kept, got %v", order.Date)
	}
}

// Package checkout turns a submitted cart or buy-now request into a
// persisted order: validate, price, resolve the customer, freeze a snapshot,
// append to the ledger.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
	"backend/internal/pricing"
	"backend/internal/store"
)

// CustomerResolver is the directory write path the orchestrator depends on.
type CustomerResolver interface {
	Resolve(ctx context.Context, cand store.CustomerCandidate) (*models.Customer, error)
}

// OrderWriter is the ledger surface the orchestrator depends on.
type OrderWriter interface {
	Insert(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByRequestToken(ctx context.Context, token string) (*models.Order, error)
}

// ValidationError marks a request the client must correct and resubmit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Input is a checkout submission. UnitPrices plus Area enable server-side
// pricing; without them the legacy client-computed PriceTotal is required.
type Input struct {
	Customer     store.CustomerCandidate
	Area         pricing.Area
	Date         time.Time
	ProductIDs   []string
	ProductNames []string
	Quantities   []int
	UnitPrices   []float64
	PriceTotal   *float64
	Status       string
	RequestToken string
}

// Service coordinates pricing, the customer directory and the order ledger.
type Service struct {
	pricing   *pricing.Engine
	customers CustomerResolver
	orders    OrderWriter
}

func NewService(engine *pricing.Engine, customers CustomerResolver, orders OrderWriter) *Service {
	return &Service{
		pricing:   engine,
		customers: customers,
		orders:    orders,
	}
}

// Place runs one checkout. The returned bool reports a request-token replay:
// the already-placed order is returned and nothing is written.
//
// Side effects on the non-replay path: at most one customer write, exactly
// one order insert. A ledger failure after the customer write is surfaced
// as-is; the customer change is not rolled back.
func (s *Service) Place(ctx context.Context, in Input) (*models.Order, bool, error) {
	if err := validate(in); err != nil {
		return nil, false, err
	}

	if in.RequestToken != "" {
		existing, err := s.orders.FindByRequestToken(ctx, in.RequestToken)
		if err == nil {
			return existing, true, nil
		}
		if !errors.Is(err, store.ErrOrderNotFound) {
			return nil, false, err
		}
	}

	total, err := s.resolveTotal(in)
	if err != nil {
		return nil, false, err
	}

	customer, err := s.customers.Resolve(ctx, in.Customer)
	if err != nil {
		return nil, false, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusOrdered
	}

	order := &models.Order{
		Customer:     customer.Snapshot(),
		Date:         in.Date,
		ProductIDs:   models.ProductIDList(in.ProductIDs),
		ProductNames: in.ProductNames,
		Quantities:   in.Quantities,
		PriceTotal:   total,
		Status:       status,
		RequestToken: in.RequestToken,
	}

	persisted, err := s.orders.Insert(ctx, order)
	if mongo.IsDuplicateKeyError(err) && in.RequestToken != "" {
		// lost the token race to a concurrent replay of the same request
		existing, findErr := s.orders.FindByRequestToken(ctx, in.RequestToken)
		if findErr != nil {
			return nil, false, err
		}
		return existing, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return persisted, false, nil
}

// validate short-circuits on the first failure, in contract order: phone,
// non-empty cart, quantity bounds, parallel array lengths, status value.
func validate(in Input) error {
	if in.Customer.Phone == "" {
		return &ValidationError{Field: "customer.phone", Message: "customer.phone is required"}
	}
	if len(in.Quantities) == 0 {
		return &ValidationError{Field: "quantities", Message: "at least one item is required"}
	}
	for _, qty := range in.Quantities {
		if qty < 1 || qty > pricing.MaxQuantity {
			return &ValidationError{
				Field:   "quantities",
				Message: fmt.Sprintf("quantity must be between 1 and %d", pricing.MaxQuantity),
			}
		}
	}
	if len(in.ProductIDs) > 0 && len(in.ProductIDs) != len(in.Quantities) {
		return &ValidationError{Field: "productIds", Message: "productIds and quantities must have the same length"}
	}
	if len(in.ProductNames) > 0 && len(in.ProductNames) != len(in.Quantities) {
		return &ValidationError{Field: "productNames", Message: "productNames and quantities must have the same length"}
	}
	if len(in.UnitPrices) > 0 && len(in.UnitPrices) != len(in.Quantities) {
		return &ValidationError{Field: "unitPrices", Message: "unitPrices and quantities must have the same length"}
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return &ValidationError{Field: "status", Message: "unrecognized order status"}
	}
	return nil
}

// resolveTotal prefers the server-computed quote when the request carries unit
// prices and an area; otherwise the legacy client total must be present.
func (s *Service) resolveTotal(in Input) (float64, error) {
	if len(in.UnitPrices) > 0 && in.Area != "" {
		lines := make([]pricing.Line, len(in.UnitPrices))
		for i, price := range in.UnitPrices {
			lines[i] = pricing.Line{UnitPrice: price, Quantity: in.Quantities[i]}
		}
		quote, err := s.pricing.Quote(lines, in.Area)
		if err != nil {
			field := "unitPrices"
			if errors.Is(err, pricing.ErrUnknownArea) {
				field = "area"
			}
			return 0, &ValidationError{Field: field, Message: err.Error()}
		}
		return quote.Total, nil
	}

	if in.PriceTotal == nil {
		return 0, &ValidationError{Field: "priceTotal", Message: "priceTotal is required"}
	}
	return *in.PriceTotal, nil
}

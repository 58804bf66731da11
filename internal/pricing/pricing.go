// Package pricing computes chargeable order totals, including the area-based
// delivery fee. It is pure: no store access, no side effects.
package pricing

import (
	"errors"
	"fmt"
)

// Area selects the delivery-pricing zone.
type Area string

const (
	AreaSylhet    Area = "Sylhet"
	AreaNonSylhet Area = "Non-Sylhet"
)

// DefaultNonSylhetFee is the canonical delivery surcharge in BDT for
// deliveries outside Sylhet. Sylhet deliveries are free.
const DefaultNonSylhetFee = 110

// MaxQuantity bounds a single order line.
const MaxQuantity = 99

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 99")
	ErrInvalidPrice    = errors.New("unit price must not be negative")
	ErrUnknownArea     = errors.New("unknown delivery area")
)

// Line is one priced cart entry.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Quote is the result of pricing an order.
type Quote struct {
	Subtotal    float64
	DeliveryFee float64
	Total       float64
}

// Engine holds the delivery-fee configuration.
type Engine struct {
	NonSylhetFee float64
}

// NewEngine returns an engine charging fee for Non-Sylhet deliveries.
// A negative fee falls back to the canonical default.
func NewEngine(fee float64) *Engine {
	if fee < 0 {
		fee = DefaultNonSylhetFee
	}
	return &Engine{NonSylhetFee: fee}
}

// DeliveryFee returns the surcharge for the given area.
func (e *Engine) DeliveryFee(area Area) (float64, error) {
	switch area {
	case AreaSylhet:
		return 0, nil
	case AreaNonSylhet:
		return e.NonSylhetFee, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownArea, area)
	}
}

// Quote prices the given lines for the given area. Total is exactly
// Subtotal + DeliveryFee.
func (e *Engine) Quote(lines []Line, area Area) (Quote, error) {
	fee, err := e.DeliveryFee(area)
	if err != nil {
		return Quote{}, err
	}

	var subtotal float64
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > MaxQuantity {
			return Quote{}, ErrInvalidQuantity
		}
		if line.UnitPrice < 0 {
			return Quote{}, ErrInvalidPrice
		}
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal + fee,
	}, nil
}

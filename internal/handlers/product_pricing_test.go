package handlers

import (
	"testing"

	"backend/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestEffectiveProductPriceUsesOfferWhenBelowActual(t *testing.T) {
	if got := effectiveProductPrice(100, floatPtr(80)); got != 80 {
		t.Fatalf("expected offer price 80, got %v", got)
	}
	if got := effectiveProductPrice(100, nil); got != 100 {
		t.Fatalf("expected actual price 100 without offer, got %v", got)
	}
}

func TestEffectiveProductPriceIgnoresBadOffers(t *testing.T) {
	for _, offer := range []float64{0, -5, 100, 120} {
		if got := effectiveProductPrice(100, floatPtr(offer)); got != 100 {
			t.Fatalf("expected actual price for offer %v, got %v", offer, got)
		}
	}
}

func TestDecorateProductsFillsEffectivePrice(t *testing.T) {
	products := []models.Product{
		{ActualPrice: 100, OfferPrice: floatPtr(75)},
		{ActualPrice: 250},
	}

	decorateProducts(products)

	if products[0].EffectivePrice != 75 {
		t.Fatalf("expected effective price 75, got %v", products[0].EffectivePrice)
	}
	if products[1].EffectivePrice != 250 {
		t.Fatalf("expected effective price 250, got %v", products[1].EffectivePrice)
	}
}

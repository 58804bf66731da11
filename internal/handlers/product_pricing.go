package handlers

import "backend/internal/models"

// effectiveProductPrice is the price the storefront charges: the offer price
// when one is set below the actual price, otherwise the actual price.
func effectiveProductPrice(actualPrice float64, offerPrice *float64) float64 {
	if offerPrice != nil && *offerPrice > 0 && *offerPrice < actualPrice {
		return *offerPrice
	}
	return actualPrice
}

// decorateProduct fills the derived fields on a product response.
func decorateProduct(p *models.Product) {
	p.EffectivePrice = effectiveProductPrice(p.ActualPrice, p.OfferPrice)
}

func decorateProducts(products []models.Product) {
	for i := range products {
		decorateProduct(&products[i])
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	ImageURLs    []string           `bson:"imageUrls" json:"imageUrls"`
	VideoURLs    []string           `bson:"videoUrls,omitempty" json:"videoUrls,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	ActualPrice  float64            `bson:"actualPrice" json:"actualPrice"`
	OfferPrice   *float64           `bson:"offerPrice,omitempty" json:"offerPrice,omitempty"`
	Stock        int                `bson:"stock" json:"stock"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	IsNewProduct bool               `bson:"isNewProduct" json:"isNewProduct"`
	IsFeatured   bool               `bson:"isFeatured" json:"isFeatured"`
	// EffectivePrice is derived on read, never persisted.
	EffectivePrice float64   `bson:"-" json:"effectivePrice"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

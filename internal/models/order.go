package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recognized order statuses. Any recognized status may be set via update;
// there is no enforced transition table.
const (
	StatusOrdered        = "ordered"
	StatusReadyToDeliver = "ready_to_deliver"
	StatusDelivered      = "delivered"
)

// ValidStatus reports whether s is one of the recognized order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOrdered, StatusReadyToDeliver, StatusDelivered:
		return true
	}
	return false
}

// Order is the persisted transaction record. The customer snapshot is
// denormalized by value and immutable; status is the only field the admin
// surface routinely mutates.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Customer     CustomerSnapshot   `bson:"customer" json:"customer"`
	Date         time.Time          `bson:"date" json:"date"`
	ProductIDs   ProductIDList      `bson:"productIds" json:"productIds"`
	ProductNames []string           `bson:"productNames" json:"productNames"`
	Quantities   []int              `bson:"quantities" json:"quantities"`
	PriceTotal   float64            `bson:"priceTotal" json:"priceTotal"`
	Status       string             `bson:"status" json:"status"`
	RequestToken string             `bson:"requestToken,omitempty" json:"requestToken,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

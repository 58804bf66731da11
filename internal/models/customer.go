package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is the phone-keyed identity record. Phone is the sole natural key;
// the customers collection carries a unique index on it.
type Customer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Phone          string             `bson:"phone" json:"phone"`
	Name           string             `bson:"name" json:"name"`
	Address        string             `bson:"address" json:"address"`
	AdditionalInfo string             `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CustomerSnapshot is the by-value copy embedded in an order at placement
// time. Later edits to the Customer record never touch it.
type CustomerSnapshot struct {
	Phone          string `bson:"phone" json:"phone"`
	Name           string `bson:"name" json:"name"`
	Address        string `bson:"address" json:"address"`
	AdditionalInfo string `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
	Email          string `bson:"email,omitempty" json:"email,omitempty"`
}

// Snapshot freezes the customer's current contact fields.
func (c Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		Phone:          c.Phone,
		Name:           c.Name,
		Address:        c.Address,
		AdditionalInfo: c.AdditionalInfo,
		Email:          c.Email,
	}
}

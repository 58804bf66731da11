package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrMissingPhone     = errors.New("customer phone is required")
	// ErrMissingRequiredField is returned when a previously unseen phone
	// arrives without the fields needed to create the customer.
	ErrMissingRequiredField = errors.New("name and address are required to create customer")
)

// CustomerCandidate is the free-form customer record submitted with a
// checkout. Pointer fields distinguish "not supplied" from an explicit empty
// value: unset fields never clear stored data.
type CustomerCandidate struct {
	Phone          string
	Name           string
	Address        string
	AdditionalInfo *string
	Email          *string
}

// CustomerDirectory owns customer identity keyed by phone.
type CustomerDirectory struct {
	col *mongo.Collection
}

func NewCustomerDirectory(db *mongo.Database) *CustomerDirectory {
	return &CustomerDirectory{col: db.Collection("customers")}
}

// Resolve looks the candidate up by exact phone match and either applies a
// field-level partial update or creates a new record. A duplicate-key error
// on insert means a concurrent checkout created the record first; the call
// retries once through the update path so the last writer's fields win.
func (d *CustomerDirectory) Resolve(ctx context.Context, cand CustomerCandidate) (*models.Customer, error) {
	if strings.TrimSpace(cand.Phone) == "" {
		return nil, ErrMissingPhone
	}

	var existing models.Customer
	err := d.col.FindOne(ctx, bson.M{"phone": cand.Phone}).Decode(&existing)
	switch {
	case err == nil:
		return d.applyUpdate(ctx, existing, cand)
	case errors.Is(err, mongo.ErrNoDocuments):
		// fall through to create
	default:
		return nil, err
	}

	if cand.Name == "" || cand.Address == "" {
		return nil, ErrMissingRequiredField
	}

	now := time.Now()
	doc := models.Customer{
		Phone:     cand.Phone,
		Name:      cand.Name,
		Address:   cand.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if cand.AdditionalInfo != nil {
		doc.AdditionalInfo = *cand.AdditionalInfo
	}
	if cand.Email != nil {
		doc.Email = *cand.Email
	}

	res, err := d.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		if err := d.col.FindOne(ctx, bson.M{"phone": cand.Phone}).Decode(&existing); err != nil {
			return nil, err
		}
		return d.applyUpdate(ctx, existing, cand)
	}
	if err != nil {
		return nil, err
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return &doc, nil
}

func (d *CustomerDirectory) applyUpdate(ctx context.Context, existing models.Customer, cand CustomerCandidate) (*models.Customer, error) {
	set := customerUpdateFields(existing, cand)
	if len(set) == 0 {
		return &existing, nil
	}

	existing.UpdatedAt = time.Now()
	set["updatedAt"] = existing.UpdatedAt

	if _, err := d.col.UpdateByID(ctx, existing.ID, bson.M{"$set": set}); err != nil {
		return nil, err
	}

	if name, ok := set["name"].(string); ok {
		existing.Name = name
	}
	if address, ok := set["address"].(string); ok {
		existing.Address = address
	}
	if info, ok := set["additionalInfo"].(string); ok {
		existing.AdditionalInfo = info
	}
	if email, ok := set["email"].(string); ok {
		existing.Email = email
	}
	return &existing, nil
}

// customerUpdateFields computes the partial update a candidate implies
// against the stored record. Name and address are only taken when non-empty;
// additionalInfo and email are taken whenever explicitly supplied, including
// an explicit empty value.
func customerUpdateFields(existing models.Customer, cand CustomerCandidate) bson.M {
	set := bson.M{}
	if cand.Name != "" && cand.Name != existing.Name {
		set["name"] = cand.Name
	}
	if cand.Address != "" && cand.Address != existing.Address {
		set["address"] = cand.Address
	}
	if cand.AdditionalInfo != nil && *cand.AdditionalInfo != existing.AdditionalInfo {
		set["additionalInfo"] = *cand.AdditionalInfo
	}
	if cand.Email != nil && *cand.Email != existing.Email {
		set["email"] = *cand.Email
	}
	return set
}

// FindByPhone returns the customer with the exact phone value.
func (d *CustomerDirectory) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := d.col.FindOne(ctx, bson.M{"phone": phone}).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CustomerPage is one page of the admin customer listing.
type CustomerPage struct {
	TotalPages     int64             `json:"totalPages"`
	TotalCustomers int64             `json:"totalCustomers"`
	Customers      []models.Customer `json:"customers"`
}

// List returns customers ordered by creation time descending, ten per page,
// optionally filtered by a case-insensitive phone or name match.
func (d *CustomerDirectory) List(ctx context.Context, page int64, search string) (*CustomerPage, error) {
	if page < 1 {
		page = 1
	}

	filter := bson.M{}
	if search = strings.TrimSpace(search); search != "" {
		filter["$or"] = bson.A{
			bson.M{"phone": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	total, err := d.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	const perPage = 10
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * perPage).
		SetLimit(perPage)

	cursor, err := d.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}

	return &CustomerPage{
		TotalPages:     totalPages(total, perPage),
		TotalCustomers: total,
		Customers:      customers,
	}, nil
}

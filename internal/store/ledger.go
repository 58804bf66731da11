package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrdersPerPage is the fixed admin listing page size.
const OrdersPerPage = 10

// OrderLedger is the durable, append-mostly store of orders. Validation
// happens upstream; Insert never rejects on business grounds.
type OrderLedger struct {
	col *mongo.Collection
}

func NewOrderLedger(db *mongo.Database) *OrderLedger {
	return &OrderLedger{col: db.Collection("orders")}
}

// Insert appends the order, assigning its identifier and timestamps.
func (l *OrderLedger) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Date.IsZero() {
		order.Date = now
	}

	res, err := l.col.InsertOne(ctx, order)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return order, nil
}

// FindByRequestToken returns the order placed with the given checkout token.
func (l *OrderLedger) FindByRequestToken(ctx context.Context, token string) (*models.Order, error) {
	var order models.Order
	err := l.col.FindOne(ctx, bson.M{"requestToken": token}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update applies a partial update and returns the updated order. The updatedAt
// stamp is always set on success.
func (l *OrderLedger) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Order, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var order models.Order
	err := l.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (l *OrderLedger) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := l.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// OrderPage is one page of the admin order listing.
type OrderPage struct {
	TotalPages  int64          `json:"totalPages"`
	TotalOrders int64          `json:"totalOrders"`
	Orders      []models.Order `json:"orders"`
}

// List returns orders by creation time descending, ten per page.
func (l *OrderLedger) List(ctx context.Context, page int64) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := l.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * OrdersPerPage).
		SetLimit(OrdersPerPage)

	cursor, err := l.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return &OrderPage{
		TotalPages:  totalPages(total, OrdersPerPage),
		TotalOrders: total,
		Orders:      orders,
	}, nil
}

// totalPages is ceil(total/perPage) with a minimum of one page, so an empty
// collection still reports a single empty page.
func totalPages(total, perPage int64) int64 {
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

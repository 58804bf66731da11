package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
	"backend/internal/store"
)

// OrderLedger is the ledger surface the admin order routes depend on.
type OrderLedger interface {
	List(ctx context.Context, page int64) (*store.OrderPage, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// GetOrders pages the ledger for the admin console, newest first.
func GetOrders(ledger OrderLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		page, err := ledger.List(ctx, parsePage(c.Query("page")))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

type updateOrderRequest struct {
	Status       *string    `json:"status"`
	Date         *time.Time `json:"date"`
	PriceTotal   *float64   `json:"priceTotal"`
	ProductIDs   []string   `json:"productIds"`
	ProductNames []string   `json:"productNames"`
	Quantities   []int      `json:"quantities"`
}

// updateFields maps the supplied fields to a partial update. The embedded
// customer snapshot is deliberately not updatable.
func (r updateOrderRequest) updateFields() (bson.M, error) {
	set := bson.M{}
	if r.Status != nil {
		if !models.ValidStatus(*r.Status) {
			return nil, errors.New("unrecognized order status")
		}
		set["status"] = *r.Status
	}
	if r.Date != nil {
		set["date"] = *r.Date
	}
	if r.PriceTotal != nil {
		set["priceTotal"] = *r.PriceTotal
	}
	if r.ProductIDs != nil {
		set["productIds"] = models.ProductIDList(r.ProductIDs)
	}
	if r.ProductNames != nil {
		set["productNames"] = r.ProductNames
	}
	if r.Quantities != nil {
		set["quantities"] = r.Quantities
	}
	return set, nil
}

// UpdateOrder applies a partial update, typically a status transition. Any
// recognized status may be set; there is no transition table.
func UpdateOrder(ledger OrderLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req updateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		fields, err := req.updateFields()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := ledger.Update(ctx, orderID, fields)
		if errors.Is(err, store.ErrOrderNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order updated: %s", route, order.ID.Hex())
		c.JSON(http.StatusOK, order)
	}
}

func DeleteOrder(ledger OrderLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err = ledger.Delete(ctx, orderID)
		if errors.Is(err, store.ErrOrderNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order deleted: %s", route, orderID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

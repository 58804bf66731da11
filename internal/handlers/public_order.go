package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"backend/internal/checkout"
	"backend/internal/pricing"
	"backend/internal/store"
)

type checkoutCustomerRequest struct {
	Phone          string  `json:"phone"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	AdditionalInfo *string `json:"additionalInfo"`
	Email          *string `json:"email"`
	Area           string  `json:"area"`
}

type createOrderRequest struct {
	Customer     *checkoutCustomerRequest `json:"customer" binding:"required"`
	Date         *time.Time               `json:"date"`
	ProductIDs   []string                 `json:"productIds"`
	ProductNames []string                 `json:"productNames"`
	Quantities   []int                    `json:"quantities"`
	UnitPrices   []float64                `json:"unitPrices"`
	PriceTotal   *float64                 `json:"priceTotal"`
	Status       string                   `json:"status"`
	RequestToken string                   `json:"requestToken"`
}

func (r createOrderRequest) toInput() checkout.Input {
	in := checkout.Input{
		Customer: store.CustomerCandidate{
			Phone:          strings.TrimSpace(r.Customer.Phone),
			Name:           strings.TrimSpace(r.Customer.Name),
			Address:        strings.TrimSpace(r.Customer.Address),
			AdditionalInfo: r.Customer.AdditionalInfo,
			Email:          r.Customer.Email,
		},
		Area:         pricing.Area(strings.TrimSpace(r.Customer.Area)),
		ProductIDs:   r.ProductIDs,
		ProductNames: r.ProductNames,
		Quantities:   r.Quantities,
		UnitPrices:   r.UnitPrices,
		PriceTotal:   r.PriceTotal,
		Status:       r.Status,
		RequestToken: strings.TrimSpace(r.RequestToken),
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

// CreateOrder is the public checkout endpoint. A replayed requestToken
// returns the already-placed order with 200 instead of inserting a duplicate.
func CreateOrder(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, replayed, err := svc.Place(ctx, req.toInput())
		if err != nil {
			var verr *checkout.ValidationError
			switch {
			case errors.As(err, &verr):
				respondWithError(c, http.StatusBadRequest, route, verr.Message)
			case errors.Is(err, store.ErrMissingPhone),
				errors.Is(err, store.ErrMissingRequiredField):
				respondWithError(c, http.StatusBadRequest, route, err.Error())
			default:
				respondWithError(c, http.StatusInternalServerError, route, "db error")
			}
			return
		}

		if replayed {
			log.Printf("[%s] replayed checkout token, returning order %s", route, order.ID.Hex())
			c.JSON(http.StatusOK, order)
			return
		}

		log.Printf("[%s] order created: %s customer=%s total=%v", route, order.ID.Hex(), order.Customer.Phone, order.PriceTotal)
		c.JSON(http.StatusCreated, order)
	}
}

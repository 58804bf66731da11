package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"backend/internal/store"
)

// GetCustomerByPhone is the public lookup the storefront uses to prefill the
// checkout form for returning customers.
func GetCustomerByPhone(directory *store.CustomerDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers/by-phone/:phone"
		defer handlePanic(c, route)

		phone := strings.TrimSpace(c.Param("phone"))
		if phone == "" {
			respondWithError(c, http.StatusBadRequest, route, "phone is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		customer, err := directory.FindByPhone(ctx, phone)
		if errors.Is(err, store.ErrCustomerNotFound) {
			respondWithError(c, http.StatusNotFound, route, "customer not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}

// GetCustomers pages the directory for the admin console, with an optional
// phone or name search.
func GetCustomers(directory *store.CustomerDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		page, err := directory.List(ctx, parsePage(c.Query("page")), c.Query("search"))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

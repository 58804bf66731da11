package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"backend/internal/models"
)

// pingStore rejects the catalog request early when the deployment is
// unreachable, instead of letting the cursor time out mid-listing.
func pingStore(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

/*
GET /products
- filters: category, q (name/description regex), isNewProduct, isFeatured
- pagination only when page is supplied; otherwise the full list
*/
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		if err := pingStore(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["$or"] = bson.A{
				bson.M{"name": bson.M{"$regex": q, "$options": "i"}},
				bson.M{"description": bson.M{"$regex": q, "$options": "i"}},
			}
		}
		if isNew := c.Query("isNewProduct"); isNew != "" {
			filter["isNewProduct"] = isNew == "true"
		}
		if featured := c.Query("isFeatured"); featured != "" {
			filter["isFeatured"] = featured == "true"
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pageStr := c.Query("page")
		if pageStr == "" {
			cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			defer cursor.Close(ctx)

			products := []models.Product{}
			if err := cursor.All(ctx, &products); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "decode error")
				return
			}
			decorateProducts(products)
			c.JSON(http.StatusOK, products)
			return
		}

		page := parsePage(pageStr)
		const perPage = 10

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		totalPages := (total + perPage - 1) / perPage
		if totalPages < 1 {
			totalPages = 1
		}

		findOptions.SetSkip((page - 1) * perPage).SetLimit(perPage)

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := []models.Product{}
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}
		decorateProducts(products)

		c.JSON(http.StatusOK, gin.H{
			"totalPages":    totalPages,
			"totalProducts": total,
			"products":      products,
		})
	}
}

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		decorateProduct(&product)
		c.JSON(http.StatusOK, product)
	}
}

type createProductRequest struct {
	Name         string   `json:"name"`
	ImageURLs    []string `json:"imageUrls"`
	VideoURLs    []string `json:"videoUrls"`
	Description  string   `json:"description"`
	ActualPrice  *float64 `json:"actualPrice"`
	OfferPrice   *float64 `json:"offerPrice"`
	Stock        *int     `json:"stock"`
	Category     string   `json:"category"`
	IsNewProduct bool     `json:"isNewProduct"`
	IsFeatured   bool     `json:"isFeatured"`
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		if strings.TrimSpace(req.Name) == "" || req.ActualPrice == nil || req.Stock == nil {
			respondWithError(c, http.StatusBadRequest, route, "name, actualPrice, stock are required")
			return
		}

		now := time.Now()
		product := models.Product{
			Name:         strings.TrimSpace(req.Name),
			ImageURLs:    req.ImageURLs,
			VideoURLs:    req.VideoURLs,
			Description:  req.Description,
			ActualPrice:  *req.ActualPrice,
			OfferPrice:   req.OfferPrice,
			Stock:        *req.Stock,
			Category:     req.Category,
			IsNewProduct: req.IsNewProduct,
			IsFeatured:   req.IsFeatured,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if product.ImageURLs == nil {
			product.ImageURLs = []string{}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		decorateProduct(&product)
		c.JSON(http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name         *string  `json:"name"`
	ImageURLs    []string `json:"imageUrls"`
	VideoURLs    []string `json:"videoUrls"`
	Description  *string  `json:"description"`
	ActualPrice  *float64 `json:"actualPrice"`
	OfferPrice   *float64 `json:"offerPrice"`
	Stock        *int     `json:"stock"`
	Category     *string  `json:"category"`
	IsNewProduct *bool    `json:"isNewProduct"`
	IsFeatured   *bool    `json:"isFeatured"`
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.ImageURLs != nil {
			set["imageUrls"] = req.ImageURLs
		}
		if req.VideoURLs != nil {
			set["videoUrls"] = req.VideoURLs
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.ActualPrice != nil {
			set["actualPrice"] = *req.ActualPrice
		}
		if req.OfferPrice != nil {
			set["offerPrice"] = *req.OfferPrice
		}
		if req.Stock != nil {
			set["stock"] = *req.Stock
		}
		if req.Category != nil {
			set["category"] = *req.Category
		}
		if req.IsNewProduct != nil {
			set["isNewProduct"] = *req.IsNewProduct
		}
		if req.IsFeatured != nil {
			set["isFeatured"] = *req.IsFeatured
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		decorateProduct(&product)
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

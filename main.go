package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"backend/internal/checkout"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/pricing"
	"backend/internal/store"
)

func main() {
	cfg := config.Load()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Println("mongo disconnect error:", err)
		}
	}()

	db := client.Database(cfg.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureCustomerIndexes(db); err != nil {
		log.Printf("customer index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureAdminIndexes(db); err != nil {
		log.Printf("admin index warning: %v", err)
	}

	engine := pricing.NewEngine(cfg.DeliveryFeeBDT)
	directory := store.NewCustomerDirectory(db)
	ledger := store.NewOrderLedger(db)
	checkoutSvc := checkout.NewService(engine, directory, ledger)

	r := gin.Default()

	r.POST("/orders", handlers.CreateOrder(checkoutSvc))
	r.GET("/customers/by-phone/:phone", handlers.GetCustomerByPhone(directory))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))

	r.POST("/admin/login", handlers.AdminLogin(db, cfg.JWTSecret, cfg.AdminTokenTTL))

	authed := r.Group("/")
	authed.Use(middleware.AdminAuth(cfg.JWTSecret))
	{
		authed.GET("/orders", handlers.GetOrders(ledger))
		authed.PUT("/orders/:id", handlers.UpdateOrder(ledger))
		authed.DELETE("/orders/:id", handlers.DeleteOrder(ledger))

		authed.GET("/customers", handlers.GetCustomers(directory))

		authed.POST("/products", handlers.CreateProduct(db))
		authed.PUT("/products/:id", handlers.UpdateProduct(db))
		authed.DELETE("/products/:id", handlers.DeleteProduct(db))
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

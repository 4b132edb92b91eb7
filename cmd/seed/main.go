package main

import (
	"context"
	"log"

	"github.com/ameyabis/projet-7-api-rest/internal/config"
	"github.com/ameyabis/projet-7-api-rest/internal/db"
	"github.com/ameyabis/projet-7-api-rest/internal/fixtures"
	"github.com/ameyabis/projet-7-api-rest/internal/model"
	"github.com/ameyabis/projet-7-api-rest/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Customer{}, &model.User{}, &model.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	customerRepo := repository.NewCustomerRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	res, err := fixtures.Load(context.Background(), customerRepo, userRepo, productRepo)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Customers created: %d (updated: %d)", res.CustomersCreated, res.CustomersUpdated)
	log.Printf("  - Users created: %d", res.UsersCreated)
	log.Printf("  - Products created: %d", res.ProductsCreated)
}

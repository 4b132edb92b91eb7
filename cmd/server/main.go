package main

import (
	"log"
	"net/http"

	"github.com/ameyabis/projet-7-api-rest/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ameyabis/projet-7-api-rest/internal/auth"
	"github.com/ameyabis/projet-7-api-rest/internal/cache"
	"github.com/ameyabis/projet-7-api-rest/internal/config"
	"github.com/ameyabis/projet-7-api-rest/internal/db"
	"github.com/ameyabis/projet-7-api-rest/internal/handler"
	"github.com/ameyabis/projet-7-api-rest/internal/hateoas"
	"github.com/ameyabis/projet-7-api-rest/internal/model"
	"github.com/ameyabis/projet-7-api-rest/internal/repository"
	"github.com/ameyabis/projet-7-api-rest/internal/router"
	"github.com/ameyabis/projet-7-api-rest/internal/service"
)

// @title BileMo API
// @version 1.0
// @description B2B catalog API exposing BileMo products and per-company users, with JWT authentication.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Customer{},
		&model.User{},
		&model.Product{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	taggedCache := cache.NewTagged(cacheClient, cfg.CacheTTL)

	// Hypermedia links share the router's route table.
	registry := hateoas.NewRegistry(router.Routes()...)
	serializer := hateoas.NewSerializer(registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	customerRepo := repository.NewCustomerRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	productService := service.NewProductService(productRepo, taggedCache, serializer)
	userService := service.NewUserService(userRepo, customerRepo, taggedCache, serializer, cfg.CacheWriteInvalidate)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	userHandler := handler.NewUserHandler(userService, registry)

	// Register routes
	router.Register(e, cfg, tokenStore, authHandler, productHandler, userHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

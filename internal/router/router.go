package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ameyabis/projet-7-api-rest/internal/auth"
	"github.com/ameyabis/projet-7-api-rest/internal/config"
	"github.com/ameyabis/projet-7-api-rest/internal/handler"
	"github.com/ameyabis/projet-7-api-rest/internal/hateoas"
	"github.com/ameyabis/projet-7-api-rest/internal/model"
)

// Routes is the single route table: the hypermedia registry and the echo
// registrations below are both built from it, so serialized links always
// match the real routing.
func Routes() []hateoas.Route {
	return []hateoas.Route{
		{Name: model.RouteAllProducts, Method: http.MethodGet, Path: "/api/product"},
		{Name: model.RouteOneProduct, Method: http.MethodGet, Path: "/api/product/:id"},
		{Name: model.RouteAllUsers, Method: http.MethodGet, Path: "/api/user"},
		{Name: model.RouteOneUser, Method: http.MethodGet, Path: "/api/user/:id"},
		{Name: model.RouteCreateUser, Method: http.MethodPost, Path: "/api/user"},
		{Name: model.RouteDeleteUser, Method: http.MethodDelete, Path: "/api/user/:id"},
	}
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Catalog is public
	api.GET("/product", productHandler.ListProducts)
	api.GET("/product/:id", productHandler.GetProduct)

	// These routes require JWT authentication; the claims carry the tenant.
	// Logged-out access tokens are rejected until they expire.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), auth.RejectBlacklisted(tokenStore))

	secured.POST("/auth/logout", authHandler.Logout)

	secured.GET("/user", userHandler.ListUsers)
	secured.GET("/user/:id", userHandler.GetUser)
	secured.POST("/user", userHandler.CreateUser)
	secured.DELETE("/user/:id", userHandler.DeleteUser)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

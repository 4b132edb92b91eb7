package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/ameyabis/projet-7-api-rest/internal/errors"
	"github.com/ameyabis/projet-7-api-rest/internal/service"
)

// defaultProductLimit is the page size when the limit query param is absent.
const defaultProductLimit = 10

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts godoc
// @Summary List catalog products
// @Tags products
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Products per page" default(10)
// @Success 200 {array} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /product [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	page, limit, err := pageParams(c, defaultProductLimit)
	if err != nil {
		return err
	}

	body, err := h.productService.ListProducts(c.Request().Context(), page, limit)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSONBlob(http.StatusOK, body)
}

// GetProduct godoc
// @Summary Get one product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /product/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid product ID",
			Code:  "INVALID_ID",
		})
	}

	body, err := h.productService.GetProduct(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSONBlob(http.StatusOK, body)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ameyabis/projet-7-api-rest/internal/auth"
	apperrors "github.com/ameyabis/projet-7-api-rest/internal/errors"
	"github.com/ameyabis/projet-7-api-rest/internal/hateoas"
	"github.com/ameyabis/projet-7-api-rest/internal/model"
	"github.com/ameyabis/projet-7-api-rest/internal/service"
)

// defaultUserLimit is the page size when the limit query param is absent.
const defaultUserLimit = 3

// UserHandler handles tenant-scoped user endpoints. The customer id always
// comes from the validated JWT claims, never from the request payload.
type UserHandler struct {
	userService service.UserService
	routes      *hateoas.Registry
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, routes *hateoas.Registry) *UserHandler {
	return &UserHandler{userService: userService, routes: routes}
}

// CreateUserRequest represents a user creation request.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=180"`
	Password  string `json:"password" validate:"required,min=6,max=180"`
	Firstname string `json:"firstname" validate:"required,min=1,max=180"`
	Lastname  string `json:"lastname" validate:"required,min=1,max=180"`
	Email     string `json:"email" validate:"required,email,max=180"`
}

// ListUsers godoc
// @Summary List the company's users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Users per page" default(3)
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	page, limit, err := pageParams(c, defaultUserLimit)
	if err != nil {
		return err
	}

	body, err := h.userService.ListUsers(c.Request().Context(), claims.CustomerID, page, limit)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSONBlob(http.StatusOK, body)
}

// GetUser godoc
// @Summary Get one of the company's users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := userID(c)
	if err != nil {
		return err
	}

	body, err := h.userService.GetUser(c.Request().Context(), claims.CustomerID, id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSONBlob(http.StatusOK, body)
}

// CreateUser godoc
// @Summary Create a user for the company
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ValidationResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, validationResponse(err))
	}

	body, id, err := h.userService.CreateUser(c.Request().Context(), claims.CustomerID, service.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if location, err := h.routes.Href(model.RouteOneUser, hateoas.Param("id", id)); err == nil {
		c.Response().Header().Set(echo.HeaderLocation, location)
	}
	return c.JSONBlob(http.StatusCreated, body)
}

// DeleteUser godoc
// @Summary Delete one of the company's users
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.Request().Context(), claims.CustomerID, id); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

func userID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid user ID",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// validationResponse flattens validator errors into a field → message map.
func validationResponse(err error) apperrors.ValidationResponse {
	resp := apperrors.ValidationResponse{
		Error:  "validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: map[string]string{},
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				resp.Fields[field] = field + " is required"
			case "email":
				resp.Fields[field] = field + " must be a valid email address"
			case "min":
				resp.Fields[field] = field + " must be at least " + fe.Param() + " characters"
			case "max":
				resp.Fields[field] = field + " must be at most " + fe.Param() + " characters"
			default:
				resp.Fields[field] = field + " is invalid"
			}
		}
	}
	return resp
}

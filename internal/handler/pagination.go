package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/ameyabis/projet-7-api-rest/internal/errors"
)

// pageParams reads the page/limit query parameters, falling back to defaults
// when absent. Non-numeric values are rejected; out-of-range values are left
// for the repository contract to reject.
func pageParams(c echo.Context, defaultLimit int) (page, limit int, err error) {
	page, err = intQuery(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err = intQuery(c, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: name + " must be an integer",
			Code:  "INVALID_PAGINATION",
		})
	}
	return value, nil
}

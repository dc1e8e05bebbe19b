package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/congraph/pkg/logger"
	"github.com/OFFIS-RIT/congraph/pkg/store"
)

// errorResponse is the structured error payload of the query surface.
// Server-side details never reach the message field.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeNotFound   = "not_found"
	codeBadRequest = "bad_request"
	codeInternal   = "internal_error"
)

func respondError(c echo.Context, err error, resource string) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{
			Code:    codeNotFound,
			Message: resource + " not found",
		})
	}
	logger.Error("Graph lookup failed", "resource", resource, "err", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{
		Code:    codeInternal,
		Message: "internal error",
	})
}

func respondBadRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorResponse{
		Code:    codeBadRequest,
		Message: "Invalid request params",
	})
}

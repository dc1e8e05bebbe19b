package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/congraph/internal/server/middleware"
)

// GetChunkHandler answers a chunk lookup by id.
func GetChunkHandler(c echo.Context) error {
	type getChunkParams struct {
		ChunkID string `param:"id" validate:"required"`
	}

	params := new(getChunkParams)
	if err := c.Bind(params); err != nil {
		return respondBadRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return respondBadRequest(c)
	}

	graphStore := c.(*middleware.AppContext).Store
	chunk, err := graphStore.ChunkByID(c.Request().Context(), params.ChunkID)
	if err != nil {
		return respondError(c, err, "chunk")
	}

	return c.JSON(http.StatusOK, chunk)
}

package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/congraph/internal/server/middleware"
)

const defaultLimit = 50

// GetConceptHandler answers a concept lookup by id.
func GetConceptHandler(c echo.Context) error {
	type getConceptParams struct {
		ConceptID string `param:"id" validate:"required"`
	}

	params := new(getConceptParams)
	if err := c.Bind(params); err != nil {
		return respondBadRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return respondBadRequest(c)
	}

	graphStore := c.(*middleware.AppContext).Store
	concept, err := graphStore.ConceptByID(c.Request().Context(), params.ConceptID)
	if err != nil {
		return respondError(c, err, "concept")
	}

	return c.JSON(http.StatusOK, concept)
}

// LookupConceptHandler answers a concept lookup by lemma.
func LookupConceptHandler(c echo.Context) error {
	type lookupConceptParams struct {
		Lemma string `query:"lemma" validate:"required"`
	}

	params := new(lookupConceptParams)
	if err := c.Bind(params); err != nil {
		return respondBadRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return respondBadRequest(c)
	}

	graphStore := c.(*middleware.AppContext).Store
	concept, err := graphStore.ConceptByLemma(c.Request().Context(), params.Lemma)
	if err != nil {
		return respondError(c, err, "concept")
	}

	return c.JSON(http.StatusOK, concept)
}

// GetNeighborsHandler answers a neighborhood exploration request.
func GetNeighborsHandler(c echo.Context) error {
	type getNeighborsParams struct {
		ConceptID string `param:"id" validate:"required"`
		Limit     int    `query:"limit"`
	}

	params := new(getNeighborsParams)
	if err := c.Bind(params); err != nil {
		return respondBadRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return respondBadRequest(c)
	}
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}

	graphStore := c.(*middleware.AppContext).Store
	neighbors, err := graphStore.Neighbors(c.Request().Context(), params.ConceptID, params.Limit)
	if err != nil {
		return respondError(c, err, "concept")
	}

	return c.JSON(http.StatusOK, neighbors)
}

// GetEvidenceHandler answers a provenance request: the chunks and scored
// relations behind a concept.
func GetEvidenceHandler(c echo.Context) error {
	type getEvidenceParams struct {
		ConceptID string `param:"id" validate:"required"`
		Limit     int    `query:"limit"`
	}

	params := new(getEvidenceParams)
	if err := c.Bind(params); err != nil {
		return respondBadRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return respondBadRequest(c)
	}
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}

	graphStore := c.(*middleware.AppContext).Store
	evidence, err := graphStore.Evidence(c.Request().Context(), params.ConceptID, params.Limit)
	if err != nil {
		return respondError(c, err, "concept")
	}

	return c.JSON(http.StatusOK, evidence)
}

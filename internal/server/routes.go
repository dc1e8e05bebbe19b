package server

import (
	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/congraph/internal/server/routes"
)

// RegisterRoutes wires the fixed query surface.
func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Concept routes
	apiRoutes.GET("/concepts", routes.LookupConceptHandler)
	apiRoutes.GET("/concepts/:id", routes.GetConceptHandler)
	apiRoutes.GET("/concepts/:id/neighbors", routes.GetNeighborsHandler)
	apiRoutes.GET("/concepts/:id/evidence", routes.GetEvidenceHandler)

	// Chunk routes
	apiRoutes.GET("/chunks/:id", routes.GetChunkHandler)
}

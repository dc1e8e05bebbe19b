package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/congraph/pkg/store"
)

// AppContext carries the shared application state into route handlers.
type AppContext struct {
	echo.Context
	Store store.GraphStore
}

// AppContextMiddleware wraps every request context with the application
// state.
func AppContextMiddleware(graphStore store.GraphStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{
				Context: c,
				Store:   graphStore,
			})
		}
	}
}

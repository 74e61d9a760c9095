package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/cinema-api/internal/handler" // handlers implementing each endpoint
)

// RegisterRoutes registers the probe endpoints.  /healthz answers as long as
// the process serves HTTP; /readyz additionally pings the store.
func RegisterRoutes(e *echo.Echo, store handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(store))
}

// RegisterCinema registers the cinema collection under /api/cinema.  The
// given middleware (cache, rate limiting) applies to these routes only.
func RegisterCinema(e *echo.Echo, h *handler.CinemaHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/cinema", mw...)

	g.POST("", h.CreateCinema)
	g.GET("", h.ListCinemas)
	g.GET("/:id", h.GetCinema)
	g.PUT("/:id", h.UpdateCinema)
	g.PATCH("/:id", h.UpdateCinema) // same partial semantics as PUT
	g.DELETE("/:id", h.DeleteCinema)
}

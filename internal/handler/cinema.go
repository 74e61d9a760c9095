// Package handler exposes the cinema collection over HTTP. Each handler
// parses its input, delegates to repository.CinemaRepo and maps the outcome
// to a status code and JSON body.
package handler

import (
	"errors"   // errors.Is/As classify repository failures
	"net/http" // status code constants
	"strconv"  // parses the limit query parameter

	"github.com/labstack/echo/v4" // echo provides request/response handling
	"github.com/rs/zerolog"       // logs server-side failures

	"github.com/iliyamo/cinema-api/internal/model"      // record and patch types
	"github.com/iliyamo/cinema-api/internal/repository" // adapter and error kinds
)

// CinemaHandler serves /api/cinema.
type CinemaHandler struct {
	Repo *repository.CinemaRepo // Repo performs the store operations
	log  zerolog.Logger
}

// NewCinemaHandler constructs a CinemaHandler and panics if repo is nil.
func NewCinemaHandler(repo *repository.CinemaRepo, log zerolog.Logger) *CinemaHandler {
	if repo == nil {
		panic("nil repository passed to NewCinemaHandler")
	}
	return &CinemaHandler{Repo: repo, log: log}
}

// cinemaBody is the JSON or form body accepted by POST /api/cinema.
type cinemaBody struct {
	Movie       string `json:"movie" form:"movie"`
	Description string `json:"description" form:"description"`
	Image       string `json:"image" form:"image"`
}

// CreateCinema handles POST /api/cinema and returns the stored record.
func (h *CinemaHandler) CreateCinema(c echo.Context) error {
	var body cinemaBody
	if err := c.Bind(&body); err != nil { // malformed JSON or unsupported content type
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	created, err := h.Repo.Create(c.Request().Context(), model.Cinema{
		Movie:       body.Movie,
		Description: body.Description,
		Image:       body.Image,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, created)
}

// ListCinemas handles GET /api/cinema[?limit=N]. A limit that is not a
// positive integer returns every record.
func (h *CinemaHandler) ListCinemas(c echo.Context) error {
	items, err := h.Repo.List(c.Request().Context(), parseLimit(c.QueryParam("limit")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetCinema handles GET /api/cinema/:id.
func (h *CinemaHandler) GetCinema(c echo.Context) error {
	cinema, err := h.Repo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cinema)
}

// UpdateCinema handles PUT and PATCH /api/cinema/:id. Only the fields present
// in the body change; the response is the record after the update.
func (h *CinemaHandler) UpdateCinema(c echo.Context) error {
	var patch model.CinemaPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	updated, err := h.Repo.UpdateByID(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCinema handles DELETE /api/cinema/:id.
func (h *CinemaHandler) DeleteCinema(c echo.Context) error {
	if err := h.Repo.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cinema deleted successfully"})
}

// fail maps repository errors to responses:
// validation 400, not found 404, store unavailable 503, anything else 500.
func (h *CinemaHandler) fail(c echo.Context, err error) error {
	var verr *repository.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, repository.ErrCinemaNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
	case errors.Is(err, repository.ErrStoreUnavailable):
		h.log.Error().Err(err).Str("path", c.Path()).Msg("store unavailable")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

package votes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/auth"
	"github.com/wikistars5/wikistars5/internal/figures"
)

type CastRequest struct {
	Choice string `json:"choice"`
}

// Handlers provides HTTP handlers for voting.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers vote routes on the figures group. All of them
// require authentication; mutations additionally pass through writeLimit.
func (h *Handlers) RegisterRoutes(g *echo.Group, requireAuth, writeLimit echo.MiddlewareFunc) {
	g.GET("/:id/votes", h.Mine, requireAuth)
	g.PUT("/:id/attitude", h.cast(figures.KindAttitude), requireAuth, writeLimit)
	g.DELETE("/:id/attitude", h.retract(figures.KindAttitude), requireAuth, writeLimit)
	g.PUT("/:id/emotion", h.cast(figures.KindEmotion), requireAuth, writeLimit)
	g.DELETE("/:id/emotion", h.retract(figures.KindEmotion), requireAuth, writeLimit)
}

// PUT /api/v1/figures/:id/attitude and /emotion
func (h *Handlers) cast(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req CastRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		res, err := h.service.Cast(c.Request().Context(), auth.UserID(c), c.Param("id"), kind, req.Choice)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

// DELETE /api/v1/figures/:id/attitude and /emotion
func (h *Handlers) retract(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := h.service.Retract(c.Request().Context(), auth.UserID(c), c.Param("id"), kind)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

// Mine returns the caller's votes on a figure.
// GET /api/v1/figures/:id/votes
func (h *Handlers) Mine(c echo.Context) error {
	mine, err := h.service.Mine(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, mine)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrFigureNotFound), errors.Is(err, ErrNoVote):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidAttitude), errors.Is(err, ErrInvalidEmotion), errors.Is(err, ErrInvalidKind):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

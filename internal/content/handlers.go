package content

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/auth"
)

// Handlers provides HTTP handlers for community content.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers content routes on the figures and content groups.
func (h *Handlers) RegisterRoutes(figuresGroup, contentGroup *echo.Group, requireAuth, writeLimit echo.MiddlewareFunc) {
	figuresGroup.GET("/:id/content", h.List)
	figuresGroup.POST("/:id/content", h.Add, requireAuth, writeLimit)
	contentGroup.DELETE("/:id", h.Delete, requireAuth, writeLimit)
}

// GET /api/v1/figures/:id/content?platform=
func (h *Handlers) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), c.Param("id"), c.QueryParam("platform"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// POST /api/v1/figures/:id/content
func (h *Handlers) Add(c echo.Context) error {
	var input AddInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.service.Add(c.Request().Context(), auth.UserID(c), c.Param("id"), input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// DELETE /api/v1/content/:id
func (h *Handlers) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid content id")
	}
	claims := auth.GetClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if err := h.service.Delete(c.Request().Context(), claims.UserID, claims.IsAdmin(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrContentNotFound), errors.Is(err, ErrFigureNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateContent):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotSubmitter):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrUnsupportedURL), errors.Is(err, ErrInvalidTitle), errors.Is(err, ErrInvalidPlatform):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

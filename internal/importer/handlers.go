package importer

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/auth"
	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/scraper"
)

// Handlers exposes the import flow to admins.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterAdminRoutes registers import routes on the admin group.
func (h *Handlers) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/figures/import/sources", h.Sources)
	g.POST("/figures/import", h.Import)
}

// GET /api/v1/admin/figures/import/sources
func (h *Handlers) Sources(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Sources())
}

// POST /api/v1/admin/figures/import
func (h *Handlers) Import(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Import(c.Request().Context(), req, auth.UserID(c))
	switch {
	case err == nil:
		if res.Figure != nil {
			return c.JSON(http.StatusCreated, res)
		}
		return c.JSON(http.StatusOK, res)
	case errors.Is(err, ErrPossibleDuplicate):
		return c.JSON(http.StatusConflict, map[string]any{
			"message": err.Error(),
			"result":  res,
		})
	case errors.Is(err, ErrUnknownSource), errors.Is(err, ErrNameRequired), errors.Is(err, figures.ErrInvalidFigure):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, scraper.ErrNoMatch):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, figures.ErrFigureExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}

package defaults

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for seeding.
type Handlers struct {
	service *Service
}

// NewHandlers creates new defaults handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterAdminRoutes registers seed routes on the admin group.
func (h *Handlers) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/seed", h.Seed)
}

// Seed applies the embedded figure list, or the YAML request body when given.
// POST /api/v1/admin/seed
func (h *Handlers) Seed(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var data []byte
	if len(body) > 0 {
		data = body
	}

	res, err := h.service.SeedFigures(c.Request().Context(), data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

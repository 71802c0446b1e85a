package figures

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/auth"
)

// Handlers provides HTTP handlers for figure operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates new figure handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the public figure routes. The group is expected to
// carry optional authentication so Get can include the caller's votes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Get)
}

// RegisterAdminRoutes registers figure management routes on an admin group.
func (h *Handlers) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/figures", h.Create)
	g.GET("/figures/similar", h.Similar)
	g.PUT("/figures/:id", h.Update)
	g.DELETE("/figures/:id", h.Delete)
}

// List returns a page of figures.
// GET /api/v1/figures
func (h *Handlers) List(c echo.Context) error {
	opts := ListOptions{
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	}
	opts.Page, _ = strconv.Atoi(c.QueryParam("page"))
	opts.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))

	resp, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Search looks figures up by name prefix.
// GET /api/v1/figures/search?q=
func (h *Handlers) Search(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	results, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, results)
}

// Get returns a figure with tallies, plus the caller's votes when authenticated.
// GET /api/v1/figures/:id
func (h *Handlers) Get(c echo.Context) error {
	f, err := h.service.GetForUser(c.Request().Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, f)
}

// Create adds a figure.
// POST /api/v1/admin/figures
func (h *Handlers) Create(c echo.Context) error {
	var input SaveInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f, err := h.service.Create(c.Request().Context(), input, auth.UserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

// Update edits a figure.
// PUT /api/v1/admin/figures/:id
func (h *Handlers) Update(c echo.Context) error {
	var input SaveInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes a figure.
// DELETE /api/v1/admin/figures/:id
func (h *Handlers) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Similar lists existing figures whose names resemble ?name=.
// GET /api/v1/admin/figures/similar
func (h *Handlers) Similar(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	matches, err := h.service.Similar(c.Request().Context(), name)
	if err != nil {
		return mapError(err)
	}
	if matches == nil {
		matches = []Match{}
	}
	return c.JSON(http.StatusOK, matches)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrFigureNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrFigureExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidFigure), errors.Is(err, ErrInvalidQuery):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

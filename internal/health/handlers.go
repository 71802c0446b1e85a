package health

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for health endpoints.
type Handlers struct {
	health  *Service
	storage *StorageChecker
}

// NewHandlers creates health handlers. storage may be nil.
func NewHandlers(health *Service, storage *StorageChecker) *Handlers {
	return &Handlers{health: health, storage: storage}
}

// RegisterRoutes registers health routes on an admin group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAll)
	g.GET("/summary", h.GetSummary)
	g.POST("/storage/check", h.CheckStorage)
}

// GetAll returns all tracked items grouped by category.
// GET /api/v1/admin/health
func (h *Handlers) GetAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.GetAll())
}

// GET /api/v1/admin/health/summary
func (h *Handlers) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.GetSummary())
}

// CheckStorage probes the database now and returns the fresh item.
// POST /api/v1/admin/health/storage/check
func (h *Handlers) CheckStorage(c echo.Context) error {
	if h.storage == nil {
		return echo.NewHTTPError(http.StatusNotFound, "storage checks are not configured")
	}
	// The outcome is recorded on the item.
	_ = h.storage.Check(c.Request().Context())
	return c.JSON(http.StatusOK, h.health.GetItem(CategoryStorage, DatabaseItemID))
}

package streaks

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/auth"
)

// Handlers exposes streak leaderboards and the caller's own streaks.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers GET /:id/streaks on the figures group and
// GET /streaks on the authenticated /me group.
func (h *Handlers) RegisterRoutes(figuresGroup, meGroup *echo.Group) {
	figuresGroup.GET("/:id/streaks", h.Leaders)
	meGroup.GET("/streaks", h.Mine)
}

// GET /api/v1/figures/:id/streaks?limit=
func (h *Handlers) Leaders(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.service.TopForFigure(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/v1/me/streaks
func (h *Handlers) Mine(c echo.Context) error {
	out, err := h.service.ListForUser(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

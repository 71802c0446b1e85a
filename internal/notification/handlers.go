package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/auth"
)

// Handlers provides HTTP handlers for the inbox and push subscriptions.
type Handlers struct {
	service        *Service
	vapidPublicKey string
}

func NewHandlers(service *Service, vapidPublicKey string) *Handlers {
	return &Handlers{service: service, vapidPublicKey: vapidPublicKey}
}

// RegisterRoutes registers the per-user routes on an authenticated /me group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/inbox", h.ListInbox)
	g.GET("/inbox/unread", h.UnreadCount)
	g.PUT("/inbox/read-all", h.MarkAllRead)
	g.PUT("/inbox/:id/read", h.MarkRead)

	g.GET("/push", h.ListSubscriptions)
	g.POST("/push", h.Subscribe)
	g.POST("/push/test", h.Test)
	g.DELETE("/push/:id", h.Unsubscribe)
}

// RegisterPublicRoutes registers routes that need no authentication.
func (h *Handlers) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/push/vapid-public-key", h.VAPIDPublicKey)
}

// ListInbox returns a page of the caller's notifications.
// GET /api/v1/me/inbox
func (h *Handlers) ListInbox(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	resp, err := h.service.List(c.Request().Context(), auth.UserID(c), page, pageSize)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GET /api/v1/me/inbox/unread
func (h *Handlers) UnreadCount(c echo.Context) error {
	n, err := h.service.UnreadCount(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread": n})
}

// PUT /api/v1/me/inbox/:id/read
func (h *Handlers) MarkRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.service.MarkRead(c.Request().Context(), auth.UserID(c), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PUT /api/v1/me/inbox/read-all
func (h *Handlers) MarkAllRead(c echo.Context) error {
	n, err := h.service.MarkAllRead(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": n})
}

// GET /api/v1/me/push
func (h *Handlers) ListSubscriptions(c echo.Context) error {
	subs, err := h.service.Subscriptions(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, subs)
}

// POST /api/v1/me/push
func (h *Handlers) Subscribe(c echo.Context) error {
	var input SubscribeInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if input.Type == "" {
		input.Type = SubscriptionWebPush
	}

	sub, err := h.service.Subscribe(c.Request().Context(), auth.UserID(c), input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, sub)
}

// DELETE /api/v1/me/push/:id
func (h *Handlers) Unsubscribe(c echo.Context) error {
	if err := h.service.Unsubscribe(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Test sends a test notification to each of the caller's subscriptions.
// POST /api/v1/me/push/test
func (h *Handlers) Test(c echo.Context) error {
	results, err := h.service.Test(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, results)
}

// VAPIDPublicKey returns the application server key browsers subscribe with.
// GET /api/v1/push/vapid-public-key
func (h *Handlers) VAPIDPublicKey(c echo.Context) error {
	if h.vapidPublicKey == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "web push is not configured")
	}
	return c.JSON(http.StatusOK, map[string]string{"publicKey": h.vapidPublicKey})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotificationNotFound), errors.Is(err, ErrSubscriptionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateSubscription):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidSubscription):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// LoginGuard tracks failed logins by client IP and by account.
type LoginGuard interface {
	LockedFor(ip, username string) time.Duration
	RecordFailure(ip, username string)
	RecordSuccess(ip, username string)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

type Handlers struct {
	service *Service
	guard   LoginGuard
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

func (h *Handlers) SetLoginGuard(guard LoginGuard) {
	h.guard = guard
}

// RegisterRoutes registers the public and self-service routes. loginLimit is
// applied to register and login.
func (h *Handlers) RegisterRoutes(g *echo.Group, mw *Middleware, loginLimit echo.MiddlewareFunc) {
	g.POST("/register", h.Register, loginLimit)
	g.POST("/login", h.Login, loginLimit)

	g.GET("/me", h.Me, mw.RequireAuth())
	g.PUT("/me", h.UpdateMe, mw.RequireAuth())
}

// RegisterAdminRoutes registers user management routes on an admin group.
func (h *Handlers) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.PUT("/users/:id/role", h.SetRole)
	g.PUT("/users/:id/enabled", h.SetEnabled)
}

// POST /api/v1/auth/register
func (h *Handlers) Register(c echo.Context) error {
	var input RegisterInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	ip := c.RealIP()
	if h.guard != nil {
		if remaining := h.guard.LockedFor(ip, req.Username); remaining > 0 {
			minutes := int(remaining.Minutes()) + 1
			return echo.NewHTTPError(http.StatusTooManyRequests,
				fmt.Sprintf("too many failed login attempts, try again in %d minute(s)", minutes))
		}
	}

	resp, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) && h.guard != nil {
			h.guard.RecordFailure(ip, req.Username)
		}
		return mapError(err)
	}

	if h.guard != nil {
		h.guard.RecordSuccess(ip, req.Username)
	}
	return c.JSON(http.StatusOK, resp)
}

// GET /api/v1/auth/me
func (h *Handlers) Me(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), UserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// PUT /api/v1/auth/me
func (h *Handlers) UpdateMe(c echo.Context) error {
	var input UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), UserID(c), input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GET /api/v1/admin/users
func (h *Handlers) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	resp, err := h.service.ListUsers(c.Request().Context(), page, pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// PUT /api/v1/admin/users/:id/role
func (h *Handlers) SetRole(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req SetRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.SetRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// PUT /api/v1/admin/users/:id/enabled
func (h *Handlers) SetEnabled(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req SetEnabledRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.SetEnabled(c.Request().Context(), id, req.Enabled)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrUserDisabled):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrLastAdmin):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrInvalidRole):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

package comments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/auth"
)

type ReactRequest struct {
	Reaction string `json:"reaction"`
}

// Handlers provides HTTP handlers for comments and reactions.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers comment routes. Both groups are expected to carry
// optional authentication so listings include the caller's reactions.
func (h *Handlers) RegisterRoutes(figuresGroup, commentsGroup *echo.Group, requireAuth, writeLimit echo.MiddlewareFunc) {
	figuresGroup.GET("/:id/comments", h.List)
	figuresGroup.POST("/:id/comments", h.Create, requireAuth, writeLimit)

	commentsGroup.GET("/:id", h.Get)
	commentsGroup.PUT("/:id", h.Update, requireAuth, writeLimit)
	commentsGroup.DELETE("/:id", h.Delete, requireAuth, writeLimit)
	commentsGroup.GET("/:id/replies", h.Replies)
	commentsGroup.POST("/:id/replies", h.Reply, requireAuth, writeLimit)
	commentsGroup.PUT("/:id/reaction", h.React, requireAuth, writeLimit)
	commentsGroup.DELETE("/:id/reaction", h.Unreact, requireAuth, writeLimit)
}

// List returns a page of top-level comments.
// GET /api/v1/figures/:id/comments?sort=newest|likes
func (h *Handlers) List(c echo.Context) error {
	opts := ListOptions{Sort: c.QueryParam("sort")}
	opts.Page, _ = strconv.Atoi(c.QueryParam("page"))
	opts.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))

	resp, err := h.service.List(c.Request().Context(), c.Param("id"), auth.UserID(c), opts)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create posts a rated comment.
// POST /api/v1/figures/:id/comments
func (h *Handlers) Create(c echo.Context) error {
	var input CreateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	out, err := h.service.Create(c.Request().Context(), auth.UserID(c), c.Param("id"), input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /api/v1/comments/:id
func (h *Handlers) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	comment, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// PUT /api/v1/comments/:id
func (h *Handlers) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Update(c.Request().Context(), auth.UserID(c), id, input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DELETE /api/v1/comments/:id
func (h *Handlers) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
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

// GET /api/v1/comments/:id/replies
func (h *Handlers) Replies(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	replies, err := h.service.Replies(c.Request().Context(), id, auth.UserID(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, replies)
}

// POST /api/v1/comments/:id/replies
func (h *Handlers) Reply(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var input ReplyInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	out, err := h.service.Reply(c.Request().Context(), auth.UserID(c), id, input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PUT /api/v1/comments/:id/reaction
func (h *Handlers) React(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req ReactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.React(c.Request().Context(), auth.UserID(c), id, req.Reaction)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// DELETE /api/v1/comments/:id/reaction
func (h *Handlers) Unreact(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	res, err := h.service.Unreact(c.Request().Context(), auth.UserID(c), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}
	return id, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrCommentNotFound), errors.Is(err, ErrFigureNotFound), errors.Is(err, ErrNoReaction):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyRated):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotAuthor):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrCommentDeleted):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	case errors.Is(err, ErrInvalidText), errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrInvalidParent), errors.Is(err, ErrInvalidReaction):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

package comments

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/auth"
)

func TestHandlers(t *testing.T) {
	svc, tdb, _ := setup(t)
	users := map[string]*auth.Claims{
		"ana":  {UserID: tdb.SeedUser(t, "ana", "user"), Username: "ana", Role: auth.RoleUser},
		"bob":  {UserID: tdb.SeedUser(t, "bob", "user"), Username: "bob", Role: auth.RoleUser},
		"root": {UserID: tdb.SeedUser(t, "root", "admin"), Username: "root", Role: auth.RoleAdmin},
	}

	e := echo.New()
	optionalAuth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, ok := users[c.Request().Header.Get("X-User")]; ok {
				c.Set(auth.ClaimsKey, claims)
			}
			return next(c)
		}
	}
	requireAuth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth.GetClaims(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized)
			}
			return next(c)
		}
	}
	noop := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	NewHandlers(svc).RegisterRoutes(e.Group("/figures", optionalAuth), e.Group("/comments", optionalAuth), requireAuth, noop)

	do := func(method, path, body, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if user != "" {
			req.Header.Set("X-User", user)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/figures/adele/comments", `{"text":"wow","rating":5}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(http.MethodPost, "/figures/adele/comments", `{"text":"wow","rating":5}`, "ana")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created Created
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Comment.ID

	rec = do(http.MethodPost, "/figures/adele/comments", `{"text":"again","rating":4}`, "ana")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(http.MethodPost, "/figures/adele/comments", `{"text":"no rating"}`, "bob")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPost, fmt.Sprintf("/comments/%d/replies", id), `{"text":"agreed"}`, "bob")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodPut, fmt.Sprintf("/comments/%d/reaction", id), `{"reaction":"like"}`, "bob")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"likes":1`)

	rec = do(http.MethodGet, "/figures/adele/comments?sort=likes", "", "bob")
	require.Equal(t, http.StatusOK, rec.Code)
	var page ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, ReactionLike, page.Items[0].MyReaction)
	assert.Equal(t, int64(1), page.Items[0].ReplyCount)

	rec = do(http.MethodGet, fmt.Sprintf("/comments/%d/replies", id), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agreed")

	rec = do(http.MethodPut, fmt.Sprintf("/comments/%d", id), `{"text":"edited"}`, "bob")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(http.MethodPut, fmt.Sprintf("/comments/%d", id), `{"text":"edited"}`, "ana")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "edited")

	rec = do(http.MethodGet, "/comments/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodDelete, fmt.Sprintf("/comments/%d", id), "", "bob")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(http.MethodDelete, fmt.Sprintf("/comments/%d", id), "", "root")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(http.MethodPut, fmt.Sprintf("/comments/%d/reaction", id), `{"reaction":"dislike"}`, "bob")
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = do(http.MethodGet, "/comments/9999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package votes

import (
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
	svc, tdb := setup(t)
	uid := tdb.SeedUser(t, "ana", "user")

	e := echo.New()
	requireAuth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return echo.NewHTTPError(http.StatusUnauthorized)
			}
			c.Set(auth.ClaimsKey, &auth.Claims{UserID: uid, Username: "ana", Role: auth.RoleUser})
			return next(c)
		}
	}
	noop := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	NewHandlers(svc).RegisterRoutes(e.Group("/figures"), requireAuth, noop)

	do := func(method, path, body string, authed bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if authed {
			req.Header.Set("Authorization", "Bearer x")
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPut, "/figures/adele/attitude", `{"choice":"fan"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(http.MethodPut, "/figures/adele/attitude", `{"choice":"fan"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"fan":1`)

	rec = do(http.MethodPut, "/figures/adele/emotion", `{"choice":"fan"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodGet, "/figures/adele/votes", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"attitude":"fan"}`, rec.Body.String())

	rec = do(http.MethodDelete, "/figures/adele/attitude", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodDelete, "/figures/adele/attitude", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodPut, "/figures/nobody/attitude", `{"choice":"fan"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

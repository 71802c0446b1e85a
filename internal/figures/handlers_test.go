package figures

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/auth"
)

func setupHandlers(t *testing.T) *echo.Echo {
	t.Helper()
	svc, _ := newTestService(t)
	h := NewHandlers(svc)

	e := echo.New()
	asAdmin := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(auth.ClaimsKey, &auth.Claims{UserID: 0, Username: "admin", Role: auth.RoleAdmin})
			return next(c)
		}
	}
	h.RegisterRoutes(e.Group("/figures"))
	h.RegisterAdminRoutes(e.Group("/admin", asAdmin))
	return e
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_CreateGetSearch(t *testing.T) {
	e := setupHandlers(t)

	rec := serve(e, http.MethodPost, "/admin/figures", `{"name":"Dua Lipa","category":"person"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created Figure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "dua-lipa", created.ID)

	rec = serve(e, http.MethodPost, "/admin/figures", `{"name":"Dua Lipa"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(e, http.MethodGet, "/figures/dua-lipa", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tallies"`)

	rec = serve(e, http.MethodGet, "/figures/search?q=lip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found []Figure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)

	rec = serve(e, http.MethodGet, "/figures/search?q=", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, http.MethodGet, "/figures/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_UpdateDeleteList(t *testing.T) {
	e := setupHandlers(t)

	rec := serve(e, http.MethodPost, "/admin/figures", `{"name":"Homer Simpson","category":"character"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(e, http.MethodPut, "/admin/figures/homer-simpson", `{"name":"Homer J. Simpson","category":"character"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Homer J. Simpson")

	rec = serve(e, http.MethodPut, "/admin/figures/homer-simpson", `{"name":"","category":"character"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, http.MethodGet, "/figures?category=character", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)

	rec = serve(e, http.MethodGet, "/admin/figures/similar?name=Homer%20J%20Simpsons", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "homer-simpson")

	rec = serve(e, http.MethodDelete, "/admin/figures/homer-simpson", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(e, http.MethodDelete, "/admin/figures/homer-simpson", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

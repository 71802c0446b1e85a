package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/testutil"
)

func setupMiddleware(t *testing.T) (*echo.Echo, *Service, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)

	svc, err := NewService(tdb.Conn, "test-secret", time.Hour, tdb.Logger)
	require.NoError(t, err)

	mw := NewMiddleware(svc)
	e := echo.New()
	whoami := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"userId": UserID(c)})
	}
	e.GET("/private", whoami, mw.RequireAuth())
	e.GET("/admin", whoami, mw.RequireAdmin())
	e.GET("/public", whoami, mw.OptionalAuth())
	return e, svc, tdb
}

func doGet(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	e, svc, tdb := setupMiddleware(t)
	adminID := tdb.SeedUser(t, "admin", RoleAdmin)
	userID := tdb.SeedUser(t, "user", RoleUser)

	userToken, _, err := svc.GenerateToken(userID, "user", RoleUser)
	require.NoError(t, err)
	adminToken, _, err := svc.GenerateToken(adminID, "admin", RoleAdmin)
	require.NoError(t, err)
	userIDJSON := fmt.Sprintf(`"userId":%d`, userID)

	assert.Equal(t, http.StatusUnauthorized, doGet(e, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(e, "/private", "bogus").Code)

	rec := doGet(e, "/private", userToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userIDJSON)

	assert.Equal(t, http.StatusForbidden, doGet(e, "/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, doGet(e, "/admin", adminToken).Code)

	rec = doGet(e, "/public", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":0`)

	rec = doGet(e, "/public", "bogus")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":0`)

	rec = doGet(e, "/public", userToken)
	assert.Contains(t, rec.Body.String(), userIDJSON)
}

func TestMiddleware_DisabledUser(t *testing.T) {
	e, svc, tdb := setupMiddleware(t)
	tdb.SeedUser(t, "admin", RoleAdmin)
	uid := tdb.SeedUser(t, "bob", RoleUser)

	token, _, err := svc.GenerateToken(uid, "bob", RoleUser)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doGet(e, "/private", token).Code)

	_, err = svc.SetEnabled(context.Background(), uid, false)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(e, "/private", token).Code)
	assert.Equal(t, http.StatusForbidden, doGet(e, "/admin", token).Code)

	rec := doGet(e, "/public", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":0`)
}

func TestMiddleware_RoleFromDatabase(t *testing.T) {
	e, svc, tdb := setupMiddleware(t)
	tdb.SeedUser(t, "root", RoleAdmin)
	uid := tdb.SeedUser(t, "carol", RoleAdmin)

	adminToken, _, err := svc.GenerateToken(uid, "carol", RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doGet(e, "/admin", adminToken).Code)

	_, err = svc.SetRole(context.Background(), uid, RoleUser)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(e, "/admin", adminToken).Code)
	assert.Equal(t, http.StatusOK, doGet(e, "/private", adminToken).Code)

	_, err = svc.SetRole(context.Background(), uid, RoleAdmin)
	require.NoError(t, err)
	userToken, _, err := svc.GenerateToken(uid, "carol", RoleUser)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(e, "/admin", userToken).Code)
}

func TestMiddleware_UnknownUser(t *testing.T) {
	e, svc, _ := setupMiddleware(t)

	token, _, err := svc.GenerateToken(4242, "ghost", RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(e, "/private", token).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(e, "/admin", token).Code)
}

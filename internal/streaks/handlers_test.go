package streaks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/auth"
	"github.com/wikistars5/wikistars5/internal/testutil"
)

func TestHandlers(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	uid := tdb.SeedUser(t, "ana", "user")
	tdb.SeedFigure(t, "shakira", "Shakira")

	now := day(10)
	svc := newTestService(t, tdb, &now)
	_, err := svc.Record(ctx, uid, "shakira", day(9))
	require.NoError(t, err)
	_, err = svc.Record(ctx, uid, "shakira", day(10))
	require.NoError(t, err)

	e := echo.New()
	me := e.Group("/me", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(auth.ClaimsKey, &auth.Claims{UserID: uid, Username: "ana", Role: auth.RoleUser})
			return next(c)
		}
	})
	NewHandlers(svc).RegisterRoutes(e.Group("/figures"), me)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/figures/shakira/streaks", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var leaders []Streak
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leaders))
	require.Len(t, leaders, 1)
	assert.Equal(t, "ana", leaders[0].Username)
	assert.Equal(t, 2, leaders[0].Current)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me/streaks", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []Streak
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Shakira", mine[0].FigureName)
}

package defaults

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/auth"
	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/testutil"
)

func newService(t *testing.T) (*Service, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)
	authSvc, err := auth.NewService(tdb.Conn, "test-secret", time.Hour, tdb.Logger)
	require.NoError(t, err)
	return NewService(tdb.Conn, figures.NewService(tdb.Conn, tdb.Logger), authSvc, tdb.Logger), tdb
}

func TestEmbeddedSeedParses(t *testing.T) {
	inputs, err := ParseSeed(embeddedFigures)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(inputs), 10)
	for _, in := range inputs {
		assert.NotEmpty(t, in.Name)
		assert.True(t, figures.ValidCategory(in.Category), in.Name)
	}
}

func TestSeedFigures_Idempotent(t *testing.T) {
	svc, tdb := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedIfEmpty(ctx))
	n, err := tdb.Queries().CountFigures(ctx, "")
	require.NoError(t, err)
	inputs, _ := ParseSeed(embeddedFigures)
	assert.Equal(t, int64(len(inputs)), n)

	res, err := svc.SeedFigures(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Equal(t, len(inputs), res.Skipped)

	f, err := tdb.Queries().GetFigure(ctx, "shakira")
	require.NoError(t, err)
	assert.Equal(t, "Colombian", f.Nationality)

	kw, err := figures.NewService(tdb.Conn, tdb.Logger).Keywords(ctx, "lionel-messi")
	require.NoError(t, err)
	assert.Contains(t, kw, "mes")
}

func TestSeedFigures_CustomFile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.SeedFigures(ctx, []byte(`
figures:
  - name: Rosalía
    category: person
  - name: "   "
  - name: Bad Date
    birthDate: yesterday
`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Len(t, res.Failed, 2)

	_, err = svc.SeedFigures(ctx, []byte("figures:\n  - nmae: typo\n"))
	assert.Error(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	svc, tdb := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "correct-horse-battery"))
	require.NoError(t, svc.EnsureAdmin(ctx, "other", "correct-horse-battery"))

	n, err := tdb.Queries().CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHandlers_Seed(t *testing.T) {
	svc, _ := newService(t)
	e := echo.New()
	NewHandlers(svc).RegisterAdminRoutes(e.Group("/admin"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/seed", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"created":`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/seed", strings.NewReader("figures: [")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

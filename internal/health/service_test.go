package health

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(testutil.NopLogger())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s
}

func TestService_StatusTransitions(t *testing.T) {
	s := newTestService(t)
	s.RegisterItem(CategorySources, "wikipedia", "wikipedia")

	item := s.GetItem(CategorySources, "wikipedia")
	require.NotNil(t, item)
	assert.Equal(t, StatusOK, item.Status)
	assert.Nil(t, item.Timestamp)

	s.SetError(CategorySources, "wikipedia", "HTTP 503")
	item = s.GetItem(CategorySources, "wikipedia")
	assert.Equal(t, StatusError, item.Status)
	assert.Equal(t, "HTTP 503", item.Message)
	require.NotNil(t, item.Timestamp)

	// Re-registering keeps the current state.
	s.RegisterItem(CategorySources, "wikipedia", "renamed")
	item = s.GetItem(CategorySources, "wikipedia")
	assert.Equal(t, StatusError, item.Status)
	assert.Equal(t, "wikipedia", item.Name)

	s.ClearStatus(CategorySources, "wikipedia")
	item = s.GetItem(CategorySources, "wikipedia")
	assert.Equal(t, StatusOK, item.Status)
	assert.Empty(t, item.Message)
	assert.Nil(t, item.Timestamp)
}

func TestService_UnregisteredItemIgnored(t *testing.T) {
	s := newTestService(t)
	s.SetError(CategoryAssistant, "gemini", "quota")
	assert.Nil(t, s.GetItem(CategoryAssistant, "gemini"))
}

func TestService_GetItemReturnsCopy(t *testing.T) {
	s := newTestService(t)
	s.RegisterItem(CategoryStorage, DatabaseItemID, "db")

	item := s.GetItem(CategoryStorage, DatabaseItemID)
	item.Status = StatusError

	assert.Equal(t, StatusOK, s.GetItem(CategoryStorage, DatabaseItemID).Status)
}

func TestService_Summary(t *testing.T) {
	s := newTestService(t)
	s.RegisterItem(CategorySources, "wikipedia", "wikipedia")
	s.RegisterItem(CategorySources, "famousbirthdays", "famousbirthdays")
	s.RegisterItem(CategoryAssistant, "gemini", "Gemini")

	summary := s.GetSummary()
	assert.False(t, summary.HasIssues)
	require.Len(t, summary.Categories, 3)
	assert.Equal(t, CategorySources, summary.Categories[0].Category)
	assert.Equal(t, 2, summary.Categories[0].OK)

	s.SetWarning(CategoryAssistant, "gemini", "slow")
	summary = s.GetSummary()
	assert.True(t, summary.HasIssues)
	assert.Equal(t, 1, summary.Categories[1].Warning)
	assert.False(t, summary.Categories[0].HasIssues())
}

func TestService_GetAllSortedByID(t *testing.T) {
	s := newTestService(t)
	s.RegisterItem(CategorySources, "wikipedia", "wikipedia")
	s.RegisterItem(CategorySources, "famousbirthdays", "famousbirthdays")

	all := s.GetAll()
	require.Len(t, all.Sources, 2)
	assert.Equal(t, "famousbirthdays", all.Sources[0].ID)
	assert.Equal(t, "wikipedia", all.Sources[1].ID)
	assert.Empty(t, all.Storage)
}

func TestHealthItem_MarshalOmitsDetailsWhenOK(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := HealthItem{ID: "database", Category: CategoryStorage, Status: StatusOK, Message: "stale", Timestamp: &ts}

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.NotContains(t, string(data), "timestamp")

	item.Status = StatusError
	data, err = json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"stale"`)
	assert.Contains(t, string(data), "timestamp")
}

func TestStorageChecker(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	s := newTestService(t)
	checker := NewStorageChecker(s, tdb.Conn)

	require.NoError(t, checker.Check(context.Background()))
	assert.Equal(t, StatusOK, s.GetItem(CategoryStorage, DatabaseItemID).Status)

	tdb.Close()
	assert.Error(t, checker.Check(context.Background()))
	item := s.GetItem(CategoryStorage, DatabaseItemID)
	assert.Equal(t, StatusError, item.Status)
	assert.NotEmpty(t, item.Message)
}

package scheduler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestScheduler_RegisterAndRunNow(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, err := New(time.UTC, zerolog.Nop())
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "streak-reminder",
		Name: "Streak Reminder",
		Cron: "0 18 * * *",
		Func: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	}))
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "inbox-cleanup",
		Name: "Inbox Cleanup",
		Cron: "0 3 * * *",
		Func: func(ctx context.Context) error { return errors.New("disk full") },
	}))

	err = s.RegisterTask(TaskConfig{ID: "streak-reminder", Cron: "* * * * *", Func: func(context.Context) error { return nil }})
	assert.Error(t, err)

	s.Start()

	require.NoError(t, s.RunNow("streak-reminder"))
	require.NoError(t, s.RunNow("inbox-cleanup"))
	assert.ErrorIs(t, s.RunNow("missing"), ErrTaskNotFound)

	require.Eventually(t, func() bool {
		task, err := s.GetTask("inbox-cleanup")
		return err == nil && task.LastRun != nil && !task.Running
	}, 2*time.Second, 10*time.Millisecond)

	tasks := s.ListTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "inbox-cleanup", tasks[0].ID)
	assert.Equal(t, "disk full", tasks[0].LastError)
	assert.NotNil(t, tasks[1].NextRun)

	require.NoError(t, s.Stop())
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_StopCancelsRunningTask(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, err := New(nil, zerolog.Nop())
	require.NoError(t, err)

	started := make(chan struct{})
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "slow",
		Name: "Slow",
		Cron: "0 0 1 1 *",
		Func: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
		RunOnStart: true,
	}))

	s.Start()
	<-started

	assert.ErrorIs(t, s.RunNow("slow"), ErrTaskRunning)
	require.NoError(t, s.Stop())
}

func TestHandlers(t *testing.T) {
	s, err := New(time.UTC, zerolog.Nop())
	require.NoError(t, err)
	defer s.Stop()

	done := make(chan struct{}, 1)
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "inbox-cleanup",
		Name: "Inbox Cleanup",
		Cron: "0 3 * * *",
		Func: func(context.Context) error {
			done <- struct{}{}
			return nil
		},
	}))
	s.Start()

	e := echo.New()
	NewHandlers(s).RegisterRoutes(e.Group("/tasks"))

	do := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	rec := do(http.MethodGet, "/tasks")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"inbox-cleanup"`)

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/tasks/nope").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/tasks/inbox-cleanup").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodPost, "/tasks/nope/run").Code)
	assert.Equal(t, http.StatusAccepted, do(http.MethodPost, "/tasks/inbox-cleanup/run").Code)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
}

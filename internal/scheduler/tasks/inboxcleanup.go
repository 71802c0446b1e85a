package tasks

import (
	"context"
	"time"

	"github.com/wikistars5/wikistars5/internal/notification"
	"github.com/wikistars5/wikistars5/internal/scheduler"
)

const (
	InboxCleanupTaskID = "inbox-cleanup"
	inboxRetention     = 30 * 24 * time.Hour
)

// RegisterInboxCleanupTask registers the inbox cleanup task with the scheduler.
// The task runs daily at 3 AM and deletes read notifications older than 30 days.
func RegisterInboxCleanupTask(sched *scheduler.Scheduler, notificationService *notification.Service) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          InboxCleanupTaskID,
		Name:        "Inbox Cleanup",
		Description: "Deletes read notifications older than 30 days",
		Cron:        "0 3 * * *",
		RunOnStart:  false,
		Func: func(ctx context.Context) error {
			_, err := notificationService.Cleanup(ctx, inboxRetention)
			return err
		},
	})
}

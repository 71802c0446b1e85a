package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/notification"
	"github.com/wikistars5/wikistars5/internal/scheduler"
	"github.com/wikistars5/wikistars5/internal/streaks"
)

const StreakReminderTaskID = "streak-reminder"

// reminderWindow keeps a user from getting the same reminder twice in a day.
const reminderWindow = 20 * time.Hour

// ReminderNotifier sends reminders and reports whether one was already sent.
type ReminderNotifier interface {
	Notify(ctx context.Context, n notification.Notice)
	NotifiedSince(ctx context.Context, userID int64, t notification.NoticeType, figureID string, window time.Duration) (bool, error)
}

// StreakReminder warns users whose streak breaks at midnight unless they
// comment today.
type StreakReminder struct {
	streaks   *streaks.Service
	notifier  ReminderNotifier
	minStreak int
	logger    zerolog.Logger
}

func NewStreakReminder(streakService *streaks.Service, notifier ReminderNotifier, minStreak int, logger zerolog.Logger) *StreakReminder {
	return &StreakReminder{
		streaks:   streakService,
		notifier:  notifier,
		minStreak: minStreak,
		logger:    logger.With().Str("task", StreakReminderTaskID).Logger(),
	}
}

// Run sends one reminder per due streak and returns how many were sent.
func (r *StreakReminder) Run(ctx context.Context) (int, error) {
	today := r.streaks.Clock().Today()
	due, err := r.streaks.DueForReminder(ctx, today, r.minStreak)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, d := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		already, err := r.notifier.NotifiedSince(ctx, d.UserID, notification.NoticeStreakReminder, d.FigureID, reminderWindow)
		if err != nil {
			r.logger.Warn().Err(err).Int64("userId", d.UserID).Str("figureId", d.FigureID).Msg("Failed to check previous reminders")
			continue
		}
		if already {
			continue
		}

		r.notifier.Notify(ctx, notification.Notice{
			UserID:   d.UserID,
			Type:     notification.NoticeStreakReminder,
			Title:    fmt.Sprintf("Your %d-day streak on %s ends tonight", d.Current, d.FigureName),
			Message:  fmt.Sprintf("Comment on %s today to keep your streak going.", d.FigureName),
			FigureID: d.FigureID,
			URL:      "/figures/" + d.FigureID,
		})
		sent++
	}

	r.logger.Info().Int("due", len(due)).Int("sent", sent).Str("day", today).Msg("Streak reminders sent")
	return sent, nil
}

// RegisterStreakReminderTask registers the streak reminder with the scheduler.
func RegisterStreakReminderTask(sched *scheduler.Scheduler, reminder *StreakReminder, cron string) error {
	if cron == "" {
		cron = "0 18 * * *"
	}
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          StreakReminderTaskID,
		Name:        "Streak Reminder",
		Description: "Notifies users whose commenting streak ends at midnight",
		Cron:        cron,
		RunOnStart:  false,
		Func: func(ctx context.Context) error {
			_, err := reminder.Run(ctx)
			return err
		},
	})
}

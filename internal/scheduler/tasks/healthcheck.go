package tasks

import (
	"github.com/wikistars5/wikistars5/internal/health"
	"github.com/wikistars5/wikistars5/internal/scheduler"
)

const HealthCheckTaskID = "health-check"

// RegisterHealthCheckTask probes storage every ten minutes and once at startup.
func RegisterHealthCheckTask(sched *scheduler.Scheduler, checker *health.StorageChecker) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          HealthCheckTaskID,
		Name:        "Health Check",
		Description: "Probes the database and records its health",
		Cron:        "*/10 * * * *",
		RunOnStart:  true,
		Func:        checker.Check,
	})
}

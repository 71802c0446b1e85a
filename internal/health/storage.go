package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	DatabaseItemID   = "database"
	slowQueryWarning = 500 * time.Millisecond
)

// StorageChecker probes the database and records the result.
type StorageChecker struct {
	healthService *Service
	db            *sql.DB
}

// NewStorageChecker creates a checker and registers the database item.
func NewStorageChecker(healthService *Service, db *sql.DB) *StorageChecker {
	healthService.RegisterItem(CategoryStorage, DatabaseItemID, "SQLite database")
	return &StorageChecker{healthService: healthService, db: db}
}

// Check runs one probe. A failing database is an error, a slow one a warning.
func (c *StorageChecker) Check(ctx context.Context) error {
	start := c.healthService.now()

	var one int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		c.healthService.SetError(CategoryStorage, DatabaseItemID, err.Error())
		return fmt.Errorf("database probe failed: %w", err)
	}

	if elapsed := c.healthService.now().Sub(start); elapsed > slowQueryWarning {
		c.healthService.SetWarning(CategoryStorage, DatabaseItemID, fmt.Sprintf("probe took %s", elapsed.Round(time.Millisecond)))
		return nil
	}

	c.healthService.ClearStatus(CategoryStorage, DatabaseItemID)
	return nil
}

package api

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/logger"
)

// LogsProvider provides access to log data.
type LogsProvider interface {
	Recent() *logger.Recent
	FilePath() string
}

// LogsHandlers serves recent problems and the log file to admins.
type LogsHandlers struct {
	provider LogsProvider
}

// NewLogsHandlers creates a new logs handlers instance. provider may be nil
// until the server is handed its logger.
func NewLogsHandlers(provider LogsProvider) *LogsHandlers {
	return &LogsHandlers{provider: provider}
}

// RegisterRoutes registers log routes on the given group.
func (h *LogsHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentLogs)
	g.GET("/download", h.DownloadLogFile)
}

// GetRecentLogs returns the buffered warn-or-worse entries, newest last.
// GET /api/v1/admin/logs
func (h *LogsHandlers) GetRecentLogs(c echo.Context) error {
	entries := []logger.Entry{}
	if h.provider != nil {
		if recent := h.provider.Recent(); recent != nil {
			entries = append(entries, recent.Entries()...)
		}
	}
	return c.JSON(http.StatusOK, entries)
}

// DownloadLogFile serves the current log file for download.
// GET /api/v1/admin/logs/download
func (h *LogsHandlers) DownloadLogFile(c echo.Context) error {
	if h.provider == nil || h.provider.FilePath() == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no log file configured")
	}

	logPath := h.provider.FilePath()
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return echo.NewHTTPError(http.StatusNotFound, "log file not found")
	}

	return c.Attachment(logPath, "wikistars.log")
}

package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wikistars5/wikistars5/internal/config"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
)

func (s *Server) healthCheck(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		s.logger.Error().Err(err).Msg("Health check failed to reach database")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/v1/status
func (s *Server) getStatus(c echo.Context) error {
	ctx := c.Request().Context()
	queries := sqlc.New(s.db)

	figureCount, _ := queries.CountFigures(ctx, "")
	userCount, _ := queries.CountUsers(ctx)

	clients := 0
	if s.hub != nil {
		clients = s.hub.ClientCount()
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":          config.Version,
		"startTime":        s.startTime.Format(time.RFC3339),
		"figureCount":      figureCount,
		"userCount":        userCount,
		"connectedClients": clients,
		"assistantEnabled": s.writer.Enabled(),
		"importSources":    s.importService.Sources(),
		"pushEnabled":      s.vapidPublicKey != "",
	})
}

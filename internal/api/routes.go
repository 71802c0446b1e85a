package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apimw "github.com/wikistars5/wikistars5/internal/api/middleware"
	"github.com/wikistars5/wikistars5/internal/auth"
	"github.com/wikistars5/wikistars5/internal/comments"
	"github.com/wikistars5/wikistars5/internal/content"
	"github.com/wikistars5/wikistars5/internal/defaults"
	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/health"
	"github.com/wikistars5/wikistars5/internal/importer"
	"github.com/wikistars5/wikistars5/internal/notification"
	"github.com/wikistars5/wikistars5/internal/scheduler"
	"github.com/wikistars5/wikistars5/internal/streaks"
	"github.com/wikistars5/wikistars5/internal/votes"
)

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(apimw.SecurityHeaders())

	// Request body size limit (2MB)
	s.echo.Use(middleware.BodyLimit("2M"))

	allowOrigins := []string{"*"}
	if s.cfg.Server.PublicURL != "" {
		allowOrigins = []string{s.cfg.Server.PublicURL}
	}
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Block proxy probes (absolute URI requests like GET http://www.google.com/)
	s.echo.Use(apimw.ProxyRequestBlock())

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	if s.hub != nil {
		s.echo.GET("/ws", s.hub.HandleWebSocket, s.authMiddleware.OptionalAuth())
	}

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	requireAuth := s.authMiddleware.RequireAuth()
	writeLimit := s.writeLimiter.Middleware()

	authHandlers := auth.NewHandlers(s.authService)
	authHandlers.SetLoginGuard(s.authLimiter)
	authHandlers.RegisterRoutes(api.Group("/auth"), s.authMiddleware, s.authLimiter.Middleware())

	admin := api.Group("/admin")
	admin.Use(s.authMiddleware.RequireAdmin())
	authHandlers.RegisterAdminRoutes(admin)

	me := api.Group("/me", requireAuth)

	s.setupCatalogRoutes(api, me, admin, requireAuth, writeLimit)
	s.setupNotificationRoutes(api, me)
	s.setupAdminRoutes(admin)
}

// setupCatalogRoutes registers figures and everything hanging off a figure.
// Reads are public; claims are attached when present so responses can carry
// the caller's own votes and reactions.
func (s *Server) setupCatalogRoutes(api, me, admin *echo.Group, requireAuth, writeLimit echo.MiddlewareFunc) {
	optionalAuth := s.authMiddleware.OptionalAuth()

	figuresGroup := api.Group("/figures", optionalAuth)
	commentsGroup := api.Group("/comments", optionalAuth)
	contentGroup := api.Group("/content", optionalAuth)

	figureHandlers := figures.NewHandlers(s.figureService)
	figureHandlers.RegisterRoutes(figuresGroup)
	figureHandlers.RegisterAdminRoutes(admin)

	votes.NewHandlers(s.voteService).RegisterRoutes(figuresGroup, requireAuth, writeLimit)
	comments.NewHandlers(s.commentService).RegisterRoutes(figuresGroup, commentsGroup, requireAuth, writeLimit)
	content.NewHandlers(s.contentService).RegisterRoutes(figuresGroup, contentGroup, requireAuth, writeLimit)
	streaks.NewHandlers(s.streakService).RegisterRoutes(figuresGroup, me)
}

func (s *Server) setupNotificationRoutes(api, me *echo.Group) {
	notificationHandlers := notification.NewHandlers(s.notificationService, s.vapidPublicKey)
	notificationHandlers.RegisterRoutes(me)
	notificationHandlers.RegisterPublicRoutes(api)
}

func (s *Server) setupAdminRoutes(admin *echo.Group) {
	importer.NewHandlers(s.importService).RegisterAdminRoutes(admin)
	defaults.NewHandlers(s.defaultsService).RegisterAdminRoutes(admin)
	scheduler.NewHandlers(s.scheduler).RegisterRoutes(admin.Group("/scheduler/tasks"))
	health.NewHandlers(s.healthService, s.storageChecker).RegisterRoutes(admin.Group("/health"))

	s.logsHandlers.RegisterRoutes(admin.Group("/logs"))
}

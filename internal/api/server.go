package api

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/api/ratelimit"
	"github.com/wikistars5/wikistars5/internal/assistant"
	"github.com/wikistars5/wikistars5/internal/auth"
	"github.com/wikistars5/wikistars5/internal/comments"
	"github.com/wikistars5/wikistars5/internal/config"
	"github.com/wikistars5/wikistars5/internal/content"
	"github.com/wikistars5/wikistars5/internal/crypto"
	"github.com/wikistars5/wikistars5/internal/defaults"
	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/health"
	"github.com/wikistars5/wikistars5/internal/importer"
	"github.com/wikistars5/wikistars5/internal/notification"
	"github.com/wikistars5/wikistars5/internal/notification/webpush"
	"github.com/wikistars5/wikistars5/internal/scheduler"
	"github.com/wikistars5/wikistars5/internal/scheduler/tasks"
	"github.com/wikistars5/wikistars5/internal/scraper"
	"github.com/wikistars5/wikistars5/internal/streaks"
	"github.com/wikistars5/wikistars5/internal/votes"
	"github.com/wikistars5/wikistars5/internal/websocket"
)

const limiterCleanupInterval = 5 * time.Minute

// Server handles HTTP requests for the WikiStars5 API.
type Server struct {
	echo      *echo.Echo
	db        *sql.DB
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	// Services
	authService         *auth.Service
	figureService       *figures.Service
	voteService         *votes.Service
	commentService      *comments.Service
	contentService      *content.Service
	streakService       *streaks.Service
	notificationService *notification.Service
	importService       *importer.Service
	defaultsService     *defaults.Service
	healthService       *health.Service
	storageChecker      *health.StorageChecker
	scraperClient       *scraper.Client
	writer              *assistant.Writer
	scheduler           *scheduler.Scheduler

	authMiddleware *auth.Middleware
	authLimiter    *ratelimit.AuthLimiter
	writeLimiter   *ratelimit.WriteLimiter
	vapidPublicKey string
	logsHandlers   *LogsHandlers

	stopCleanup context.CancelFunc
}

// NewServer creates the API server and every service behind it. hub may be
// nil, in which case live updates are disabled.
func NewServer(ctx context.Context, db *sql.DB, hub *websocket.Hub, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		db:        db,
		hub:       hub,
		logger:    logger.With().Str("component", "api").Logger(),
		cfg:       cfg,
		startTime: time.Now(),

		logsHandlers: NewLogsHandlers(nil),
	}

	var err error
	s.authService, err = auth.NewService(db, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}
	s.authMiddleware = auth.NewMiddleware(s.authService)
	s.authLimiter = ratelimit.NewAuthLimiter()
	s.writeLimiter = ratelimit.NewWriteLimiter(ratelimit.DefaultWritesPerMinute, ratelimit.DefaultWriteBurst)

	if hub != nil {
		hub.SetUserResolver(auth.UserID)
	}

	clock, err := streaks.NewClock(cfg.Streaks.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid streak timezone: %w", err)
	}
	s.streakService = streaks.NewService(db, clock, logger)

	s.figureService = figures.NewService(db, logger)
	s.voteService = votes.NewService(db, hub, logger)
	s.commentService = comments.NewService(db, s.streakService, hub, logger)
	s.contentService = content.NewService(db, logger)

	if err := s.initNotifications(ctx); err != nil {
		return nil, err
	}
	s.commentService.SetNotifier(s.notificationService)

	s.scraperClient = scraper.NewClient(cfg.Scraper, logger)
	s.writer, err = assistant.New(ctx, cfg.Assistant, logger)
	if err != nil {
		// The assistant is optional; imports fall back to scraped text.
		s.logger.Warn().Err(err).Msg("Failed to initialize assistant, AI descriptions disabled")
		s.writer, _ = assistant.New(ctx, config.AssistantConfig{}, logger)
	}
	s.importService = importer.NewService(s.figureService, s.writer, logger,
		scraper.NewWikipedia(s.scraperClient, cfg.Scraper.WikipediaURL(), cfg.Scraper.SimilarityThreshold, logger),
		scraper.NewFamousBirthdays(s.scraperClient, cfg.Scraper.FamousBirthdaysURL, cfg.Scraper.SimilarityThreshold, logger),
	)
	s.defaultsService = defaults.NewService(db, s.figureService, s.authService, logger)

	s.healthService = health.NewService(logger)
	s.storageChecker = health.NewStorageChecker(s.healthService, db)
	s.importService.SetHealthService(s.healthService)

	if err := s.initScheduler(clock); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// initNotifications loads the VAPID keys and registers both push channels.
func (s *Server) initNotifications(ctx context.Context) error {
	s.notificationService = notification.NewService(s.db, s.hub, s.logger)

	sealer, err := crypto.NewSealer(s.authService.Secret(), "vapid")
	if err != nil {
		return fmt.Errorf("failed to initialize key sealer: %w", err)
	}
	keys, err := notification.LoadVAPIDKeys(ctx, s.db, sealer, webpush.Keys{
		PublicKey:  s.cfg.Push.VAPIDPublicKey,
		PrivateKey: s.cfg.Push.VAPIDPrivateKey,
	})
	if err != nil {
		return fmt.Errorf("failed to load VAPID keys: %w", err)
	}
	s.vapidPublicKey = keys.PublicKey

	factory := notification.NewFactory(s.logger)
	s.notificationService.RegisterSender(factory.Webhook(s.cfg.Server.PublicURL))
	s.notificationService.RegisterSender(factory.WebPush(keys, s.cfg.Push.Subscriber))
	return nil
}

func (s *Server) initScheduler(clock *streaks.Clock) error {
	sched, err := scheduler.New(clock.Location(), s.logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	s.scheduler = sched

	reminder := tasks.NewStreakReminder(s.streakService, s.notificationService, s.cfg.Streaks.ReminderMinStreak, s.logger)
	if err := tasks.RegisterStreakReminderTask(sched, reminder, s.cfg.Streaks.ReminderCron); err != nil {
		return fmt.Errorf("failed to register streak reminder: %w", err)
	}
	if err := tasks.RegisterInboxCleanupTask(sched, s.notificationService); err != nil {
		return fmt.Errorf("failed to register inbox cleanup: %w", err)
	}
	if err := tasks.RegisterHealthCheckTask(sched, s.storageChecker); err != nil {
		return fmt.Errorf("failed to register health check: %w", err)
	}
	return nil
}

// SetLogsProvider enables the admin logs endpoints.
func (s *Server) SetLogsProvider(provider LogsProvider) {
	s.logsHandlers.provider = provider
}

// EnsureDefaults seeds the catalog on first start and creates the configured
// bootstrap admin.
func (s *Server) EnsureDefaults(ctx context.Context) error {
	if err := s.defaultsService.EnsureAdmin(ctx, s.cfg.Auth.AdminUsername, s.cfg.Auth.AdminPassword); err != nil {
		return err
	}
	return s.defaultsService.SeedIfEmpty(ctx)
}

// Start begins background work and listens for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")

	ctx, cancel := context.WithCancel(context.Background())
	s.stopCleanup = cancel
	s.authLimiter.StartCleanup(ctx, limiterCleanupInterval)
	s.writeLimiter.StartCleanup(ctx, limiterCleanupInterval)

	s.scheduler.Start()

	return s.echo.Start(address)
}

// Shutdown gracefully stops the server, the scheduler and in-flight pushes.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if s.stopCleanup != nil {
		s.stopCleanup()
	}
	if err := s.scheduler.Stop(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to stop scheduler")
	}

	err := s.echo.Shutdown(ctx)

	s.notificationService.Wait()
	s.scraperClient.Close()
	return err
}

// Echo returns the underlying Echo instance (for serving static files).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

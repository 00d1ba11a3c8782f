// Package api exposes the analysis and reminder pipeline over HTTP and
// WebSocket.
package api

import (
	"fmt"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rxguard/rxguard/internal/config"
	"github.com/rxguard/rxguard/internal/dispatch"
	"github.com/rxguard/rxguard/internal/engine"
	"github.com/rxguard/rxguard/internal/extract"
	"github.com/rxguard/rxguard/internal/metrics"
	"github.com/rxguard/rxguard/internal/scheduler"
)

// Server handles HTTP API and WebSocket event fan-out.
type Server struct {
	app        *fiber.App
	config     *config.Config
	engine     *engine.Engine
	scheduler  *scheduler.Scheduler
	dispatcher *dispatch.Dispatcher
	extractor  extract.TextExtractor
	hub        *eventHub
	logger     *zap.Logger
}

// New creates the API server around the already-wired services.
func New(cfg *config.Config, eng *engine.Engine, sched *scheduler.Scheduler,
	disp *dispatch.Dispatcher, extractor extract.TextExtractor, logger *zap.Logger) *Server {

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	s := &Server{
		app:        app,
		config:     cfg,
		engine:     eng,
		scheduler:  sched,
		dispatcher: disp,
		extractor:  extractor,
		hub:        newEventHub(logger),
		logger:     logger,
	}

	// Every settled dispatch fans out to websocket subscribers.
	disp.SetBroadcast(s.hub.Broadcast)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(
		metrics.Default().Registry(), promhttp.HandlerOpts{})))

	api := s.app.Group("/api")

	api.Post("/analyze", s.handleAnalyze)
	api.Post("/analyze/image", s.handleAnalyzeImage)

	api.Get("/reminders", s.handleListReminders)
	api.Post("/reminders", s.handleCreateReminder)
	api.Post("/reminders/:id/toggle", s.handleToggleReminder)
	api.Delete("/reminders/:id", s.handleDeleteReminder)

	api.Get("/notifications", s.handleListNotifications)
	api.Post("/notifications/phone", s.handlePhoneChanged)

	s.app.Get("/ws/events", websocket.New(s.handleEventSocket))
}

// Start begins serving. Blocks until shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Address, s.config.Server.Port)
	s.logger.Info("API server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	s.hub.Close()
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

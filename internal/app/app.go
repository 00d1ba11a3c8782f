// Package app wires the analysis pipeline together and runs it as a
// long-lived daemon or a one-shot CLI analysis.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rxguard/rxguard/internal/api"
	"github.com/rxguard/rxguard/internal/config"
	"github.com/rxguard/rxguard/internal/dispatch"
	"github.com/rxguard/rxguard/internal/engine"
	"github.com/rxguard/rxguard/internal/extract"
	"github.com/rxguard/rxguard/internal/knowledge"
	"github.com/rxguard/rxguard/internal/parser"
	"github.com/rxguard/rxguard/internal/scheduler"
	"github.com/rxguard/rxguard/internal/transport"
)

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Tables     *knowledge.Tables
	Engine     *engine.Engine
	Scheduler  *scheduler.Scheduler
	Dispatcher *dispatch.Dispatcher
	Version    string

	watcher *knowledge.Watcher
	driver  *scheduler.Driver
	server  *api.Server
}

func New(cfg *config.Config, logger *zap.Logger, version string) *App {
	return &App{
		Config:  cfg,
		Logger:  logger,
		Version: version,
	}
}

// Init builds every service from config. Safe to call once.
func (app *App) Init() error {
	tables := knowledge.Builtin()
	if path := app.Config.Knowledge.OverlayPath; path != "" {
		if err := tables.ApplyOverlayFile(path); err != nil {
			app.Logger.Warn("Failed to apply knowledge overlay", zap.Error(err))
		}
		if app.Config.Knowledge.HotReload {
			watcher, err := knowledge.NewWatcher(tables, path, app.Logger)
			if err != nil {
				app.Logger.Warn("Failed to watch knowledge overlay", zap.Error(err))
			} else if err := watcher.Start(); err != nil {
				app.Logger.Warn("Failed to start overlay watcher", zap.Error(err))
			} else {
				app.watcher = watcher
			}
		}
	}
	app.Tables = tables

	app.Engine = engine.New(tables, app.Logger,
		engine.WithConfidenceThreshold(app.Config.Extraction.ConfidenceThreshold))

	db, err := gorm.Open(sqlite.Open(app.Config.Storage.SQLitePath), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	store, err := scheduler.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to initialize reminder store: %w", err)
	}
	app.Scheduler = scheduler.New(store, app.Logger)

	tr, err := app.buildTransport()
	if err != nil {
		return err
	}

	history, err := dispatch.NewHistoryWithArchive(app.Config.Storage.ArchivePath, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to open event archive: %w", err)
	}

	app.Dispatcher = dispatch.New(dispatch.Config{
		Timeout:      time.Duration(app.Config.Dispatch.TimeoutSeconds) * time.Second,
		SettleDelay:  time.Duration(app.Config.Dispatch.SettleDelaySeconds) * time.Second,
		BatchSpacing: time.Duration(app.Config.Dispatch.BatchSpacingMillis) * time.Millisecond,
	}, tr, history, app.Logger)

	app.Scheduler.OnDue(app.notifyDue)

	app.Logger.Info("Services initialized",
		zap.String("transport", tr.Name()),
		zap.String("db", app.Config.Storage.SQLitePath))
	return nil
}

func (app *App) buildTransport() (transport.Transport, error) {
	switch app.Config.Transport.Default {
	case "sms":
		smsCfg := app.Config.Transport.SMS
		return transport.NewSMS(transport.SMSConfig{
			GatewayURL: smsCfg.GatewayURL,
			APIKey:     smsCfg.APIKey,
			Sender:     smsCfg.Sender,
			Timeout:    time.Duration(smsCfg.TimeoutSeconds) * time.Second,
		}, app.Logger), nil
	case "telegram":
		return transport.NewTelegram(app.Config.Transport.Telegram.BotToken, app.Logger)
	case "discord":
		return transport.NewDiscord(app.Config.Transport.Discord.Token, app.Logger)
	default:
		return transport.NewMemory(), nil
	}
}

// notifyDue turns a fired reminder into an outbound notification. Without a
// configured recipient the event is only logged.
func (app *App) notifyDue(due scheduler.DueEvent) {
	recipient := app.Config.Dispatch.DefaultRecipient
	if recipient == "" {
		app.Logger.Info("Reminder due, no recipient configured",
			zap.String("medication", due.Medication),
			zap.String("time", due.TimeOfDay))
		return
	}

	event := app.Dispatcher.NewEvent(recipient, dispatch.MessageReminderTrigger, dispatch.Context{
		Medication: due.Medication,
		TimeOfDay:  due.TimeOfDay,
		Frequency:  string(due.Frequency),
	})
	app.Dispatcher.Dispatch(context.Background(), event)
}

func (app *App) buildExtractor() extract.TextExtractor {
	if url := app.Config.Extraction.ServiceURL; url != "" {
		return extract.NewHTTPExtractor(url,
			time.Duration(app.Config.Extraction.TimeoutSeconds)*time.Second)
	}
	return extract.NewMock(extract.Extraction{}, nil)
}

// RunServer starts the scheduler driver and the API server, then blocks
// until SIGINT or SIGTERM.
func (app *App) RunServer() {
	app.driver = scheduler.NewDriver(app.Scheduler, app.Logger)
	if err := app.driver.Start(); err != nil {
		app.Logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	app.server = api.New(app.Config, app.Engine, app.Scheduler, app.Dispatcher,
		app.buildExtractor(), app.Logger)

	go func() {
		if err := app.server.Start(); err != nil {
			app.Logger.Fatal("Server error", zap.Error(err))
		}
	}()

	app.Logger.Info("Server started",
		zap.String("address", app.Config.Server.Address),
		zap.Int("port", app.Config.Server.Port),
		zap.String("url", fmt.Sprintf("http://localhost:%d", app.Config.Server.Port)),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info("Shutting down...")
	app.Shutdown()
}

// Shutdown stops every running component.
func (app *App) Shutdown() {
	if app.driver != nil {
		app.driver.Stop()
	}
	if app.watcher != nil {
		app.watcher.Stop()
	}
	if app.Dispatcher != nil {
		app.Dispatcher.Stop()
	}
	if app.server != nil {
		if err := app.server.Shutdown(); err != nil {
			app.Logger.Error("Server shutdown error", zap.Error(err))
		}
	}
}

// RunAnalyze analyzes a prescription from the command line and prints the
// result as JSON.
func (app *App) RunAnalyze(text, signals string) {
	analysis := app.Engine.Evaluate(parser.Parse(text), signals)

	encoded, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

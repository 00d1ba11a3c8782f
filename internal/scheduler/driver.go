package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

// Driver invokes Tick once per minute. SkipIfStillRunning guarantees no two
// tick invocations overlap; the at-most-once-per-minute guard in Tick covers
// the case where the driver is restarted within a minute.
type Driver struct {
	cron      *cron.Cron
	scheduler *Scheduler
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewDriver creates a minute-cadence tick driver for the scheduler. The
// tick job is registered once here, so stop/start cycles never stack a
// second job on the same cron instance.
func NewDriver(s *Scheduler, logger *zap.Logger) *Driver {
	cronLogger := cronZapLogger{logger: logger}
	d := &Driver{
		cron: cron.New(
			cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
		),
		scheduler: s,
		logger:    logger,
	}

	if _, err := d.cron.AddFunc("@every 1m", func() {
		if _, err := d.scheduler.Tick(time.Now()); err != nil {
			d.logger.Error("Scheduler tick failed", zap.Error(err))
		}
	}); err != nil {
		d.logger.Error("Failed to register tick job", zap.Error(err))
	}
	return d
}

// Start begins the periodic tick.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return apperrors.ErrSchedulerRunning
	}

	d.cron.Start()
	d.running = true
	d.logger.Info("Reminder tick driver started")
	return nil
}

// Stop halts the periodic tick and waits for an in-flight tick to finish.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}

	ctx := d.cron.Stop()
	<-ctx.Done()
	d.running = false
	d.logger.Info("Reminder tick driver stopped")
}

// cronZapLogger adapts zap to the cron logger interface.
type cronZapLogger struct {
	logger *zap.Logger
}

func (l cronZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronZapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}

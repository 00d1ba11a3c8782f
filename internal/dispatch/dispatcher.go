// Package dispatch composes notification messages and manages their
// delivery lifecycle: single-attempt sends with a bounded timeout, an
// append-only history, debounced phone verification and staggered batches.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/rxguard/rxguard/internal/errors"
	"github.com/rxguard/rxguard/internal/metrics"
	"github.com/rxguard/rxguard/internal/transport"
)

const phoneDebounceKey = "phone_number"

// Config holds dispatcher tuning.
type Config struct {
	// Timeout bounds a single transport call. An expired timeout marks the
	// event Failed, never leaves it Pending.
	Timeout time.Duration
	// SettleDelay is how long a phone number must stay unchanged before the
	// verification message goes out.
	SettleDelay time.Duration
	// BatchSpacing is the minimum gap between consecutive sends in a batch.
	BatchSpacing time.Duration
}

func (c *Config) setDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 2 * time.Second
	}
	if c.BatchSpacing <= 0 {
		c.BatchSpacing = 500 * time.Millisecond
	}
}

// Dispatcher owns the notification pipeline for one transport.
type Dispatcher struct {
	config    Config
	transport transport.Transport
	history   *History
	debouncer *Debouncer
	limiter   *rate.Limiter
	logger    *zap.Logger
	broadcast func(NotificationEvent)
}

// New creates a dispatcher.
func New(config Config, tr transport.Transport, history *History, logger *zap.Logger) *Dispatcher {
	config.setDefaults()
	return &Dispatcher{
		config:    config,
		transport: tr,
		history:   history,
		debouncer: NewDebouncer(config.SettleDelay),
		limiter:   rate.NewLimiter(rate.Every(config.BatchSpacing), 1),
		logger:    logger,
	}
}

// SetBroadcast registers a hook invoked with every event after its state
// settles. Used for websocket fan-out.
func (d *Dispatcher) SetBroadcast(fn func(NotificationEvent)) {
	d.broadcast = fn
}

// NewEvent creates a Pending event with its body composed from the context.
func (d *Dispatcher) NewEvent(recipient string, messageType MessageType, ctx Context) NotificationEvent {
	return NotificationEvent{
		ID:            "evt_" + uuid.NewString(),
		Recipient:     recipient,
		MessageType:   messageType,
		ComposedBody:  Compose(messageType, ctx),
		CreatedAt:     time.Now(),
		DeliveryState: StatePending,
	}
}

// Dispatch hands the event to the transport exactly once. Success marks it
// Delivered; any failure, including timeout, marks it Failed with a reason.
// The event lands in history regardless of outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, event NotificationEvent) NotificationEvent {
	d.history.Append(event)

	sendCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	start := time.Now()
	err := d.transport.Send(sendCtx, event.Recipient, event.ComposedBody)
	elapsed := time.Since(start)

	if err != nil {
		reason := err.Error()
		if sendCtx.Err() == context.DeadlineExceeded {
			reason = apperrors.ErrTransportTimeout.Message
		}
		event.DeliveryState = StateFailed
		event.FailureReason = reason
		metrics.RecordDispatch("failed", elapsed)
		d.logger.Warn("Notification dispatch failed",
			zap.String("id", event.ID),
			zap.String("type", string(event.MessageType)),
			zap.String("reason", reason))
	} else {
		event.DeliveryState = StateDelivered
		metrics.RecordDispatch("delivered", elapsed)
		d.logger.Info("Notification delivered",
			zap.String("id", event.ID),
			zap.String("type", string(event.MessageType)),
			zap.Duration("took", elapsed))
	}

	if err := d.history.Transition(event.ID, event.DeliveryState, event.FailureReason); err != nil {
		d.logger.Error("Failed to record event transition",
			zap.String("id", event.ID), zap.Error(err))
	}

	if d.broadcast != nil {
		d.broadcast(event)
	}
	return event
}

// DispatchBatch sends events with an enforced minimum spacing between
// consecutive sends. Stops early if the context is cancelled; already-sent
// events keep their recorded state.
func (d *Dispatcher) DispatchBatch(ctx context.Context, events []NotificationEvent) []NotificationEvent {
	out := make([]NotificationEvent, 0, len(events))
	for _, event := range events {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Warn("Batch dispatch interrupted", zap.Error(err))
			break
		}
		out = append(out, d.Dispatch(ctx, event))
	}
	return out
}

// OnPhoneNumberChanged schedules a verification message once the number has
// settled. A change arriving before the settle delay elapses supersedes the
// pending one; only the latest number gets a dispatch. Invalid numbers are
// rejected immediately.
func (d *Dispatcher) OnPhoneNumberChanged(raw string) error {
	normalized, err := ValidatePhone(raw)
	if err != nil {
		return err
	}

	d.debouncer.Schedule(phoneDebounceKey, func() {
		event := d.NewEvent(normalized, MessageConfirmation, Context{})
		d.Dispatch(context.Background(), event)
	})
	return nil
}

// History exposes the event history.
func (d *Dispatcher) History() *History {
	return d.history
}

// Stop cancels pending debounced work.
func (d *Dispatcher) Stop() {
	d.debouncer.Stop()
}

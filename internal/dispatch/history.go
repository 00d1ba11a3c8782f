package dispatch

import (
	"encoding/json"
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

// History is the ordered, append-only record of notification events. Events
// are never removed; only their delivery state transitions, and only once,
// out of Pending. An optional badger archive keeps a durable copy keyed by
// creation instant.
type History struct {
	mu      sync.Mutex
	events  []NotificationEvent
	index   map[string]int
	archive *badger.DB
	logger  *zap.Logger
}

// NewHistory creates an in-memory history.
func NewHistory(logger *zap.Logger) *History {
	return &History{
		index:  make(map[string]int),
		logger: logger,
	}
}

// NewHistoryWithArchive creates a history that also archives every event to
// badger at the given path. An empty path uses an in-memory badger store.
func NewHistoryWithArchive(path string, logger *zap.Logger) (*History, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "DISPATCH_004", "failed to open notification archive")
	}

	h := NewHistory(logger)
	h.archive = db
	return h, nil
}

// Append adds an event to the history.
func (h *History) Append(event NotificationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.index[event.ID] = len(h.events)
	h.events = append(h.events, event)
	h.archiveWrite(event)
}

// Transition moves an event out of Pending. Transitioning an event already
// in a terminal state is an error.
func (h *History) Transition(id string, state DeliveryState, reason string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, ok := h.index[id]
	if !ok {
		return apperrors.New("DISPATCH_005", fmt.Sprintf("unknown event %s", id))
	}
	if h.events[i].DeliveryState.Terminal() {
		return apperrors.ErrEventTerminal
	}

	h.events[i].DeliveryState = state
	h.events[i].FailureReason = reason
	h.archiveWrite(h.events[i])
	return nil
}

// Get returns a copy of the event with the given ID.
func (h *History) Get(id string) (NotificationEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, ok := h.index[id]
	if !ok {
		return NotificationEvent{}, false
	}
	return h.events[i], true
}

// Events returns a copy of the full history in creation order.
func (h *History) Events() []NotificationEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]NotificationEvent, len(h.events))
	copy(out, h.events)
	return out
}

// Close releases the archive, if any.
func (h *History) Close() error {
	if h.archive == nil {
		return nil
	}
	return h.archive.Close()
}

// archiveWrite persists the event under a creation-instant-ordered key.
// Caller must hold the mutex. Archive failures are logged, never fatal.
func (h *History) archiveWrite(event NotificationEvent) {
	if h.archive == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode event for archive", zap.Error(err))
		return
	}

	key := []byte(fmt.Sprintf("event:%020d:%s", event.CreatedAt.UnixNano(), event.ID))
	if err := h.archive.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	}); err != nil {
		h.logger.Error("Failed to archive event",
			zap.String("id", event.ID), zap.Error(err))
	}
}

// ArchivedEvents reads the archive back in key order. Useful for
// inspecting history across restarts.
func (h *History) ArchivedEvents() ([]NotificationEvent, error) {
	if h.archive == nil {
		return nil, nil
	}

	var events []NotificationEvent
	err := h.archive.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("event:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var event NotificationEvent
				if err := json.Unmarshal(val, &event); err != nil {
					return err
				}
				events = append(events, event)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return events, err
}

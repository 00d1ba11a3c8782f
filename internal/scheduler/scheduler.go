// Package scheduler maintains medication reminders and emits due events at
// their trigger times.
package scheduler

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rxguard/rxguard/internal/engine"
	apperrors "github.com/rxguard/rxguard/internal/errors"
	"github.com/rxguard/rxguard/internal/metrics"
	"github.com/rxguard/rxguard/internal/parser"
)

const defaultTimeOfDay = "08:00"

// DueHandler receives due events as the scheduler emits them.
type DueHandler func(DueEvent)

// Scheduler owns the reminder collection. All mutations are mutually
// exclusive so a reminder fires at most once per calendar minute.
type Scheduler struct {
	mu     sync.Mutex
	store  *Store
	logger *zap.Logger
	onDue  DueHandler
}

// New creates a scheduler on top of the given store.
func New(store *Store, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		logger: logger,
	}
}

// OnDue registers the handler invoked for every due event. Must be called
// before the tick driver starts.
func (s *Scheduler) OnDue(h DueHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDue = h
}

// Add creates an enabled reminder. Medication and time are required; time
// must be HH:MM.
func (s *Scheduler) Add(medication, timeOfDay string, frequency Frequency) (*Reminder, error) {
	medication = strings.TrimSpace(medication)
	timeOfDay = strings.TrimSpace(timeOfDay)

	if medication == "" {
		return nil, apperrors.ErrEmptyMedication
	}
	if timeOfDay == "" {
		return nil, apperrors.ErrEmptyTime
	}
	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		return nil, apperrors.ErrInvalidTime
	}
	if frequency == "" {
		frequency = FrequencyDaily
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := NextDue(timeOfDay, frequency, time.Now())
	if err != nil {
		return nil, err
	}

	r := &Reminder{
		Medication: medication,
		TimeOfDay:  timeOfDay,
		Frequency:  frequency,
		Enabled:    true,
		NextDueAt:  next,
	}
	if err := s.store.Create(r); err != nil {
		return nil, err
	}

	s.updateActiveGauge()
	s.logger.Info("Reminder added",
		zap.String("id", r.ID),
		zap.String("medication", r.Medication),
		zap.String("time", r.TimeOfDay),
		zap.Time("next_due", r.NextDueAt))
	return r, nil
}

// AutoCreateFromAnalysis appends one auto-created reminder per medication in
// the analysis. The time of day comes from the digit+am/pm fragment of the
// frequency text (default 08:00); the frequency classification is coarse.
// Duplicates against existing reminders are allowed.
func (s *Scheduler) AutoCreateFromAnalysis(analysis *engine.PrescriptionAnalysis) ([]*Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var created []*Reminder
	for _, med := range analysis.Medications {
		timeOfDay := parser.TimeOfDay(med.Frequency, defaultTimeOfDay)
		frequency := classifyFrequency(med.Frequency)
		next, err := NextDue(timeOfDay, frequency, now)
		if err != nil {
			return created, err
		}

		r := &Reminder{
			Medication:  med.Name,
			TimeOfDay:   timeOfDay,
			Frequency:   frequency,
			Enabled:     true,
			AutoCreated: true,
			NextDueAt:   next,
		}
		if err := s.store.Create(r); err != nil {
			return created, err
		}
		created = append(created, r)
	}

	s.updateActiveGauge()
	s.logger.Info("Reminders auto-created", zap.Int("count", len(created)))
	return created, nil
}

// Toggle flips a reminder's enabled state. A missing ID is a no-op.
func (s *Scheduler) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}

	r.Enabled = !r.Enabled
	if r.Enabled {
		if next, err := NextDue(r.TimeOfDay, r.Frequency, time.Now()); err == nil {
			r.NextDueAt = next
		}
	}
	if err := s.store.Update(r); err != nil {
		return err
	}

	s.updateActiveGauge()
	s.logger.Info("Reminder toggled", zap.String("id", id), zap.Bool("enabled", r.Enabled))
	return nil
}

// Delete removes a reminder. A missing ID is a no-op.
func (s *Scheduler) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(id); err != nil {
		return err
	}

	s.updateActiveGauge()
	s.logger.Info("Reminder deleted", zap.String("id", id))
	return nil
}

// Get returns a reminder by ID, or an error when it does not exist.
func (s *Scheduler) Get(id string) (*Reminder, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperrors.ErrReminderNotFound
	}
	return r, nil
}

// List returns all reminders in creation order.
func (s *Scheduler) List() ([]Reminder, error) {
	return s.store.List()
}

// Tick checks every enabled reminder against the current wall-clock minute
// and emits a due event for each match that has not already fired this
// minute. Safe to invoke more than once within the same minute.
func (s *Scheduler) Tick(now time.Time) ([]DueEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.store.ListEnabled()
	if err != nil {
		return nil, err
	}

	minute := now.Truncate(time.Minute)
	clock := now.Format("15:04")

	var due []DueEvent
	for i := range reminders {
		r := &reminders[i]
		if r.TimeOfDay != clock {
			continue
		}
		if r.LastFiredMinute != nil && r.LastFiredMinute.Equal(minute) {
			continue
		}

		r.LastFiredMinute = &minute
		if next, err := NextDue(r.TimeOfDay, r.Frequency, now); err == nil {
			r.NextDueAt = next
		}
		if err := s.store.Update(r); err != nil {
			s.logger.Error("Failed to record reminder firing",
				zap.String("id", r.ID), zap.Error(err))
			continue
		}

		event := DueEvent{
			ReminderID: r.ID,
			Medication: r.Medication,
			TimeOfDay:  r.TimeOfDay,
			Frequency:  r.Frequency,
			FiredAt:    now,
		}
		due = append(due, event)
		metrics.RecordReminderFired()

		if s.onDue != nil {
			s.onDue(event)
		}
	}

	if len(due) > 0 {
		s.logger.Info("Reminders fired", zap.Int("count", len(due)), zap.String("minute", clock))
	}
	return due, nil
}

// NextDue computes the next future instant matching timeOfDay. If today's
// occurrence is not after now, it rolls forward one day; Weekly rolls
// forward until the weekday matches now's weekday again.
func NextDue(timeOfDay string, frequency Frequency, now time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return time.Time{}, apperrors.ErrInvalidTime
	}

	next := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	if frequency == FrequencyWeekly {
		for next.Weekday() != now.Weekday() {
			next = next.AddDate(0, 0, 1)
		}
	}
	return next, nil
}

// classifyFrequency derives a coarse recurrence from free-form frequency
// text.
func classifyFrequency(text string) Frequency {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "twice"):
		return FrequencyTwiceDaily
	case strings.Contains(lower, "three"):
		return FrequencyThreeTimesDaily
	default:
		return FrequencyDaily
	}
}

// updateActiveGauge refreshes the enabled-reminder metric. Caller must hold
// the mutex.
func (s *Scheduler) updateActiveGauge() {
	if n, err := s.store.CountEnabled(); err == nil {
		metrics.SetActiveReminders(int(n))
	}
}

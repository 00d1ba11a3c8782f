package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store handles reminder persistence.
type Store struct {
	db *gorm.DB
}

// NewStore creates a reminder store.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Reminder{}); err != nil {
		return nil, fmt.Errorf("failed to migrate reminder schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Create persists a new reminder.
func (s *Store) Create(r *Reminder) error {
	if r.ID == "" {
		r.ID = "rem_" + uuid.NewString()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	return s.db.Create(r).Error
}

// Get retrieves a reminder by ID. Returns nil without error when missing.
func (s *Store) Get(id string) (*Reminder, error) {
	var r Reminder
	err := s.db.Where("id = ?", id).First(&r).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &r, err
}

// Update saves changes to an existing reminder.
func (s *Store) Update(r *Reminder) error {
	r.UpdatedAt = time.Now()
	return s.db.Save(r).Error
}

// Delete removes the reminder with the given ID. Deleting a missing ID is a
// no-op.
func (s *Store) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&Reminder{}).Error
}

// List returns all reminders in creation order.
func (s *Store) List() ([]Reminder, error) {
	var reminders []Reminder
	err := s.db.Order("created_at ASC, id ASC").Find(&reminders).Error
	return reminders, err
}

// ListEnabled returns only enabled reminders in creation order.
func (s *Store) ListEnabled() ([]Reminder, error) {
	var reminders []Reminder
	err := s.db.Where("enabled = ?", true).Order("created_at ASC, id ASC").Find(&reminders).Error
	return reminders, err
}

// CountEnabled returns the number of enabled reminders.
func (s *Store) CountEnabled() (int64, error) {
	var n int64
	err := s.db.Model(&Reminder{}).Where("enabled = ?", true).Count(&n).Error
	return n, err
}

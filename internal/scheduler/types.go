package scheduler

import "time"

// Frequency classifies how often a reminder recurs.
type Frequency string

const (
	FrequencyDaily           Frequency = "daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyWeekly          Frequency = "weekly"
	FrequencyAsNeeded        Frequency = "as_needed"
)

// Reminder is a recurring medication reminder. The scheduler is the sole
// writer of LastFiredMinute.
type Reminder struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	Medication      string     `json:"medication"`
	TimeOfDay       string     `json:"time_of_day"` // HH:MM, 24-hour
	Frequency       Frequency  `json:"frequency"`
	Enabled         bool       `json:"enabled"`
	AutoCreated     bool       `json:"auto_created"`
	NextDueAt       time.Time  `json:"next_due_at"`
	LastFiredMinute *time.Time `json:"last_fired_minute,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DueEvent signals that a reminder's trigger time has arrived.
type DueEvent struct {
	ReminderID string    `json:"reminder_id"`
	Medication string    `json:"medication"`
	TimeOfDay  string    `json:"time_of_day"`
	Frequency  Frequency `json:"frequency"`
	FiredAt    time.Time `json:"fired_at"`
}

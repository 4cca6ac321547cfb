package metrics

import (
	"time"

	"github.com/bezmoradi/hotmouse/internal/actions"
)

const dateLayout = "2006-01-02"

// Trigger is one hotkey that ran an action.
type Trigger struct {
	Timestamp time.Time `json:"timestamp"`
	Hotkey    string    `json:"hotkey"`
	Action    string    `json:"action"`
}

type DailyMetrics struct {
	Date          string         `json:"date"`
	TriggerCount  int            `json:"trigger_count"`
	CardsAnswered int            `json:"cards_answered"`
	ActionCounts  map[string]int `json:"action_counts"`
	HotkeyCounts  map[string]int `json:"hotkey_counts"`
	FirstTrigger  time.Time      `json:"first_trigger"`
	LastTrigger   time.Time      `json:"last_trigger"`
}

// ActiveTime is the span between the first and last trigger of the day.
func (d *DailyMetrics) ActiveTime() time.Duration {
	if d.FirstTrigger.IsZero() || d.LastTrigger.IsZero() {
		return 0
	}
	return d.LastTrigger.Sub(d.FirstTrigger)
}

func (d *DailyMetrics) add(t Trigger) {
	if d.ActionCounts == nil {
		d.ActionCounts = map[string]int{}
	}
	if d.HotkeyCounts == nil {
		d.HotkeyCounts = map[string]int{}
	}

	d.TriggerCount++
	d.ActionCounts[t.Action]++
	d.HotkeyCounts[t.Hotkey]++
	// Only grades that reached a button are recorded.
	if a, err := actions.Parse(t.Action); err == nil && a.IsGrade() {
		d.CardsAnswered++
	}
	if d.FirstTrigger.IsZero() || t.Timestamp.Before(d.FirstTrigger) {
		d.FirstTrigger = t.Timestamp
	}
	if t.Timestamp.After(d.LastTrigger) {
		d.LastTrigger = t.Timestamp
	}
}

type TotalMetrics struct {
	TotalTriggers     int            `json:"total_triggers"`
	CardsAnswered     int            `json:"cards_answered"`
	ActiveDays        int            `json:"active_days"`
	ActiveTime        time.Duration  `json:"active_time"`
	ActionCounts      map[string]int `json:"action_counts"`
	AvgTriggersPerDay int            `json:"avg_triggers_per_day"`
}

// MetricsManager records which hotkeys ran which actions.
type MetricsManager struct {
	storage *Storage
	now     func() time.Time
}

func NewMetricsManager(storagePath string) (*MetricsManager, error) {
	storage, err := NewStorage(storagePath)
	if err != nil {
		return nil, err
	}

	return &MetricsManager{
		storage: storage,
		now:     time.Now,
	}, nil
}

// RecordTrigger stores a trigger under today's date.
func (mm *MetricsManager) RecordTrigger(hotkey, action string) error {
	return mm.storage.SaveTrigger(Trigger{
		Timestamp: mm.now(),
		Hotkey:    hotkey,
		Action:    action,
	})
}

func (mm *MetricsManager) GetTodayMetrics() (*DailyMetrics, error) {
	return mm.storage.GetDailyMetrics(mm.now().Format(dateLayout))
}

func (mm *MetricsManager) GetTotalMetrics() (*TotalMetrics, error) {
	return mm.storage.GetTotalMetrics()
}

func (mm *MetricsManager) GetRecentDays(days int) ([]*DailyMetrics, error) {
	return mm.storage.GetRecentDays(mm.now(), days)
}

func (mm *MetricsManager) ClearAllMetrics() error {
	return mm.storage.ClearAllMetrics()
}

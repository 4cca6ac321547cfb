package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type Storage struct {
	baseDir string
}

const dailyMetricsDir = "daily"

func NewStorage(baseDir string) (*Storage, error) {
	dailyDir := filepath.Join(baseDir, dailyMetricsDir)
	if err := os.MkdirAll(dailyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics directory: %w", err)
	}

	return &Storage{
		baseDir: baseDir,
	}, nil
}

func (s *Storage) SaveTrigger(t Trigger) error {
	date := t.Timestamp.Format(dateLayout)

	dailyMetrics, err := s.GetDailyMetrics(date)
	if err != nil {
		// Corrupt file: start the day over
		dailyMetrics = &DailyMetrics{Date: date}
	}

	dailyMetrics.add(t)
	return s.saveDailyMetrics(dailyMetrics)
}

func (s *Storage) dailyPath(date string) string {
	return filepath.Join(s.baseDir, dailyMetricsDir, fmt.Sprintf("%s.json", date))
}

func (s *Storage) GetDailyMetrics(date string) (*DailyMetrics, error) {
	data, err := os.ReadFile(s.dailyPath(date))
	if os.IsNotExist(err) {
		return &DailyMetrics{Date: date}, nil
	}
	if err != nil {
		return nil, err
	}

	var dailyMetrics DailyMetrics
	if err := json.Unmarshal(data, &dailyMetrics); err != nil {
		return nil, err
	}

	return &dailyMetrics, nil
}

func (s *Storage) saveDailyMetrics(metrics *DailyMetrics) error {
	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.dailyPath(metrics.Date), data, 0644)
}

func (s *Storage) GetTotalMetrics() (*TotalMetrics, error) {
	days, err := s.GetAllDailyMetrics()
	if err != nil {
		return nil, err
	}

	totalMetrics := &TotalMetrics{ActionCounts: map[string]int{}}
	for _, day := range days {
		if day.TriggerCount == 0 {
			continue
		}
		totalMetrics.ActiveDays++
		totalMetrics.TotalTriggers += day.TriggerCount
		totalMetrics.CardsAnswered += day.CardsAnswered
		totalMetrics.ActiveTime += day.ActiveTime()
		for action, n := range day.ActionCounts {
			totalMetrics.ActionCounts[action] += n
		}
	}

	if totalMetrics.ActiveDays > 0 {
		totalMetrics.AvgTriggersPerDay = totalMetrics.TotalTriggers / totalMetrics.ActiveDays
	}

	return totalMetrics, nil
}

// GetRecentDays returns the given number of days ending with today, oldest
// first.
func (s *Storage) GetRecentDays(today time.Time, days int) ([]*DailyMetrics, error) {
	var recentMetrics []*DailyMetrics

	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dateLayout)
		dailyMetrics, err := s.GetDailyMetrics(date)
		if err != nil {
			continue // Skip problematic days
		}
		recentMetrics = append(recentMetrics, dailyMetrics)
	}

	return recentMetrics, nil
}

func (s *Storage) ClearAllMetrics() error {
	files, err := s.dailyFiles()
	if err != nil {
		return nil // Directory doesn't exist, nothing to clear
	}

	for _, name := range files {
		if err := os.Remove(filepath.Join(s.baseDir, dailyMetricsDir, name)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}

	return nil
}

func (s *Storage) GetAllDailyMetrics() ([]*DailyMetrics, error) {
	files, err := s.dailyFiles()
	if err != nil {
		return []*DailyMetrics{}, nil
	}

	var allMetrics []*DailyMetrics
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(s.baseDir, dailyMetricsDir, name))
		if err != nil {
			continue
		}

		var dailyMetrics DailyMetrics
		if err := json.Unmarshal(data, &dailyMetrics); err != nil {
			continue
		}

		allMetrics = append(allMetrics, &dailyMetrics)
	}

	return allMetrics, nil
}

// dailyFiles lists the daily files in chronological order.
func (s *Storage) dailyFiles() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, dailyMetricsDir))
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatDuration renders a duration as "1h 5m", "3m 12s" or "40s".
func FormatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}

	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0 && seconds > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", seconds)
}

type actionCount struct {
	action string
	count  int
}

// topActions returns up to n actions, most used first.
func topActions(counts map[string]int, n int) []actionCount {
	out := make([]actionCount, 0, len(counts))
	for action, count := range counts {
		out = append(out, actionCount{action, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].action < out[j].action
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func formatTop(counts map[string]int, n int) string {
	var parts []string
	for _, ac := range topActions(counts, n) {
		parts = append(parts, fmt.Sprintf("%s ×%d", ac.action, ac.count))
	}
	return strings.Join(parts, ", ")
}

type StatsFormatter struct{}

func NewStatsFormatter() *StatsFormatter {
	return &StatsFormatter{}
}

// FormatTriggerLines is the live status shown after each trigger.
func (sf *StatsFormatter) FormatTriggerLines(hotkey, action string, today *DailyMetrics) []string {
	lines := []string{fmt.Sprintf("🖱️  %s → %s", hotkey, action)}

	if today != nil && today.TriggerCount > 0 {
		lines = append(lines, fmt.Sprintf("📈 Today: %d actions, %d cards answered in %s",
			today.TriggerCount, today.CardsAnswered, FormatDuration(today.ActiveTime())))
	}

	return lines
}

func (sf *StatsFormatter) FormatTotalStats(totalMetrics *TotalMetrics) string {
	if totalMetrics.TotalTriggers == 0 {
		return "📊 No usage statistics yet. Review with your mouse to start tracking!"
	}

	stats := "📊 Total Statistics:\n"
	stats += fmt.Sprintf("   Actions triggered: %d\n", totalMetrics.TotalTriggers)
	stats += fmt.Sprintf("   Cards answered: %d\n", totalMetrics.CardsAnswered)
	stats += fmt.Sprintf("   Active days: %d\n", totalMetrics.ActiveDays)
	stats += fmt.Sprintf("   Review time: %s\n", FormatDuration(totalMetrics.ActiveTime))
	stats += fmt.Sprintf("   Avg actions/day: %d\n", totalMetrics.AvgTriggersPerDay)
	stats += fmt.Sprintf("   Most used: %s", formatTop(totalMetrics.ActionCounts, 3))

	return stats
}

func (sf *StatsFormatter) FormatRecentStats(days []*DailyMetrics) string {
	if len(days) == 0 {
		return "📅 No recent data available yet."
	}

	totalTriggers := 0
	totalAnswered := 0
	activeDays := 0
	counts := map[string]int{}

	for _, day := range days {
		if day.TriggerCount == 0 {
			continue
		}
		activeDays++
		totalTriggers += day.TriggerCount
		totalAnswered += day.CardsAnswered
		for action, n := range day.ActionCounts {
			counts[action] += n
		}
	}

	if activeDays == 0 {
		return fmt.Sprintf("📅 No activity in the last %d days.", len(days))
	}

	stats := fmt.Sprintf("📅 Last %d days:\n", len(days))
	stats += fmt.Sprintf("   Active days: %d/%d\n", activeDays, len(days))
	stats += fmt.Sprintf("   Actions triggered: %d\n", totalTriggers)
	stats += fmt.Sprintf("   Cards answered: %d\n", totalAnswered)
	stats += fmt.Sprintf("   Most used: %s", formatTop(counts, 3))

	return stats
}

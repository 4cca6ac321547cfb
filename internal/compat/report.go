package compat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryTitle is the title of the notice shown after a migration.
const SummaryTitle = "Hotmouse Update Notes"

const summaryIntro = "Some shortcuts were invalid, and were modified or removed for compatibility. " +
	"Hotkeys ending in a press are no longer valid; hotkeys must now end with a click or a wheel."

// Report lists what a migration changed.
type Report struct {
	// Modified maps each renamed hotkey to its new name.
	Modified map[string]string
	// Removed maps each dropped hotkey to the action it was bound to.
	Removed map[string]string
}

// Empty reports whether the migration left every shortcut as it was.
func (r Report) Empty() bool {
	return len(r.Modified) == 0 && len(r.Removed) == 0
}

func (r Report) lines() (modified, removed []string) {
	for _, old := range sortedKeys(r.Modified) {
		modified = append(modified, fmt.Sprintf("%s → %s", old, r.Modified[old]))
	}
	for _, hk := range sortedKeys(r.Removed) {
		removed = append(removed, fmt.Sprintf("%s: %s", hk, r.Removed[hk]))
	}
	return modified, removed
}

// Summary returns the plain text notice for the user. It is empty when
// nothing changed.
func (r Report) Summary() string {
	if r.Empty() {
		return ""
	}

	modified, removed := r.lines()
	var b strings.Builder
	b.WriteString(summaryIntro)
	if len(modified) > 0 {
		b.WriteString("\n\nList of modified hotkeys:")
		for _, line := range modified {
			b.WriteString("\n" + line)
		}
	}
	if len(removed) > 0 {
		b.WriteString("\n\nList of deleted hotkeys:")
		for _, line := range removed {
			b.WriteString("\n" + line)
		}
	}
	return b.String()
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	renameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).PaddingLeft(2)
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).PaddingLeft(2)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Render returns the notice styled for a terminal.
func (r Report) Render() string {
	if r.Empty() {
		return ""
	}

	modified, removed := r.lines()
	blocks := []string{
		titleStyle.Render(SummaryTitle),
		lipgloss.NewStyle().Width(72).Render(summaryIntro),
	}
	if len(modified) > 0 {
		blocks = append(blocks, headingStyle.Render("Modified hotkeys"))
		for _, line := range modified {
			blocks = append(blocks, renameStyle.Render(line))
		}
	}
	if len(removed) > 0 {
		blocks = append(blocks, headingStyle.Render("Deleted hotkeys"))
		for _, line := range removed {
			blocks = append(blocks, removedStyle.Render(line))
		}
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

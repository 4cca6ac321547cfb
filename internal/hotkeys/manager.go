package hotkeys

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bezmoradi/hotmouse/internal/actions"
	"github.com/bezmoradi/hotmouse/internal/hotkey"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Tooltip(msg string)
}

// TriggerRecorder is told about every action that ran.
type TriggerRecorder interface {
	RecordTrigger(hotkey, action string) error
}

// Options are the config settings the manager reads on every event.
type Options struct {
	// ThresholdWheel is the minimum time between accepted scroll events.
	ThresholdWheel time.Duration
	// Tooltip shows the action name when a shortcut runs.
	Tooltip bool
	// Debug shows the raw hotkey string on every mouse action.
	Debug bool
}

type shortcut struct {
	hotkey hotkey.Hotkey
	action actions.Action
}

// Manager turns mouse events into review actions. It is owned by the host's
// event loop and is not safe for concurrent use.
type Manager struct {
	opts      Options
	enabled   bool
	shortcuts map[string]shortcut
	hasWheel  bool

	registry *actions.Registry
	notifier Notifier
	recorder TriggerRecorder
	scroll   *scrollDebouncer
	now      func() time.Time

	onStateChange func(enabled bool)
}

// NewManager creates a manager that runs actions against reviewer.
func NewManager(reviewer actions.Reviewer, notifier Notifier, opts Options, enabled bool) *Manager {
	m := &Manager{
		opts:      opts,
		enabled:   enabled,
		shortcuts: make(map[string]shortcut),
		notifier:  notifier,
		scroll:    newScrollDebouncer(opts.ThresholdWheel),
		now:       time.Now,
	}
	m.registry = actions.NewRegistry(reviewer, m)
	return m
}

// SetRecorder sets where executed actions are reported.
func (m *Manager) SetRecorder(r TriggerRecorder) {
	m.recorder = r
}

// OnStateChange registers fn to be called whenever hotmouse is switched on
// or off.
func (m *Manager) OnStateChange(fn func(enabled bool)) {
	m.onStateChange = fn
}

// SetOptions replaces the options, keeping the enabled state and the time of
// the last accepted scroll.
func (m *Manager) SetOptions(opts Options) {
	m.opts = opts
	m.scroll.threshold = opts.ThresholdWheel
}

// Refresh replaces the shortcut table. Hotkeys are stored in normalized chord
// order; entries with an invalid hotkey or an unknown action are skipped.
func (m *Manager) Refresh(table map[string]string) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	shortcuts := make(map[string]shortcut, len(table))
	hasWheel := false
	for _, raw := range keys {
		hk, err := hotkey.Parse(raw)
		if err != nil {
			log.Warnf("[HOTMOUSE] Skipping shortcut %q: %v", raw, err)
			continue
		}
		action, err := actions.Parse(table[raw])
		if err != nil {
			log.Warnf("[HOTMOUSE] Skipping shortcut %q: %v", raw, err)
			continue
		}

		hk = hk.Normalize()
		key := hk.String()
		if _, dup := shortcuts[key]; dup && raw != key {
			log.Warnf("[HOTMOUSE] Shortcut %q duplicates %q, keeping the sorted one", raw, key)
			continue
		}
		shortcuts[key] = shortcut{hotkey: hk, action: action}
		hasWheel = hasWheel || hk.IsWheel()
	}

	m.shortcuts = shortcuts
	m.hasWheel = hasWheel
	log.Debugf("[HOTMOUSE] Loaded %d shortcuts, wheel hotkeys: %v", len(shortcuts), hasWheel)
}

// Enabled reports whether hotmouse is on.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Enable switches hotmouse on without notifying the user.
func (m *Manager) Enable() {
	m.enabled = true
}

// Disable switches hotmouse off without notifying the user.
func (m *Manager) Disable() {
	m.enabled = false
}

// TurnOn implements actions.Toggler.
func (m *Manager) TurnOn() {
	if !m.enabled {
		m.setEnabled(true)
	}
}

// TurnOff implements actions.Toggler.
func (m *Manager) TurnOff() {
	if m.enabled {
		m.setEnabled(false)
	}
}

// ToggleOnOff implements actions.Toggler.
func (m *Manager) ToggleOnOff() {
	m.setEnabled(!m.enabled)
}

func (m *Manager) setEnabled(enabled bool) {
	m.enabled = enabled
	if enabled {
		m.tooltip("Enabled hotmouse")
	} else {
		m.tooltip("Disabled hotmouse")
	}
	log.Infof("[HOTMOUSE] Enabled: %v", enabled)
	if m.onStateChange != nil {
		m.onStateChange(enabled)
	}
}

// HasWheelHotkey reports whether any shortcut is triggered by scrolling.
func (m *Manager) HasWheelHotkey() bool {
	return m.hasWheel
}

// UsesButton reports whether any shortcut involves b.
func (m *Manager) UsesButton(b hotkey.Button) bool {
	for _, s := range m.shortcuts {
		if s.hotkey.Uses(b) {
			return true
		}
	}
	return false
}

// Lookup returns the action bound to hk.
func (m *Manager) Lookup(hk hotkey.Hotkey) (actions.Action, bool) {
	s, ok := m.shortcuts[hk.Normalize().String()]
	return s.action, ok
}

// Execute runs the action bound to hk. It returns true if an action ran.
func (m *Manager) Execute(hk hotkey.Hotkey) bool {
	key := hk.Normalize().String()
	if m.enabled && m.opts.Debug {
		m.tooltip(key)
	}

	s, ok := m.shortcuts[key]
	if !ok || s.action == actions.ActionNone {
		return false
	}
	if !m.enabled && !s.action.AlwaysAllowed() {
		return false
	}

	if m.opts.Tooltip {
		m.tooltip(s.action.String())
	}
	if err := m.registry.Run(s.action); err != nil {
		if errors.Is(err, actions.ErrNoAnswerButton) {
			log.Debugf("[HOTMOUSE] %s -> %s skipped: %v", key, s.action, err)
			return true
		}
		log.Errorf("[HOTMOUSE] Action %s for %s failed: %v", s.action, key, err)
		return false
	}
	log.Debugf("[HOTMOUSE] %s -> %s", key, s.action)

	if m.recorder != nil {
		if err := m.recorder.RecordTrigger(key, s.action.String()); err != nil {
			log.Warnf("[HOTMOUSE] Failed to record trigger: %v", err)
		}
	}
	return true
}

// HandlePress handles a button press. held lists the buttons that were
// already down; trigger is the button that caused the event.
func (m *Manager) HandlePress(side hotkey.Side, held []hotkey.Button, trigger hotkey.Button) bool {
	if !trigger.Valid() {
		log.Warnf("[HOTMOUSE] Unknown button pressed: %d", trigger)
		return false
	}

	chord := slices.DeleteFunc(slices.Clone(held), func(b hotkey.Button) bool {
		return b == trigger || !b.Valid()
	})
	hk, err := hotkey.NewClick(side, chord, trigger)
	if err != nil {
		log.Warnf("[HOTMOUSE] Dropping press: %v", err)
		return false
	}
	return m.Execute(hk)
}

// HandleRelease reports whether the release of b should be swallowed so the
// host does not navigate back or forward on an extra button bound to a
// shortcut.
func (m *Manager) HandleRelease(b hotkey.Button) bool {
	if !m.enabled {
		return false
	}
	if b != hotkey.ButtonX1 && b != hotkey.ButtonX2 {
		return false
	}
	return m.UsesButton(b)
}

// HandleContextMenu reports whether the host's context menu should be
// suppressed because the right button is bound.
func (m *Manager) HandleContextMenu() bool {
	return m.enabled && m.UsesButton(hotkey.ButtonRight)
}

// HandleWheel handles a native scroll event, where a positive delta means up.
func (m *Manager) HandleWheel(side hotkey.Side, delta int, held []hotkey.Button) bool {
	return m.handleScroll(side, hotkey.WheelFromDelta(delta), held)
}

// HandleWebWheel handles a scroll reported by the web layer, whose delta
// sign is inverted.
func (m *Manager) HandleWebWheel(side hotkey.Side, delta int, held []hotkey.Button) bool {
	return m.handleScroll(side, hotkey.WheelFromWebDelta(delta), held)
}

func (m *Manager) handleScroll(side hotkey.Side, dir hotkey.WheelDirection, held []hotkey.Button) bool {
	if dir == hotkey.WheelNone || !m.hasWheel {
		return false
	}
	if !m.scroll.accept(m.now()) {
		// Keep swallowing the burst so the card does not scroll underneath.
		return m.enabled
	}

	chord := slices.DeleteFunc(slices.Clone(held), func(b hotkey.Button) bool {
		return !b.Valid()
	})
	hk, err := hotkey.NewWheel(side, chord, dir)
	if err != nil {
		log.Warnf("[HOTMOUSE] Dropping scroll: %v", err)
		return false
	}
	return m.Execute(hk)
}

func (m *Manager) tooltip(msg string) {
	if m.notifier != nil {
		m.notifier.Tooltip(strings.TrimSpace(msg))
	}
}

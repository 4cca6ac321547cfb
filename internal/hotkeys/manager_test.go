package hotkeys

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezmoradi/hotmouse/internal/actions/actionstest"
	"github.com/bezmoradi/hotmouse/internal/hotkey"
)

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Tooltip(msg string) {
	n.messages = append(n.messages, msg)
}

type recordingRecorder struct {
	triggers []string
}

func (r *recordingRecorder) RecordTrigger(hk, action string) error {
	r.triggers = append(r.triggers, hk+"="+action)
	return nil
}

// fakeClock is advanced by hand.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, table map[string]string) (*Manager, *actionstest.Reviewer, *recordingNotifier, *fakeClock) {
	t.Helper()

	reviewer := actionstest.NewReviewer()
	notifier := &recordingNotifier{}
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	m := NewManager(reviewer, notifier, Options{ThresholdWheel: 200 * time.Millisecond}, true)
	m.now = clock.now
	m.Refresh(table)
	return m, reviewer, notifier, clock
}

func mustParse(t *testing.T, s string) hotkey.Hotkey {
	t.Helper()
	h, err := hotkey.Parse(s)
	require.NoError(t, err)
	return h
}

func TestExecuteRunsBoundAction(t *testing.T) {
	m, reviewer, _, _ := newTestManager(t, map[string]string{"q_click_right": "show_ans"})

	assert.True(t, m.Execute(mustParse(t, "q_click_right")))
	assert.Equal(t, []string{"show_answer"}, reviewer.Calls)
}

func TestExecuteNoAction(t *testing.T) {
	m, reviewer, _, _ := newTestManager(t, map[string]string{
		"q_click_right": "<none>",
		"q_click_left":  "",
	})

	assert.False(t, m.Execute(mustParse(t, "q_click_right")))
	assert.False(t, m.Execute(mustParse(t, "q_click_left")))
	assert.False(t, m.Execute(mustParse(t, "a_click_middle")))
	assert.Empty(t, reviewer.Calls)
}

func TestExecuteMatchesUnsortedChord(t *testing.T) {
	m, reviewer, _, _ := newTestManager(t, map[string]string{"a_press_left_press_right_click_middle": "easy"})

	hk, err := hotkey.NewClick(hotkey.SideAnswer, []hotkey.Button{hotkey.ButtonRight, hotkey.ButtonLeft}, hotkey.ButtonMiddle)
	require.NoError(t, err)

	assert.True(t, m.Execute(hk))
	assert.Equal(t, "answer:4", reviewer.Last())
}

func TestDisabledGating(t *testing.T) {
	m, reviewer, notifier, _ := newTestManager(t, map[string]string{
		"q_click_right":  "show_ans",
		"q_click_middle": "on",
		"q_click_left":   "off",
	})

	require.True(t, m.Execute(mustParse(t, "q_click_left")))
	assert.False(t, m.Enabled())
	assert.Equal(t, []string{"Disabled hotmouse"}, notifier.messages)

	assert.False(t, m.Execute(mustParse(t, "q_click_right")))
	assert.False(t, m.Execute(mustParse(t, "q_click_left")))
	assert.Empty(t, reviewer.Calls)

	require.True(t, m.Execute(mustParse(t, "q_click_middle")))
	assert.True(t, m.Enabled())
	assert.Equal(t, []string{"Disabled hotmouse", "Enabled hotmouse"}, notifier.messages)

	assert.True(t, m.Execute(mustParse(t, "q_click_right")))
	assert.Equal(t, []string{"show_answer"}, reviewer.Calls)
}

func TestToggleOnOffWhileDisabled(t *testing.T) {
	m, _, _, _ := newTestManager(t, map[string]string{"a_click_xbutton1": "on_off"})
	m.Disable()

	var states []bool
	m.OnStateChange(func(enabled bool) { states = append(states, enabled) })

	assert.True(t, m.Execute(mustParse(t, "a_click_xbutton1")))
	assert.True(t, m.Execute(mustParse(t, "a_click_xbutton1")))
	assert.Equal(t, []bool{true, false}, states)
}

func TestTurnOnIsQuietWhenAlreadyOn(t *testing.T) {
	m, _, notifier, _ := newTestManager(t, map[string]string{"q_click_right": "on"})

	assert.True(t, m.Execute(mustParse(t, "q_click_right")))
	assert.Empty(t, notifier.messages)
}

func TestTooltipAndDebug(t *testing.T) {
	m, _, notifier, _ := newTestManager(t, map[string]string{"q_press_left_click_right": "red"})
	m.SetOptions(Options{Tooltip: true, Debug: true, ThresholdWheel: 200 * time.Millisecond})

	assert.True(t, m.HandlePress(hotkey.SideQuestion, []hotkey.Button{hotkey.ButtonLeft}, hotkey.ButtonRight))
	assert.Equal(t, []string{"q_press_left_click_right", "red"}, notifier.messages)

	notifier.messages = nil
	assert.False(t, m.HandlePress(hotkey.SideAnswer, nil, hotkey.ButtonLeft))
	assert.Equal(t, []string{"a_click_left"}, notifier.messages)

	notifier.messages = nil
	m.Disable()
	assert.False(t, m.HandlePress(hotkey.SideAnswer, nil, hotkey.ButtonLeft))
	assert.Empty(t, notifier.messages, "debug hotkey is only shown while enabled")
}

func TestHandlePressDropsUnknownButton(t *testing.T) {
	m, reviewer, notifier, _ := newTestManager(t, map[string]string{"q_click_right": "good"})
	m.SetOptions(Options{Debug: true})

	assert.False(t, m.HandlePress(hotkey.SideQuestion, nil, hotkey.Button(107)))
	assert.Empty(t, reviewer.Calls)
	assert.Empty(t, notifier.messages)
}

func TestHandlePressExcludesTrigger(t *testing.T) {
	m, reviewer, _, _ := newTestManager(t, map[string]string{"q_press_left_click_right": "mark"})

	held := []hotkey.Button{hotkey.ButtonLeft, hotkey.ButtonRight}
	assert.True(t, m.HandlePress(hotkey.SideQuestion, held, hotkey.ButtonRight))
	assert.Equal(t, []string{"mark"}, reviewer.Calls)
	assert.Equal(t, []hotkey.Button{hotkey.ButtonLeft, hotkey.ButtonRight}, held)
}

func TestGradeCollapseThroughManager(t *testing.T) {
	m, reviewer, _, _ := newTestManager(t, map[string]string{
		"a_click_left":  "hard",
		"a_click_right": "good",
	})
	reviewer.Buttons = 2
	rec := &recordingRecorder{}
	m.SetRecorder(rec)

	assert.True(t, m.Execute(mustParse(t, "a_click_left")))
	assert.Empty(t, reviewer.Calls)
	assert.Empty(t, rec.triggers, "a grade without a button is not recorded")

	assert.True(t, m.Execute(mustParse(t, "a_click_right")))
	assert.Equal(t, []string{"answer:2"}, reviewer.Calls)
	assert.Equal(t, []string{"a_click_right=good"}, rec.triggers)
}

func TestScrollDebounce(t *testing.T) {
	m, reviewer, _, clock := newTestManager(t, map[string]string{"a_wheel_down": "good"})

	assert.True(t, m.HandleWheel(hotkey.SideAnswer, -120, nil))
	assert.Len(t, reviewer.Calls, 1)

	clock.advance(100 * time.Millisecond)
	assert.True(t, m.HandleWheel(hotkey.SideAnswer, -120, nil), "dropped scroll is still consumed while enabled")
	assert.Len(t, reviewer.Calls, 1)

	clock.advance(150 * time.Millisecond)
	assert.True(t, m.HandleWheel(hotkey.SideAnswer, -120, nil), "window is measured from the last accepted scroll")
	assert.Len(t, reviewer.Calls, 2)

	clock.advance(200 * time.Millisecond)
	assert.True(t, m.HandleWheel(hotkey.SideAnswer, -120, nil), "exactly the threshold is still too soon")
	assert.Len(t, reviewer.Calls, 2)
}

func TestScrollDroppedWhileDisabledIsNotConsumed(t *testing.T) {
	m, _, _, clock := newTestManager(t, map[string]string{"a_wheel_down": "good"})
	m.Disable()

	assert.False(t, m.HandleWheel(hotkey.SideAnswer, -1, nil))
	clock.advance(10 * time.Millisecond)
	assert.False(t, m.HandleWheel(hotkey.SideAnswer, -1, nil))
}

func TestScrollZeroDeltaAndNoWheelHotkeys(t *testing.T) {
	m, reviewer, _, _ := newTestManager(t, map[string]string{"a_wheel_up": "again"})
	assert.True(t, m.HasWheelHotkey())
	assert.False(t, m.HandleWheel(hotkey.SideAnswer, 0, nil))

	m.Refresh(map[string]string{"a_click_right": "again"})
	assert.False(t, m.HasWheelHotkey())
	assert.False(t, m.HandleWheel(hotkey.SideAnswer, 120, nil))
	assert.Empty(t, reviewer.Calls)
}

func TestScrollWithChord(t *testing.T) {
	m, reviewer, _, _ := newTestManager(t, map[string]string{"q_press_right_wheel_up": "undo"})

	assert.True(t, m.HandleWheel(hotkey.SideQuestion, 120, []hotkey.Button{hotkey.ButtonRight}))
	assert.Equal(t, []string{"undo"}, reviewer.Calls)
}

func TestUsesButtonReleaseAndContextMenu(t *testing.T) {
	m, _, _, _ := newTestManager(t, map[string]string{
		"q_press_xbutton1_click_left": "again",
		"a_click_right":               "<none>",
	})

	assert.True(t, m.UsesButton(hotkey.ButtonX1))
	assert.True(t, m.UsesButton(hotkey.ButtonRight))
	assert.False(t, m.UsesButton(hotkey.ButtonX2))

	assert.True(t, m.HandleRelease(hotkey.ButtonX1))
	assert.False(t, m.HandleRelease(hotkey.ButtonX2))
	assert.False(t, m.HandleRelease(hotkey.ButtonLeft))
	assert.True(t, m.HandleContextMenu())

	m.Disable()
	assert.False(t, m.HandleRelease(hotkey.ButtonX1))
	assert.False(t, m.HandleContextMenu())
}

func TestRefreshSkipsInvalidEntries(t *testing.T) {
	m, _, _, _ := newTestManager(t, map[string]string{
		"q_click_right":            "good",
		"q_click_xbutton3":         "good",
		"a_click_left":             "strange_looking_action",
		"a_strange_looking_hotkey": "good",
		"q_press_middle":           "easy",
	})

	_, ok := m.Lookup(mustParse(t, "q_click_right"))
	assert.True(t, ok)
	_, ok = m.Lookup(mustParse(t, "a_click_left"))
	assert.False(t, ok)
	assert.Len(t, m.shortcuts, 1)
}

func TestRefreshPrefersSortedDuplicate(t *testing.T) {
	m, _, _, _ := newTestManager(t, map[string]string{
		"q_press_right_press_left_click_middle": "again",
		"q_press_left_press_right_click_middle": "good",
	})

	action, ok := m.Lookup(mustParse(t, "q_press_left_press_right_click_middle"))
	require.True(t, ok)
	assert.Equal(t, "good", action.String())
}

func TestExecuteRecordsTrigger(t *testing.T) {
	m, _, _, _ := newTestManager(t, map[string]string{"a_click_right": "blue", "a_click_left": "<none>"})
	rec := &recordingRecorder{}
	m.SetRecorder(rec)

	m.Execute(mustParse(t, "a_click_right"))
	m.Execute(mustParse(t, "a_click_left"))
	assert.Equal(t, []string{"a_click_right=blue"}, rec.triggers)
}

func TestExecuteReviewerFailure(t *testing.T) {
	m, reviewer, _, _ := newTestManager(t, map[string]string{"a_click_right": "bury_card"})
	reviewer.Err = errors.New("no card")

	assert.False(t, m.Execute(mustParse(t, "a_click_right")))
}

package hotkey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestButtonString(t *testing.T) {
	tests := []struct {
		button   Button
		expected string
	}{
		{ButtonNone, "none"},
		{ButtonLeft, "left"},
		{ButtonRight, "right"},
		{ButtonMiddle, "middle"},
		{ButtonX1, "xbutton1"},
		{ButtonX2, "xbutton2"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.button.String())
		})
	}
}

func TestParseButton(t *testing.T) {
	for _, b := range Buttons() {
		got, ok := ParseButton(b.String())
		require.True(t, ok, b.String())
		assert.Equal(t, b, got)
	}

	_, ok := ParseButton("xbutton3")
	assert.False(t, ok)
	_, ok = ParseButton("none")
	assert.False(t, ok)
}

func TestWheelFromDelta(t *testing.T) {
	assert.Equal(t, WheelUp, WheelFromDelta(120))
	assert.Equal(t, WheelDown, WheelFromDelta(-120))
	assert.Equal(t, WheelNone, WheelFromDelta(0))

	assert.Equal(t, WheelDown, WheelFromWebDelta(100))
	assert.Equal(t, WheelUp, WheelFromWebDelta(-3))
	assert.Equal(t, WheelNone, WheelFromWebDelta(0))
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		side     Side
		held     []Button
		click    Button
		wheel    WheelDirection
		expected string
	}{
		{"plain click", SideQuestion, nil, ButtonRight, WheelNone, "q_click_right"},
		{"chord click", SideQuestion, []Button{ButtonLeft}, ButtonRight, WheelNone, "q_press_left_click_right"},
		{"wheel", SideAnswer, nil, ButtonNone, WheelUp, "a_wheel_up"},
		{"chord wheel", SideAnswer, []Button{ButtonRight, ButtonMiddle}, ButtonNone, WheelDown, "a_press_right_press_middle_wheel_down"},
		{"caller order kept", SideQuestion, []Button{ButtonX2, ButtonLeft}, ButtonMiddle, WheelNone, "q_press_xbutton2_press_left_click_middle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Build(tt.side, tt.held, tt.click, tt.wheel)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, h.String())
		})
	}
}

func TestBuildRejectsBadTerminal(t *testing.T) {
	_, err := Build(SideQuestion, nil, ButtonNone, WheelNone)
	assert.ErrorIs(t, err, ErrMissingTerminal)

	_, err = Build(SideQuestion, nil, ButtonLeft, WheelUp)
	assert.ErrorIs(t, err, ErrAmbiguousTerminal)

	_, err = NewClick(SideQuestion, nil, Button(42))
	assert.ErrorIs(t, err, ErrUnknownButton)

	_, err = NewWheel(SideQuestion, []Button{Button(42)}, WheelUp)
	assert.ErrorIs(t, err, ErrUnknownButton)
}

func TestBuildDoesNotAliasHeld(t *testing.T) {
	held := []Button{ButtonLeft}
	h, err := NewClick(SideQuestion, held, ButtonRight)
	require.NoError(t, err)

	held[0] = ButtonMiddle
	assert.Equal(t, "q_press_left_click_right", h.String())
}

func TestClickShape(t *testing.T) {
	chords := [][]Button{
		nil,
		{ButtonLeft},
		{ButtonLeft, ButtonMiddle},
		{ButtonX1, ButtonX2, ButtonMiddle},
	}

	for _, side := range []Side{SideQuestion, SideAnswer} {
		for _, chord := range chords {
			for _, trigger := range Buttons() {
				h, err := NewClick(side, chord, trigger)
				require.NoError(t, err)

				s := h.String()
				assert.True(t, strings.HasPrefix(s, side.Prefix()+"_"))
				assert.Equal(t, len(chord), strings.Count(s, "press_"))
				assert.Equal(t, 1, strings.Count(s, "click_"))
				assert.True(t, strings.HasSuffix(s, "_click_"+trigger.String()))
			}
		}
	}
}

func TestBuildIsInjective(t *testing.T) {
	seen := make(map[string]Hotkey)
	chords := [][]Button{nil, {ButtonLeft}, {ButtonRight}, {ButtonLeft, ButtonRight}, {ButtonRight, ButtonLeft}}

	add := func(h Hotkey) {
		s := h.String()
		if prev, ok := seen[s]; ok {
			t.Fatalf("%q produced by both %+v and %+v", s, prev, h)
		}
		seen[s] = h
	}

	for _, side := range []Side{SideQuestion, SideAnswer} {
		for _, chord := range chords {
			for _, b := range Buttons() {
				h, err := NewClick(side, chord, b)
				require.NoError(t, err)
				add(h)
			}
			for _, d := range []WheelDirection{WheelUp, WheelDown} {
				h, err := NewWheel(side, chord, d)
				require.NoError(t, err)
				add(h)
			}
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{
		"q_click_right",
		"a_wheel_down",
		"q_press_left_press_right_click_middle",
		"a_press_xbutton1_wheel_up",
	} {
		h, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, h.String())
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"q",
		"q_click",
		"x_click_left",
		"q_click_xbutton3",
		"q_wheel_left",
		"q_press_left",
		"q_press_left_press_right",
		"q_click_left_click_right",
		"q_wheel_down_click_left",
		"a_strange_looking_hotkey",
		"q_tap_left",
	} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestNormalize(t *testing.T) {
	h, err := Parse("q_press_right_press_left_press_right_click_middle")
	require.NoError(t, err)
	assert.Equal(t, "q_press_left_press_right_click_middle", h.Normalize().String())

	assert.Equal(t, "q_press_right_press_left_press_right_click_middle", h.String(), "Normalize must not modify the receiver")
}

func TestSortString(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"q_click_right", "q_click_right"},
		{"q_press_right_press_left_click_middle", "q_press_left_press_right_click_middle"},
		{"a_press_xbutton1_press_right_press_left_wheel_up", "a_press_left_press_right_press_xbutton1_wheel_up"},
		{"q_press_right_click_left", "q_press_right_click_left"},
		{"not_a_hotkey", "not_a_hotkey"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SortString(tt.in))
	}
}

func TestHotkeyUses(t *testing.T) {
	h, err := Parse("a_press_xbutton1_click_right")
	require.NoError(t, err)

	assert.True(t, h.Uses(ButtonX1))
	assert.True(t, h.Uses(ButtonRight))
	assert.False(t, h.Uses(ButtonLeft))
	assert.False(t, h.IsWheel())

	w, err := Parse("q_wheel_up")
	require.NoError(t, err)
	assert.True(t, w.IsWheel())
	assert.False(t, w.Uses(ButtonNone))
}

// Package hotkey builds and parses the canonical hotkey strings that key the
// shortcut table, such as "q_press_left_click_right" or "a_wheel_up".
//
// A hotkey is a side prefix, zero or more press segments for the buttons held
// as modifiers, and exactly one terminal segment naming the click or the
// scroll direction that triggered the event.
package hotkey

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrMissingTerminal   = errors.New("hotkey needs a click button or a wheel direction")
	ErrAmbiguousTerminal = errors.New("hotkey cannot have both a click button and a wheel direction")
	ErrUnknownButton     = errors.New("unknown mouse button")
	ErrInvalidHotkey     = errors.New("invalid hotkey")
)

const separator = "_"

// Terminal is the segment that triggered a hotkey: a click or a scroll.
type Terminal struct {
	Click Button
	Wheel WheelDirection
}

// Mode returns ModeWheel for scroll terminals and ModeClick otherwise.
func (t Terminal) Mode() Mode {
	if t.Wheel != WheelNone {
		return ModeWheel
	}
	return ModeClick
}

func (t Terminal) String() string {
	if t.Wheel != WheelNone {
		return ModeWheel.String() + separator + t.Wheel.String()
	}
	return ModeClick.String() + separator + t.Click.String()
}

// Hotkey is the structured form of a hotkey string.
type Hotkey struct {
	Side     Side
	Chord    []Button
	Terminal Terminal
}

// Build canonicalizes an input event. held lists the buttons held as
// modifiers and is kept in the given order. Exactly one of click and wheel
// must be set.
func Build(side Side, held []Button, click Button, wheel WheelDirection) (Hotkey, error) {
	if click != ButtonNone && wheel != WheelNone {
		return Hotkey{}, ErrAmbiguousTerminal
	}
	if click == ButtonNone && wheel == WheelNone {
		return Hotkey{}, ErrMissingTerminal
	}
	if click != ButtonNone && !click.Valid() {
		return Hotkey{}, fmt.Errorf("%w: %d", ErrUnknownButton, click)
	}
	for _, b := range held {
		if !b.Valid() {
			return Hotkey{}, fmt.Errorf("%w: %d", ErrUnknownButton, b)
		}
	}

	return Hotkey{
		Side:     side,
		Chord:    slices.Clone(held),
		Terminal: Terminal{Click: click, Wheel: wheel},
	}, nil
}

// NewClick returns the hotkey for a click of trigger while held are pressed.
func NewClick(side Side, held []Button, trigger Button) (Hotkey, error) {
	return Build(side, held, trigger, WheelNone)
}

// NewWheel returns the hotkey for a scroll while held are pressed.
func NewWheel(side Side, held []Button, dir WheelDirection) (Hotkey, error) {
	return Build(side, held, ButtonNone, dir)
}

// String encodes the hotkey for the config file.
func (h Hotkey) String() string {
	var sb strings.Builder
	sb.WriteString(h.Side.Prefix())
	for _, b := range h.Chord {
		sb.WriteString(separator)
		sb.WriteString(ModePress.String())
		sb.WriteString(separator)
		sb.WriteString(b.String())
	}
	sb.WriteString(separator)
	sb.WriteString(h.Terminal.String())
	return sb.String()
}

// Uses reports whether b appears anywhere in the hotkey.
func (h Hotkey) Uses(b Button) bool {
	if !b.Valid() {
		return false
	}
	return h.Terminal.Click == b || slices.Contains(h.Chord, b)
}

// IsWheel reports whether the hotkey is triggered by scrolling.
func (h Hotkey) IsWheel() bool {
	return h.Terminal.Wheel != WheelNone
}

// Normalize returns a copy with the chord sorted in canonical button order
// and duplicate buttons removed.
func (h Hotkey) Normalize() Hotkey {
	chord := slices.Clone(h.Chord)
	slices.Sort(chord)
	h.Chord = slices.Compact(chord)
	return h
}

// Parse decodes a hotkey string. Every segment pair except the last must be
// a press; the last must be a click or a wheel direction.
func Parse(s string) (Hotkey, error) {
	parts := strings.Split(s, separator)
	if len(parts) < 3 || len(parts)%2 != 1 {
		return Hotkey{}, fmt.Errorf("%w: %q", ErrInvalidHotkey, s)
	}

	var h Hotkey
	switch parts[0] {
	case "q":
		h.Side = SideQuestion
	case "a":
		h.Side = SideAnswer
	default:
		return Hotkey{}, fmt.Errorf("%w: %q has no side prefix", ErrInvalidHotkey, s)
	}

	segments := parts[1:]
	last := len(segments) - 2
	for i := 0; i < len(segments); i += 2 {
		mode, ok := ParseMode(segments[i])
		if !ok {
			return Hotkey{}, fmt.Errorf("%w: %q has unknown mode %q", ErrInvalidHotkey, s, segments[i])
		}
		value := segments[i+1]

		if i < last {
			if mode != ModePress {
				return Hotkey{}, fmt.Errorf("%w: %q has %s before its last segment", ErrInvalidHotkey, s, mode)
			}
			b, ok := ParseButton(value)
			if !ok {
				return Hotkey{}, fmt.Errorf("%w: %q", ErrUnknownButton, value)
			}
			h.Chord = append(h.Chord, b)
			continue
		}

		switch mode {
		case ModeClick:
			b, ok := ParseButton(value)
			if !ok {
				return Hotkey{}, fmt.Errorf("%w: %q", ErrUnknownButton, value)
			}
			h.Terminal.Click = b
		case ModeWheel:
			d, ok := ParseWheel(value)
			if !ok {
				return Hotkey{}, fmt.Errorf("%w: %q has wheel direction %q", ErrInvalidHotkey, s, value)
			}
			h.Terminal.Wheel = d
		default:
			return Hotkey{}, fmt.Errorf("%w: %q ends with press", ErrInvalidHotkey, s)
		}
	}

	return h, nil
}

// SortString normalizes the chord order of a hotkey string. Strings that do
// not parse are returned unchanged.
func SortString(s string) string {
	h, err := Parse(s)
	if err != nil {
		return s
	}
	return h.Normalize().String()
}

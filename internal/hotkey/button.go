package hotkey

// Button identifies a physical mouse button.
// The declaration order is the canonical chord order.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
	// ButtonX1 is the first extra button, usually "back".
	ButtonX1
	// ButtonX2 is the second extra button, usually "forward".
	ButtonX2
)

var buttonNames = map[Button]string{
	ButtonLeft:   "left",
	ButtonRight:  "right",
	ButtonMiddle: "middle",
	ButtonX1:     "xbutton1",
	ButtonX2:     "xbutton2",
}

// Buttons returns every valid button in canonical order.
func Buttons() []Button {
	return []Button{ButtonLeft, ButtonRight, ButtonMiddle, ButtonX1, ButtonX2}
}

// String returns the config name of the button.
func (b Button) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return "none"
}

// Valid reports whether b is a member of the known button set.
func (b Button) Valid() bool {
	_, ok := buttonNames[b]
	return ok
}

// ParseButton returns the button with the given config name.
func ParseButton(name string) (Button, bool) {
	for b, n := range buttonNames {
		if n == name {
			return b, true
		}
	}
	return ButtonNone, false
}

// WheelDirection is the direction of a scroll event.
type WheelDirection uint8

const (
	WheelNone WheelDirection = iota
	WheelUp
	WheelDown
)

func (d WheelDirection) String() string {
	switch d {
	case WheelUp:
		return "up"
	case WheelDown:
		return "down"
	default:
		return "none"
	}
}

// ParseWheel returns the direction with the given config name.
func ParseWheel(name string) (WheelDirection, bool) {
	switch name {
	case "up":
		return WheelUp, true
	case "down":
		return WheelDown, true
	}
	return WheelNone, false
}

// WheelFromDelta converts a native scroll delta, where positive means up.
func WheelFromDelta(delta int) WheelDirection {
	switch {
	case delta > 0:
		return WheelUp
	case delta < 0:
		return WheelDown
	default:
		return WheelNone
	}
}

// WheelFromWebDelta converts a browser deltaY, which has the opposite sign
// of the native delta.
func WheelFromWebDelta(delta int) WheelDirection {
	return WheelFromDelta(-delta)
}

// Side is the side of the card currently shown by the reviewer.
type Side uint8

const (
	SideQuestion Side = iota
	SideAnswer
)

// Prefix returns the hotkey prefix for the side.
func (s Side) Prefix() string {
	if s == SideAnswer {
		return "a"
	}
	return "q"
}

func (s Side) String() string {
	if s == SideAnswer {
		return "answer"
	}
	return "question"
}

// Mode is the kind of a hotkey segment.
type Mode uint8

const (
	ModePress Mode = iota
	ModeClick
	ModeWheel
)

func (m Mode) String() string {
	switch m {
	case ModeClick:
		return "click"
	case ModeWheel:
		return "wheel"
	default:
		return "press"
	}
}

// ParseMode returns the segment mode with the given name.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "press":
		return ModePress, true
	case "click":
		return ModeClick, true
	case "wheel":
		return ModeWheel, true
	}
	return ModePress, false
}

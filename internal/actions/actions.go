// Package actions defines the fixed set of review actions a hotkey can be
// bound to, and the registry that runs them against the host reviewer.
package actions

import (
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown action")

// ErrNoAnswerButton is returned when a grade has no button on the current
// card. Nothing was sent to the reviewer.
var ErrNoAnswerButton = errors.New("no answer button for grade")

// Action is one of the built-in review actions.
type Action uint8

const (
	ActionNone Action = iota
	ActionOn
	ActionOff
	ActionOnOff
	ActionUndo
	ActionShowAnswer
	ActionAgain
	ActionHard
	ActionGood
	ActionEasy
	ActionDelete
	ActionSuspendCard
	ActionSuspendNote
	ActionBuryCard
	ActionBuryNote
	ActionMark
	ActionRed
	ActionOrange
	ActionGreen
	ActionBlue
	ActionAudio
	ActionRecordVoice
	ActionReplayVoice

	actionCount
)

// NoneName is the config name that binds a hotkey to nothing.
const NoneName = "<none>"

var actionNames = [actionCount]string{
	ActionNone:        NoneName,
	ActionOn:          "on",
	ActionOff:         "off",
	ActionOnOff:       "on_off",
	ActionUndo:        "undo",
	ActionShowAnswer:  "show_ans",
	ActionAgain:       "again",
	ActionHard:        "hard",
	ActionGood:        "good",
	ActionEasy:        "easy",
	ActionDelete:      "delete",
	ActionSuspendCard: "suspend_card",
	ActionSuspendNote: "suspend_note",
	ActionBuryCard:    "bury_card",
	ActionBuryNote:    "bury_note",
	ActionMark:        "mark",
	ActionRed:         "red",
	ActionOrange:      "orange",
	ActionGreen:       "green",
	ActionBlue:        "blue",
	ActionAudio:       "audio",
	ActionRecordVoice: "record_voice",
	ActionReplayVoice: "replay_voice",
}

// String returns the config name of the action.
func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Names returns every registered action name in registry order.
func Names() []string {
	names := make([]string, 0, actionCount)
	for _, n := range actionNames {
		names = append(names, n)
	}
	return names
}

// Parse returns the action with the given config name. The empty string is
// accepted as a legacy spelling of "<none>".
func Parse(name string) (Action, error) {
	if name == "" {
		return ActionNone, nil
	}
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// IsRegistered reports whether name is a registered action name.
func IsRegistered(name string) bool {
	if name == "" {
		return false
	}
	_, err := Parse(name)
	return err == nil
}

// AlwaysAllowed reports whether the action runs while hotmouse is disabled.
func (a Action) AlwaysAllowed() bool {
	return a == ActionOn || a == ActionOnOff
}

// IsGrade reports whether the action answers the current card.
func (a Action) IsGrade() bool {
	return a >= ActionAgain && a <= ActionEasy
}

// AnswerButton maps a grading action onto the answer button the card
// exposes, given how many answer buttons it has. ok is false when the card
// has no button for that grade.
func AnswerButton(a Action, count int) (ease int, ok bool) {
	if a == ActionAgain {
		return 1, true
	}

	switch count {
	case 2:
		if a == ActionGood {
			return 2, true
		}
	case 3:
		switch a {
		case ActionHard, ActionGood:
			return 2, true
		}
	case 4:
		switch a {
		case ActionHard:
			return 2, true
		case ActionGood:
			return 3, true
		case ActionEasy:
			return 4, true
		}
	}
	return 0, false
}

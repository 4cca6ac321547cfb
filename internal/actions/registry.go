package actions

import "fmt"

// Flag is one of the reviewer's card flag colors.
type Flag int

const (
	FlagRed Flag = iota + 1
	FlagOrange
	FlagGreen
	FlagBlue
)

// Reviewer is the set of host review capabilities actions are run against.
type Reviewer interface {
	Undo() error
	ShowAnswer() error
	// AnswerCard answers the current card with the 1-based answer button.
	AnswerCard(ease int) error
	// AnswerButtons reports how many answer buttons the current card has.
	AnswerButtons() int
	DeleteNote() error
	SuspendCard() error
	SuspendNote() error
	BuryCard() error
	BuryNote() error
	ToggleMark() error
	SetFlag(f Flag) error
	ReplayAudio() error
	RecordVoice() error
	ReplayVoice() error
}

// Toggler switches hotmouse itself on and off.
type Toggler interface {
	TurnOn()
	TurnOff()
	ToggleOnOff()
}

// Registry maps every action to its zero-argument callback.
type Registry struct {
	reviewer Reviewer
	funcs    map[Action]func() error
}

// NewRegistry creates a registry running actions against r and t.
func NewRegistry(r Reviewer, t Toggler) *Registry {
	reg := &Registry{reviewer: r}

	toggle := func(fn func()) func() error {
		return func() error {
			fn()
			return nil
		}
	}
	flag := func(f Flag) func() error {
		return func() error { return r.SetFlag(f) }
	}

	reg.funcs = map[Action]func() error{
		ActionNone:        func() error { return nil },
		ActionOn:          toggle(t.TurnOn),
		ActionOff:         toggle(t.TurnOff),
		ActionOnOff:       toggle(t.ToggleOnOff),
		ActionUndo:        r.Undo,
		ActionShowAnswer:  r.ShowAnswer,
		ActionAgain:       reg.grade(ActionAgain),
		ActionHard:        reg.grade(ActionHard),
		ActionGood:        reg.grade(ActionGood),
		ActionEasy:        reg.grade(ActionEasy),
		ActionDelete:      r.DeleteNote,
		ActionSuspendCard: r.SuspendCard,
		ActionSuspendNote: r.SuspendNote,
		ActionBuryCard:    r.BuryCard,
		ActionBuryNote:    r.BuryNote,
		ActionMark:        r.ToggleMark,
		ActionRed:         flag(FlagRed),
		ActionOrange:      flag(FlagOrange),
		ActionGreen:       flag(FlagGreen),
		ActionBlue:        flag(FlagBlue),
		ActionAudio:       r.ReplayAudio,
		ActionRecordVoice: r.RecordVoice,
		ActionReplayVoice: r.ReplayVoice,
	}
	return reg
}

// Run invokes the callback of a.
func (reg *Registry) Run(a Action) error {
	fn, ok := reg.funcs[a]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, a)
	}
	return fn()
}

// grade answers the card if it has a button for the grade. Otherwise the
// card is left alone and ErrNoAnswerButton is returned.
func (reg *Registry) grade(a Action) func() error {
	return func() error {
		count := reg.reviewer.AnswerButtons()
		ease, ok := AnswerButton(a, count)
		if !ok {
			return fmt.Errorf("%w: %s with %d buttons", ErrNoAnswerButton, a, count)
		}
		return reg.reviewer.AnswerCard(ease)
	}
}

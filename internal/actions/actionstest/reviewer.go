// Package actionstest provides a recording Reviewer for tests.
package actionstest

import (
	"fmt"

	"github.com/bezmoradi/hotmouse/internal/actions"
)

// Reviewer records every call made against it.
type Reviewer struct {
	Buttons int
	Calls   []string
	Err     error
}

// NewReviewer returns a reviewer whose cards have four answer buttons.
func NewReviewer() *Reviewer {
	return &Reviewer{Buttons: 4}
}

func (r *Reviewer) record(call string) error {
	r.Calls = append(r.Calls, call)
	return r.Err
}

// Last returns the most recent call, or "" if there was none.
func (r *Reviewer) Last() string {
	if len(r.Calls) == 0 {
		return ""
	}
	return r.Calls[len(r.Calls)-1]
}

func (r *Reviewer) Undo() error       { return r.record("undo") }
func (r *Reviewer) ShowAnswer() error { return r.record("show_answer") }
func (r *Reviewer) AnswerCard(ease int) error {
	return r.record(fmt.Sprintf("answer:%d", ease))
}
func (r *Reviewer) AnswerButtons() int { return r.Buttons }
func (r *Reviewer) DeleteNote() error  { return r.record("delete_note") }
func (r *Reviewer) SuspendCard() error { return r.record("suspend_card") }
func (r *Reviewer) SuspendNote() error { return r.record("suspend_note") }
func (r *Reviewer) BuryCard() error    { return r.record("bury_card") }
func (r *Reviewer) BuryNote() error    { return r.record("bury_note") }
func (r *Reviewer) ToggleMark() error  { return r.record("mark") }
func (r *Reviewer) SetFlag(f actions.Flag) error {
	return r.record(fmt.Sprintf("flag:%d", f))
}
func (r *Reviewer) ReplayAudio() error { return r.record("replay_audio") }
func (r *Reviewer) RecordVoice() error { return r.record("record_voice") }
func (r *Reviewer) ReplayVoice() error { return r.record("replay_voice") }

var _ actions.Reviewer = (*Reviewer)(nil)

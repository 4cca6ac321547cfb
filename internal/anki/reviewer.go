// Package anki drives the Anki reviewer with its default keyboard shortcuts.
package anki

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-vgo/robotgo"
	log "github.com/sirupsen/logrus"

	"github.com/bezmoradi/hotmouse/internal/actions"
	"github.com/bezmoradi/hotmouse/internal/config"
	"github.com/bezmoradi/hotmouse/internal/hotkey"
)

// Keyboard sends key presses to the focused window.
type Keyboard interface {
	Tap(key string, modifiers ...string) error
}

// Voice records and replays the user's voice without going through Anki.
type Voice interface {
	ToggleRecording() error
	Replay() error
}

type robotKeyboard struct{}

func (robotKeyboard) Tap(key string, modifiers ...string) error {
	if len(modifiers) == 0 {
		return robotgo.KeyTap(key)
	}
	return robotgo.KeyTap(key, modifiers)
}

// RobotKeyboard returns a Keyboard that synthesizes key presses.
func RobotKeyboard() Keyboard {
	return robotKeyboard{}
}

func activeWindowTitle() string {
	return robotgo.GetTitle()
}

// Reviewer carries out review actions in Anki and keeps track of which side
// of the card is showing.
type Reviewer struct {
	keys   Keyboard
	title  func() string
	bridge config.Bridge
	voice  Voice
	mod    string
	side   hotkey.Side
}

// NewReviewer returns a reviewer that types into the Anki window. voice may
// be nil, in which case voice actions go to Anki.
func NewReviewer(keys Keyboard, bridge config.Bridge, voice Voice) *Reviewer {
	mod := "ctrl"
	if runtime.GOOS == "darwin" {
		mod = "cmd"
	}
	return &Reviewer{
		keys:   keys,
		title:  activeWindowTitle,
		bridge: bridge,
		voice:  voice,
		mod:    mod,
		side:   hotkey.SideQuestion,
	}
}

// SetBridge applies changed bridge settings.
func (r *Reviewer) SetBridge(bridge config.Bridge) {
	r.bridge = bridge
}

// Side reports the side of the card on screen. ok is false unless Anki is
// the active window.
func (r *Reviewer) Side() (hotkey.Side, bool) {
	title := r.title()
	if r.bridge.WindowTitle != "" && !strings.Contains(title, r.bridge.WindowTitle) {
		return r.side, false
	}
	return r.side, true
}

func (r *Reviewer) tap(key string, modifiers ...string) error {
	combo := strings.Join(append(modifiers[:len(modifiers):len(modifiers)], key), "+")
	if err := r.keys.Tap(key, modifiers...); err != nil {
		return fmt.Errorf("failed to send %s: %w", combo, err)
	}
	log.Debugf("[ANKI] Sent %s", combo)
	return nil
}

// nextCard sends a key that moves the reviewer on to a new question.
func (r *Reviewer) nextCard(key string, modifiers ...string) error {
	if err := r.tap(key, modifiers...); err != nil {
		return err
	}
	r.side = hotkey.SideQuestion
	return nil
}

func (r *Reviewer) Undo() error {
	return r.nextCard("z", r.mod)
}

func (r *Reviewer) ShowAnswer() error {
	if r.side == hotkey.SideAnswer {
		return nil
	}
	if err := r.tap("space"); err != nil {
		return err
	}
	r.side = hotkey.SideAnswer
	return nil
}

// AnswerCard grades the card, revealing the answer first if needed.
func (r *Reviewer) AnswerCard(ease int) error {
	if ease < 1 || ease > 4 {
		return fmt.Errorf("invalid ease %d", ease)
	}
	if err := r.ShowAnswer(); err != nil {
		return err
	}
	return r.nextCard(strconv.Itoa(ease))
}

func (r *Reviewer) AnswerButtons() int {
	return r.bridge.AnswerButtons
}

func (r *Reviewer) DeleteNote() error {
	return r.nextCard("delete", r.mod)
}

func (r *Reviewer) SuspendCard() error {
	return r.nextCard("2", "shift")
}

func (r *Reviewer) SuspendNote() error {
	return r.nextCard("1", "shift")
}

func (r *Reviewer) BuryCard() error {
	return r.nextCard("-")
}

func (r *Reviewer) BuryNote() error {
	return r.nextCard("=")
}

func (r *Reviewer) ToggleMark() error {
	return r.tap("8", "shift")
}

func (r *Reviewer) SetFlag(f actions.Flag) error {
	if f < actions.FlagRed || f > actions.FlagBlue {
		return fmt.Errorf("invalid flag %d", f)
	}
	return r.tap(strconv.Itoa(int(f)), r.mod)
}

func (r *Reviewer) ReplayAudio() error {
	return r.tap("r")
}

func (r *Reviewer) RecordVoice() error {
	if r.localVoice() {
		return r.voice.ToggleRecording()
	}
	return r.tap("v", "shift")
}

func (r *Reviewer) ReplayVoice() error {
	if r.localVoice() {
		return r.voice.Replay()
	}
	return r.tap("v")
}

func (r *Reviewer) localVoice() bool {
	return r.voice != nil && r.bridge.Voice == config.VoiceLocal
}

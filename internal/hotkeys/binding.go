package hotkeys

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/bezmoradi/hotmouse/internal/hotkey"
)

// WebMessagePrefix marks messages sent by the reviewer's web layer.
const WebMessagePrefix = "ReviewHotmouse#"

// EventHandler is what a host registers to receive pointer events. Every
// method reports whether the event was consumed and should not propagate.
type EventHandler interface {
	OnMousePress(held []hotkey.Button, trigger hotkey.Button) bool
	OnMouseRelease(b hotkey.Button) bool
	OnWheel(delta int, held []hotkey.Button) bool
	OnWebMessage(msg string, held []hotkey.Button) bool
	OnContextMenu() bool
}

// Host is a source of pointer events that handlers can be registered with.
type Host interface {
	Register(h EventHandler)
}

// SideFunc reports the side of the card on screen. ok is false when the
// reviewer is not showing a card.
type SideFunc func() (side hotkey.Side, ok bool)

// Binding adapts a Manager to the EventHandler callbacks, ignoring events
// that arrive outside a review.
type Binding struct {
	manager *Manager
	side    SideFunc
}

// Bind returns an EventHandler that dispatches to m while side reports an
// active review.
func (m *Manager) Bind(side SideFunc) *Binding {
	return &Binding{manager: m, side: side}
}

func (b *Binding) OnMousePress(held []hotkey.Button, trigger hotkey.Button) bool {
	side, ok := b.side()
	if !ok {
		return false
	}
	return b.manager.HandlePress(side, held, trigger)
}

func (b *Binding) OnMouseRelease(btn hotkey.Button) bool {
	if _, ok := b.side(); !ok {
		return false
	}
	return b.manager.HandleRelease(btn)
}

func (b *Binding) OnWheel(delta int, held []hotkey.Button) bool {
	side, ok := b.side()
	if !ok {
		return false
	}
	return b.manager.HandleWheel(side, delta, held)
}

func (b *Binding) OnWebMessage(msg string, held []hotkey.Button) bool {
	side, ok := b.side()
	if !ok {
		return false
	}
	return b.manager.HandleWebMessage(side, msg, held)
}

func (b *Binding) OnContextMenu() bool {
	if _, ok := b.side(); !ok {
		return false
	}
	return b.manager.HandleContextMenu()
}

// HandleWebMessage handles a message from the web layer of the form
// ReviewHotmouse#{"key":"wheel","value":<deltaY>}. Messages without the
// prefix are not ours and are left alone.
func (m *Manager) HandleWebMessage(side hotkey.Side, msg string, held []hotkey.Button) bool {
	body, ok := strings.CutPrefix(msg, WebMessagePrefix)
	if !ok {
		return false
	}
	if !gjson.Valid(body) {
		log.Warnf("[HOTMOUSE] Malformed web message: %q", body)
		return false
	}

	req := gjson.Parse(body)
	switch key := req.Get("key").String(); key {
	case "wheel":
		delta := req.Get("value").Float()
		switch {
		case delta > 0:
			return m.HandleWebWheel(side, 1, held)
		case delta < 0:
			return m.HandleWebWheel(side, -1, held)
		}
		return false
	default:
		log.Debugf("[HOTMOUSE] Ignoring web message with key %q", key)
		return false
	}
}

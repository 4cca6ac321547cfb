// Package notify shows hotmouse messages to the user.
package notify

import (
	"github.com/gen2brain/beeep"
	log "github.com/sirupsen/logrus"

	"github.com/bezmoradi/hotmouse/internal/terminal"
)

const appTitle = "Hotmouse"

// Notifier shows transient tooltips and one-off summaries.
type Notifier interface {
	Tooltip(msg string)
	Summary(title, body string)
}

// Desktop shows messages as desktop notifications.
type Desktop struct {
	notify func(title, message string, icon any) error
	alert  func(title, message string, icon any) error
}

func NewDesktop() *Desktop {
	return &Desktop{notify: beeep.Notify, alert: beeep.Alert}
}

func (d *Desktop) Tooltip(msg string) {
	if err := d.notify(appTitle, msg, ""); err != nil {
		log.Debugf("[NOTIFY] Desktop notification failed: %v", err)
	}
}

// Summary uses an alert so the message stays until dismissed where the
// desktop supports it.
func (d *Desktop) Summary(title, body string) {
	if err := d.alert(title, body, ""); err != nil {
		log.Warnf("[NOTIFY] Desktop alert failed: %v", err)
	}
}

// Console prints messages to the terminal, keeping tooltips on a single
// status line.
type Console struct {
	control *terminal.Control
}

func NewConsole(control *terminal.Control) *Console {
	return &Console{control: control}
}

func (c *Console) Tooltip(msg string) {
	c.control.UpdateInPlace([]string{msg})
}

func (c *Console) Summary(title, body string) {
	c.control.Reset()
	c.control.UpdateInPlace([]string{title, body})
	c.control.Reset()
}

// Multi sends every message to each notifier in order.
type Multi []Notifier

func (m Multi) Tooltip(msg string) {
	for _, n := range m {
		n.Tooltip(msg)
	}
}

func (m Multi) Summary(title, body string) {
	for _, n := range m {
		n.Summary(title, body)
	}
}

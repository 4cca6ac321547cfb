package hotkeys

import (
	"slices"
	"sync"
	"sync/atomic"

	hook "github.com/robotn/gohook"
	log "github.com/sirupsen/logrus"

	"github.com/bezmoradi/hotmouse/internal/hotkey"
)

// gohook keeps libuiohook's event numbering: MouseHold is the button press
// and MouseDown is the release.
const (
	hookPress   = hook.MouseHold
	hookRelease = hook.MouseDown

	// libuiohook reports horizontal wheel motion with direction 4.
	wheelHorizontal = 4
)

// HookSource is a Host fed by the global input hook. All handler calls and
// posted tasks run on the goroutine that calls Listen.
type HookSource struct {
	handler EventHandler
	held    []hotkey.Button
	events  <-chan hook.Event
	tasks   chan func()
	done    chan struct{}

	started  atomic.Bool
	stopOnce sync.Once
}

// NewHookSource creates a hook source with no handler registered.
func NewHookSource() *HookSource {
	return &HookSource{
		tasks: make(chan func(), 16),
		done:  make(chan struct{}),
	}
}

// Register implements Host.
func (s *HookSource) Register(h EventHandler) {
	s.handler = h
}

// Start installs the global hook.
func (s *HookSource) Start() error {
	s.events = hook.Start()
	s.started.Store(true)
	log.Infof("[HOOK] Global mouse hook installed")
	return nil
}

// Stop removes the hook and ends Listen. It may be called from any
// goroutine, more than once.
func (s *HookSource) Stop() {
	s.stopOnce.Do(func() {
		if s.started.Load() {
			hook.End()
		}
		close(s.done)
	})
}

// Post schedules fn on the event loop. It is dropped once the source stops.
func (s *HookSource) Post(fn func()) {
	select {
	case s.tasks <- fn:
	case <-s.done:
	}
}

// HandleMessage forwards a web-layer message to the handler on the event
// loop, with the buttons currently held.
func (s *HookSource) HandleMessage(msg string) {
	s.Post(func() {
		if s.handler == nil {
			return
		}
		consumed := s.handler.OnWebMessage(msg, slices.Clone(s.held))
		log.Debugf("[HOOK] Web message consumed: %v", consumed)
	})
}

// Listen runs the event loop until Stop is called.
func (s *HookSource) Listen() {
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			s.dispatch(ev)
		case fn := <-s.tasks:
			fn()
		case <-s.done:
			return
		}
	}
}

// Held returns the buttons currently held, in press order.
func (s *HookSource) Held() []hotkey.Button {
	return slices.Clone(s.held)
}

func (s *HookSource) dispatch(ev hook.Event) {
	switch ev.Kind {
	case hookPress:
		b := buttonFromHook(ev.Button)
		if !b.Valid() {
			log.Debugf("[HOOK] Unmapped button code %d", ev.Button)
		}
		if s.handler != nil {
			consumed := s.handler.OnMousePress(slices.Clone(s.held), b)
			log.Debugf("[HOOK] Press %s consumed: %v", b, consumed)
		}
		if b.Valid() && !slices.Contains(s.held, b) {
			s.held = append(s.held, b)
		}

	case hookRelease:
		b := buttonFromHook(ev.Button)
		s.held = slices.DeleteFunc(s.held, func(h hotkey.Button) bool { return h == b })
		if s.handler != nil {
			s.handler.OnMouseRelease(b)
		}

	case hook.MouseWheel:
		if ev.Direction == wheelHorizontal || ev.Rotation == 0 {
			return
		}
		if s.handler != nil {
			// libuiohook rotation is positive when scrolling down.
			consumed := s.handler.OnWheel(-int(ev.Rotation), slices.Clone(s.held))
			log.Debugf("[HOOK] Wheel %d consumed: %v", ev.Rotation, consumed)
		}
	}
}

// buttonFromHook maps libuiohook button numbers onto hotkey buttons. Unknown
// numbers map to ButtonNone so the manager logs and drops them.
func buttonFromHook(code uint16) hotkey.Button {
	switch code {
	case 1:
		return hotkey.ButtonLeft
	case 2:
		return hotkey.ButtonRight
	case 3:
		return hotkey.ButtonMiddle
	case 4:
		return hotkey.ButtonX1
	case 5:
		return hotkey.ButtonX2
	default:
		return hotkey.ButtonNone
	}
}

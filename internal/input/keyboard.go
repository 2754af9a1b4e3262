package input

import (
	"fmt"
	"strings"
	"time"
)

// Key is a logical game key. Frontends map device keys onto these through
// Bindings.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyForward
	KeyBack
	KeyJump
	KeyPause
	KeyPlay
	KeyRestore
	KeyHealthUp
	KeyHealthDown
	KeyMute
	KeyVolumeUp
	KeyVolumeDown
	KeyCamera
	KeyQuit
)

var keyNames = map[Key]string{
	KeyLeft:       "left",
	KeyRight:      "right",
	KeyForward:    "forward",
	KeyBack:       "back",
	KeyJump:       "jump",
	KeyPause:      "pause",
	KeyPlay:       "play",
	KeyRestore:    "restore",
	KeyHealthUp:   "health_up",
	KeyHealthDown: "health_down",
	KeyMute:       "mute",
	KeyVolumeUp:   "volume_up",
	KeyVolumeDown: "volume_down",
	KeyCamera:     "camera",
	KeyQuit:       "quit",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ParseKey maps a binding name to a Key.
func ParseKey(s string) (Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range keyNames {
		if name == s {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("unknown key %q", s)
}

// Service is the read-only keyboard state polled by gameplay code.
type Service interface {
	IsKeyDown(k Key) bool
	// IsFirstKeyPress is true only on the frame the key went down.
	IsFirstKeyPress(k Key) bool
}

// Keyboard turns press notifications into per-frame key state. Terminals
// report presses and auto-repeat but no releases, so a key counts as held
// for Hold after its last press.
//
// Press may be called any time between frames; Update snapshots the state at
// frame start.
type Keyboard struct {
	Hold time.Duration

	lastPress map[Key]time.Time
	current   map[Key]bool
	previous  map[Key]bool
	pressed   map[Key]bool // presses since the last Update
}

func NewKeyboard(hold time.Duration) *Keyboard {
	return &Keyboard{
		Hold:      hold,
		lastPress: make(map[Key]time.Time),
		current:   make(map[Key]bool),
		previous:  make(map[Key]bool),
		pressed:   make(map[Key]bool),
	}
}

// Press records a key press (or auto-repeat) at now.
func (kb *Keyboard) Press(k Key, now time.Time) {
	if k == KeyNone {
		return
	}
	kb.lastPress[k] = now
	kb.pressed[k] = true
}

// Release forgets a key immediately, for frontends that report releases.
func (kb *Keyboard) Release(k Key) {
	delete(kb.lastPress, k)
}

// Update rolls the current state into the previous one and recomputes which
// keys are held at now.
func (kb *Keyboard) Update(now time.Time) {
	kb.previous, kb.current = kb.current, kb.previous
	clear(kb.current)
	for k, t := range kb.lastPress {
		if kb.pressed[k] || now.Sub(t) <= kb.Hold {
			kb.current[k] = true
			continue
		}
		delete(kb.lastPress, k)
	}
	clear(kb.pressed)
}

func (kb *Keyboard) IsKeyDown(k Key) bool { return kb.current[k] }

func (kb *Keyboard) IsFirstKeyPress(k Key) bool {
	return kb.current[k] && !kb.previous[k]
}

// Reset drops all key state.
func (kb *Keyboard) Reset() {
	clear(kb.lastPress)
	clear(kb.current)
	clear(kb.previous)
	clear(kb.pressed)
}

// Static is a Service with fixed state, useful for scripted input.
type Static struct {
	Down  map[Key]bool
	First map[Key]bool
}

func (s Static) IsKeyDown(k Key) bool       { return s.Down[k] }
func (s Static) IsFirstKeyPress(k Key) bool { return s.First[k] }

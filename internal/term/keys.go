package term

import (
	"strings"
	"time"

	"github.com/blockrun/game/internal/input"
	"github.com/gdamore/tcell/v2"
)

// KeyName spells a tcell key the way Bindings expect it: runes as
// themselves, space as "space", named keys lower-cased ("enter", "up").
func KeyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "space"
		}
		return string(ev.Rune())
	}
	return strings.ToLower(tcell.KeyNames[ev.Key()])
}

// Input feeds tcell key events into the game keyboard.
type Input struct {
	keys     *input.Keyboard
	bindings input.Bindings
	now      func() time.Time
}

func NewInput(keys *input.Keyboard, bindings input.Bindings, now func() time.Time) *Input {
	if bindings == nil {
		bindings = input.DefaultBindings()
	}
	if now == nil {
		now = time.Now
	}
	return &Input{keys: keys, bindings: bindings, now: now}
}

// HandleKey presses the bound game key, if any. Ctrl-C always maps to quit.
func (in *Input) HandleKey(ev *tcell.EventKey) input.Key {
	k := in.bindings.Lookup(KeyName(ev))
	if ev.Key() == tcell.KeyCtrlC {
		k = input.KeyQuit
	}
	in.keys.Press(k, in.now())
	return k
}

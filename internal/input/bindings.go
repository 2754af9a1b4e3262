package input

import (
	"fmt"
	"strings"
)

// Bindings maps device key names (as the frontend spells them, e.g. "a",
// "Left", "Space", "Enter") to game keys.
type Bindings map[string]Key

// DefaultBindings is the built-in layout.
func DefaultBindings() Bindings {
	return Bindings{
		"a":     KeyLeft,
		"left":  KeyLeft,
		"d":     KeyRight,
		"right": KeyRight,
		"w":     KeyForward,
		"up":    KeyForward,
		"s":     KeyBack,
		"down":  KeyBack,
		"space": KeyJump,
		"p":     KeyPause,
		"enter": KeyPlay,
		"r":     KeyRestore,
		"h":     KeyHealthUp,
		"j":     KeyHealthDown,
		"m":     KeyMute,
		"+":     KeyVolumeUp,
		"-":     KeyVolumeDown,
		"c":     KeyCamera,
		"q":     KeyQuit,
		"esc":   KeyQuit,
	}
}

// ParseBindings reads a "device key -> game key" table, e.g. from config.
// Entries override the defaults.
func ParseBindings(raw map[string]string) (Bindings, error) {
	b := DefaultBindings()
	for dev, name := range raw {
		k, err := ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", dev, err)
		}
		b[strings.ToLower(dev)] = k
	}
	return b, nil
}

// Lookup tries the name as given, then lower-cased.
func (b Bindings) Lookup(name string) Key {
	if k, ok := b[name]; ok {
		return k
	}
	return b[strings.ToLower(name)]
}

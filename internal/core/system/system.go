package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput      Phase = iota // 0: poll keyboard, global hotkeys
	PhasePreUpdate               // 1: game state timers
	PhaseUpdate                  // 2: actor simulation (opaque then transparent)
	PhasePostUpdate              // 3: UI and menu
	PhaseOutput                  // 4: render
	PhasePersist                 // 5: collect finished runs
	PhaseCleanup                 // 6: drop state that must not outlive the frame
)

var phaseNames = [...]string{"input", "pre_update", "update", "post_update", "output", "persist", "cleanup"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "phase(?)"
}

// System is one stage of the frame.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a function to System.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }

package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each frame. Systems in the same
// phase keep their registration order.
type Runner struct {
	systems []System
	sorted  bool
	frames  uint64
	elapsed time.Duration
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
	r.frames++
	r.elapsed += dt
}

// TickPhase runs only the systems of one phase. The frame counter does not
// advance.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Frames is the number of completed Tick calls.
func (r *Runner) Frames() uint64 { return r.frames }

// Elapsed is the sum of dt over completed Tick calls.
func (r *Runner) Elapsed() time.Duration { return r.elapsed }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}

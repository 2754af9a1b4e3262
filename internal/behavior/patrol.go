package behavior

import (
	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/core/event"
	"github.com/go-gl/mathgl/mgl32"
)

// Axes selects which axes a patrol bounces on.
type Axes uint8

const (
	AxisX Axes = 1 << iota
	AxisY

	AxesXY = AxisX | AxisY
)

// Patrol bounces an enemy between origin-range and origin+range on each
// enabled axis, Speed units per frame. A bound is detected at or past the
// limit; the frame that flips direction stages no movement on that axis, so
// the enemy overshoots by at most one step.
type Patrol struct {
	Speed float32
	axes  Axes
	min   mgl32.Vec3
	max   mgl32.Vec3
	dir   [2]float32
	bus   *event.Bus
}

// NewPatrol fixes the bounds from origin once; they do not follow later
// teleports.
func NewPatrol(bus *event.Bus, origin mgl32.Vec3, rng, speed float32, axes Axes) *Patrol {
	r := mgl32.Vec3{rng, rng, rng}
	return &Patrol{
		Speed: speed,
		axes:  axes,
		min:   origin.Sub(r),
		max:   origin.Add(r),
		dir:   [2]float32{1, 1},
		bus:   bus,
	}
}

// Bounds returns the patrol limits.
func (p *Patrol) Bounds() (min, max mgl32.Vec3) { return p.min, p.max }

// Direction returns +1 or -1 for axis 0 (X) or 1 (Y).
func (p *Patrol) Direction(axis int) float32 { return p.dir[axis] }

func (p *Patrol) HandleInput(a *actor.Actor, _ actor.Frame) {
	for axis, flag := range [2]Axes{AxisX, AxisY} {
		if p.axes&flag == 0 {
			continue
		}
		pos := a.Transform.Translation[axis]
		switch {
		case p.dir[axis] > 0 && pos >= p.max[axis]:
			p.dir[axis] = -1
		case p.dir[axis] < 0 && pos <= p.min[axis]:
			p.dir[axis] = 1
		default:
			a.Transform.TranslateIncrement[axis] += p.dir[axis] * p.Speed
		}
	}
}

func (p *Patrol) HandleCollision(a *actor.Actor, collidee *actor.Actor) *actor.Actor {
	return Respond(p.bus, a, collidee, passive{})
}

func (p *Patrol) Clone() actor.Behavior {
	cp := *p
	return &cp
}

package behavior

import (
	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/core/event"
	"github.com/go-gl/mathgl/mgl32"
)

// Mover slides an actor at a constant velocity (units per frame) and, for
// RotateSpeed != 0, turns it about Up. It reacts to collisions like an enemy:
// pickups and zones are passed through, everything solid blocks.
type Mover struct {
	Velocity    mgl32.Vec3
	RotateSpeed float32
	bus         *event.Bus
}

func NewMover(bus *event.Bus, velocity mgl32.Vec3, rotateSpeed float32) *Mover {
	return &Mover{Velocity: velocity, RotateSpeed: rotateSpeed, bus: bus}
}

func (m *Mover) HandleInput(a *actor.Actor, _ actor.Frame) {
	a.Transform.TranslateIncrement = a.Transform.TranslateIncrement.Add(m.Velocity)
	a.Transform.RotateIncrement += m.RotateSpeed
}

func (m *Mover) HandleCollision(a *actor.Actor, collidee *actor.Actor) *actor.Actor {
	return Respond(m.bus, a, collidee, passive{})
}

func (m *Mover) Clone() actor.Behavior {
	cp := *m
	return &cp
}

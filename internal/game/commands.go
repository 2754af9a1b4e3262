package game

import (
	"github.com/blockrun/game/internal/actor"
	"github.com/go-gl/mathgl/mgl32"
)

// restoreColor puts matching actors back to the colour they were built
// with. Actors with no recorded colour are left alone.
type restoreColor struct {
	selector actor.Selector
	original func(id string) (mgl32.Vec3, bool)
}

func (c restoreColor) Target() actor.Selector { return c.selector }

func (c restoreColor) Apply(a *actor.Actor) {
	if col, ok := c.original(a.ID); ok {
		a.Effect.Color = col
	}
}

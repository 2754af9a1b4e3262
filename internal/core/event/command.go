package event

import (
	"github.com/blockrun/game/internal/actor"
	"github.com/go-gl/mathgl/mgl32"
)

// Command is a typed mutation applied by a manager to the actors it owns
// that match Target.
type Command interface {
	Target() actor.Selector
	Apply(a *actor.Actor)
}

// SetStatus replaces the status flags of matching actors.
type SetStatus struct {
	Selector actor.Selector
	Status   actor.Status
}

func (c SetStatus) Target() actor.Selector { return c.Selector }
func (c SetStatus) Apply(a *actor.Actor)   { a.Status = c.Status }

// SetAlpha changes opacity. Collection membership is not affected; publish an
// Opacity event to move the actor.
type SetAlpha struct {
	Selector actor.Selector
	Alpha    float32
}

func (c SetAlpha) Target() actor.Selector { return c.Selector }
func (c SetAlpha) Apply(a *actor.Actor)   { a.Effect.Alpha = c.Alpha }

type SetColor struct {
	Selector actor.Selector
	Color    mgl32.Vec3
}

func (c SetColor) Target() actor.Selector { return c.Selector }
func (c SetColor) Apply(a *actor.Actor)   { a.Effect.Color = c.Color }

// SetLabel changes the text of UI actors.
type SetLabel struct {
	Selector actor.Selector
	Label    string
}

func (c SetLabel) Target() actor.Selector { return c.Selector }
func (c SetLabel) Apply(a *actor.Actor)   { a.Label = c.Label }

// Batch applies several commands to the same target in order.
type Batch struct {
	Selector actor.Selector
	Commands []Command
}

func (c Batch) Target() actor.Selector { return c.Selector }

func (c Batch) Apply(a *actor.Actor) {
	for _, cmd := range c.Commands {
		if cmd != nil {
			cmd.Apply(a)
		}
	}
}

package behavior

import (
	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/core/event"
	"github.com/go-gl/mathgl/mgl32"
)

// Sound cue names published on the Sound category.
const (
	CueJump   = "jump"
	CueWin    = "win"
	CueDie    = "Die"
	CueBump   = "bump"
	CuePickup = "pickup"
)

// DecoratorHitColor is the colour a decorator turns when bumped.
var DecoratorHitColor = mgl32.Vec3{0, 0, 1}

// Responder is the mover-specific half of a collision response.
type Responder interface {
	// EnterZone applies the zone's side effect. Zones never block.
	EnterZone(mover, zone *actor.Actor)
	// HitNPC handles touching an enemy and reports whether it blocks.
	HitNPC(mover, npc *actor.Actor) (blocked bool)
	// Collect credits a touched pickup and reports whether the mover scored it.
	// The pickup is removed either way.
	Collect(mover, pickup *actor.Actor) bool
}

// Respond dispatches a collidee to the right reaction and returns the
// collidee still blocking the mover, or nil.
func Respond(bus *event.Bus, mover, collidee *actor.Actor, r Responder) *actor.Actor {
	if collidee == nil {
		return nil
	}
	switch collidee.Kind {
	case actor.KindZone:
		r.EnterZone(mover, collidee)
		return nil
	case actor.KindCollidable:
		return respondCollidable(bus, mover, collidee, r)
	case actor.KindDrawn, actor.KindUI:
		// Not returned by collision queries.
		return nil
	}
	return collidee
}

func respondCollidable(bus *event.Bus, mover, collidee *actor.Actor, r Responder) *actor.Actor {
	switch collidee.Type {
	case actor.TypePickup:
		bus.Publish(event.New(event.CategoryObject, event.OnRemoveActor, collidee))
		if r.Collect(mover, collidee) {
			bus.Publish(event.New(event.CategoryPlayer, event.OnPickup, mover, collidee))
			bus.Publish(event.New(event.CategorySound, event.OnPlay2D, CuePickup))
		}
		return nil
	case actor.TypeDecorator:
		collidee.Effect.Color = DecoratorHitColor
		return nil
	case actor.TypeNPC:
		if r.HitNPC(mover, collidee) {
			return collidee
		}
		return nil
	case actor.TypeGround:
		bus.Publish(event.New(event.CategorySound, event.OnPlay2D, CueBump))
		return nil
	case actor.TypePlayer, actor.TypeHelper, actor.TypeSky, actor.TypeZone,
		actor.TypeCamera, actor.TypeUIText, actor.TypeUITexture:
		return collidee
	}
	return collidee
}

// passive is the Responder for movers with no gameplay reactions.
type passive struct{}

func (passive) EnterZone(_, _ *actor.Actor)     {}
func (passive) HitNPC(_, _ *actor.Actor) bool  { return true }
func (passive) Collect(_, _ *actor.Actor) bool { return false }

package actor

import (
	"time"

	"github.com/blockrun/game/internal/collision"
	"github.com/blockrun/game/internal/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Effect is the per-actor render state read by the renderer.
type Effect struct {
	Color   mgl32.Vec3
	Alpha   float32
	Texture string
}

// IsTransparent reports whether the actor belongs in the transparent list.
func (e Effect) IsTransparent() bool { return e.Alpha < 1 }

// Frame is the timing handed to every Update call.
type Frame struct {
	Elapsed time.Duration // since the previous frame
	Total   time.Duration // since the simulation started
}

// ElapsedMs is the frame step in milliseconds, the unit movement speeds use.
func (f Frame) ElapsedMs() float32 {
	return float32(f.Elapsed) / float32(time.Millisecond)
}

// Collections is the read side of the object manager used for collision
// queries. The actor does not own it.
type Collections interface {
	Opaque() []*Actor
	Transparent() []*Actor
}

// Actor is the single representation for every simulated entity. Kind picks
// the update algorithm, Type is the gameplay category, and Behavior supplies
// the per-type movement and collision response.
type Actor struct {
	ID     string
	Type   Type
	Kind   Kind
	Status Status

	Transform *transform.Transform3D
	Effect    Effect
	Mesh      string
	Label     string // UI text

	Primitive   collision.Primitive
	Behavior    Behavior
	Controllers []Controller

	Pickup *PickupParams
	Zone   *ZoneParams

	// Collidee is the actor found by this frame's collision query, after
	// the behavior's response has run.
	Collidee *Actor

	scene Collections
}

// NewDrawn creates a render-only actor.
func NewDrawn(id string, typ Type, status Status, t *transform.Transform3D, effect Effect, mesh string) *Actor {
	return &Actor{
		ID:        id,
		Type:      typ,
		Kind:      KindDrawn,
		Status:    status,
		Transform: t,
		Effect:    effect,
		Mesh:      mesh,
	}
}

// NewZone creates an invisible trigger volume.
func NewZone(id string, status Status, t *transform.Transform3D, prim collision.Primitive, zone *ZoneParams) *Actor {
	return &Actor{
		ID:        id,
		Type:      TypeZone,
		Kind:      KindZone,
		Status:    status &^ StatusDrawn,
		Transform: t,
		Effect:    Effect{Alpha: 1},
		Primitive: prim,
		Zone:      zone,
	}
}

// NewCollidable creates a drawn actor with a collision primitive. behavior
// may be nil for static geometry.
func NewCollidable(id string, typ Type, status Status, t *transform.Transform3D, effect Effect, mesh string,
	prim collision.Primitive, behavior Behavior) *Actor {
	return &Actor{
		ID:        id,
		Type:      typ,
		Kind:      KindCollidable,
		Status:    status,
		Transform: t,
		Effect:    effect,
		Mesh:      mesh,
		Primitive: prim,
		Behavior:  behavior,
	}
}

// NewUI creates a 2D overlay actor owned by the UI manager.
func NewUI(id string, typ Type, status Status, t *transform.Transform3D, effect Effect, label string) *Actor {
	return &Actor{
		ID:        id,
		Type:      typ,
		Kind:      KindUI,
		Status:    status,
		Transform: t,
		Effect:    effect,
		Label:     label,
	}
}

// Scene returns the collections used for collision queries.
func (a *Actor) Scene() Collections { return a.scene }

// AttachScene sets the collections used for collision queries.
func (a *Actor) AttachScene(c Collections) { a.scene = c }

// IsCollidable reports whether the actor takes part in collision queries.
func (a *Actor) IsCollidable() bool {
	return (a.Kind == KindCollidable || a.Kind == KindZone) && a.Primitive != nil
}

// Clone deep-copies the actor. The copy shares the scene reference but
// nothing else.
func (a *Actor) Clone() *Actor {
	c := *a
	c.Collidee = nil
	if a.Transform != nil {
		c.Transform = a.Transform.Clone()
	}
	if a.Primitive != nil {
		c.Primitive = a.Primitive.Clone()
	}
	if a.Behavior != nil {
		c.Behavior = a.Behavior.Clone()
	}
	if a.Controllers != nil {
		c.Controllers = make([]Controller, len(a.Controllers))
		for i, ctrl := range a.Controllers {
			c.Controllers[i] = ctrl.Clone()
		}
	}
	if a.Pickup != nil {
		p := a.Pickup.clone()
		c.Pickup = &p
	}
	if a.Zone != nil {
		z := *a.Zone
		c.Zone = &z
	}
	return &c
}

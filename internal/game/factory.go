package game

import (
	"fmt"

	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/behavior"
	"github.com/blockrun/game/internal/collision"
	"github.com/blockrun/game/internal/core/event"
	"github.com/blockrun/game/internal/data"
	"github.com/blockrun/game/internal/input"
	"github.com/blockrun/game/internal/transform"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	unitScale  = mgl32.Vec3{1, 1, 1}
	whiteColor = mgl32.Vec3{1, 1, 1}
	upAxis     = mgl32.Vec3{0, 1, 0}
)

// Factory turns level placements into actors by cloning archetypes.
type Factory struct {
	archetypes *data.ArchetypeTable
	bus        *event.Bus
	keys       input.Service
	scripts    behavior.ZoneScripter
	player     behavior.PlayerSettings

	// Colours as built, used to restore decorators.
	colors map[string]mgl32.Vec3
}

func NewFactory(archetypes *data.ArchetypeTable, bus *event.Bus, keys input.Service,
	scripts behavior.ZoneScripter, player behavior.PlayerSettings) *Factory {
	return &Factory{
		archetypes: archetypes,
		bus:        bus,
		keys:       keys,
		scripts:    scripts,
		player:     player,
		colors:     make(map[string]mgl32.Vec3),
	}
}

// OriginalColor returns the colour an actor was built with.
func (f *Factory) OriginalColor(id string) (mgl32.Vec3, bool) {
	c, ok := f.colors[id]
	return c, ok
}

// Build creates the actor for one placement.
func (f *Factory) Build(p data.Placement) (*actor.Actor, error) {
	arch, ok := f.archetypes.Get(p.Archetype)
	if !ok {
		return nil, fmt.Errorf("placement %s: unknown archetype %q", p.ID, p.Archetype)
	}

	pos := data.Vec3(p.Position, mgl32.Vec3{})
	scale := data.Vec3(p.Scale, data.Vec3(arch.Scale, unitScale))
	t := transform.New(pos, data.Vec3(p.Rotation, mgl32.Vec3{}), scale)
	effect := actor.Effect{
		Color:   data.Vec3(arch.Color, whiteColor),
		Alpha:   arch.Opacity(),
		Texture: arch.Texture,
	}
	f.colors[p.ID] = effect.Color

	var prim collision.Primitive
	switch arch.Primitive {
	case "box":
		prim = collision.NewBox(t)
	case "sphere":
		prim = collision.NewSphere(t, arch.Radius)
	}

	var a *actor.Actor
	switch arch.ActorKind() {
	case actor.KindDrawn:
		a = actor.NewDrawn(p.ID, arch.Type, arch.ActorStatus(), t, effect, arch.Mesh)
	case actor.KindZone:
		a = actor.NewZone(p.ID, arch.ActorStatus(), t, prim, zoneParams(arch.Zone))
	case actor.KindCollidable:
		a = actor.NewCollidable(p.ID, arch.Type, arch.ActorStatus(), t, effect, arch.Mesh, prim, f.behavior(arch, pos))
	case actor.KindUI:
		a = actor.NewUI(p.ID, arch.Type, arch.ActorStatus(), t, effect, arch.Label)
	default:
		return nil, fmt.Errorf("placement %s: unsupported kind %s", p.ID, arch.ActorKind())
	}

	if arch.Pickup != nil {
		a.Pickup = actor.NewPickupParams(arch.Pickup.Description, arch.Pickup.Value, arch.Pickup.Extra)
	}
	if arch.Rotation != nil && arch.Rotation.Speed != 0 {
		axis := data.Vec3(arch.Rotation.Axis, upAxis)
		a.Controllers = append(a.Controllers, actor.NewRotationController(p.ID+"_spin", arch.Rotation.Speed, axis))
	}
	return a, nil
}

func (f *Factory) behavior(arch *data.Archetype, origin mgl32.Vec3) actor.Behavior {
	switch arch.Behavior {
	case "player":
		return behavior.NewPlayer(f.bus, f.keys, f.scripts, f.player)
	case "patrol":
		return behavior.NewPatrol(f.bus, origin, arch.Patrol.Range, arch.Patrol.Speed, patrolAxes(arch.Patrol.Axes))
	case "mover":
		return behavior.NewMover(f.bus, data.Vec3(arch.Mover.Velocity, mgl32.Vec3{}), arch.Mover.Rotate)
	}
	return nil
}

func patrolAxes(s string) behavior.Axes {
	switch s {
	case "y":
		return behavior.AxisY
	case "xy":
		return behavior.AxesXY
	}
	return behavior.AxisX
}

func zoneParams(z *data.ZoneDef) *actor.ZoneParams {
	if z == nil {
		return nil
	}
	return &actor.ZoneParams{Trigger: z.Trigger, Cue: z.Cue, Stage: z.Stage, Script: z.Script}
}

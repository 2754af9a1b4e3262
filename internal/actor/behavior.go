package actor

import "github.com/go-gl/mathgl/mgl32"

// Behavior is the per-type strategy driving a collidable actor.
type Behavior interface {
	// HandleInput stages this frame's movement into the transform's
	// increments. It must not move the transform itself.
	HandleInput(a *Actor, f Frame)
	// HandleCollision reacts to collidee (possibly nil) and returns the
	// collidee still blocking movement, or nil to let the movement through.
	HandleCollision(a *Actor, collidee *Actor) *Actor
	Clone() Behavior
}

// Controller is attached to an actor and advanced once per frame after
// movement has been resolved.
type Controller interface {
	ID() string
	Update(f Frame, a *Actor)
	Clone() Controller
}

// RotationController spins an actor by Speed degrees per frame about Axis.
type RotationController struct {
	id    string
	Speed float32
	Axis  mgl32.Vec3
}

func NewRotationController(id string, speed float32, axis mgl32.Vec3) *RotationController {
	return &RotationController{id: id, Speed: speed, Axis: axis}
}

func (c *RotationController) ID() string { return c.id }

func (c *RotationController) Update(_ Frame, a *Actor) {
	a.Transform.RotateBy(c.Axis.Mul(c.Speed))
}

func (c *RotationController) Clone() Controller {
	cp := *c
	return &cp
}

// PickupParams describe what collecting a pickup is worth.
type PickupParams struct {
	Description string
	Value       float32
	Extra       map[string]string
}

// NewPickupParams clamps negative values to zero.
func NewPickupParams(description string, value float32, extra map[string]string) *PickupParams {
	if value < 0 {
		value = 0
	}
	return &PickupParams{Description: description, Value: value, Extra: extra}
}

func (p PickupParams) clone() PickupParams {
	if p.Extra != nil {
		extra := make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			extra[k] = v
		}
		p.Extra = extra
	}
	return p
}

// ZoneTrigger names the side effect a zone has on the actor entering it.
type ZoneTrigger string

const (
	TriggerNone     ZoneTrigger = ""
	TriggerSound    ZoneTrigger = "sound"     // play Cue
	TriggerStageEnd ZoneTrigger = "stage_end" // advance to Stage
	TriggerFinish   ZoneTrigger = "finish"    // win the game
	TriggerScript   ZoneTrigger = "script"    // run a Lua hook
)

// ZoneParams configure a trigger zone.
type ZoneParams struct {
	Trigger ZoneTrigger
	Cue     string
	Stage   int
	Script  string
}

// Predicate selects actors in bulk queries.
type Predicate func(*Actor) bool

// Selector is a data-only predicate. Empty fields match everything.
type Selector struct {
	ID    string
	Types []Type
}

func ByID(id string) Selector           { return Selector{ID: id} }
func ByType(types ...Type) Selector     { return Selector{Types: types} }
func (s Selector) Predicate() Predicate { return s.Match }

func (s Selector) Match(a *Actor) bool {
	if a == nil {
		return false
	}
	if s.ID != "" && a.ID != s.ID {
		return false
	}
	if len(s.Types) == 0 {
		return true
	}
	for _, t := range s.Types {
		if a.Type == t {
			return true
		}
	}
	return false
}

package event

import (
	"fmt"

	"github.com/blockrun/game/internal/actor"
)

// Category routes an event to its subscribers.
type Category int

const (
	CategorySound Category = iota
	CategoryMenu
	CategoryUI
	CategoryObject
	CategoryPlayer
	CategoryOpacity
	CategoryCamera
)

var categoryNames = [...]string{"sound", "menu", "ui", "object", "player", "opacity", "camera"}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Action says what happened within a category.
type Action int

const (
	// Sound
	OnPlay2D Action = iota
	OnPlay3D
	OnResume
	OnStop
	OnVolumeSet
	OnVolumeDelta
	OnMute

	// Menu
	OnPause
	OnPlay
	OnWin
	OnLose

	// Object / UI
	OnAddActor
	OnRemoveActor
	OnApplyActionToFirstMatchActor
	OnApplyActionToAllActors

	// Opacity
	OnOpaqueToTransparent
	OnTransparentToOpaque

	// Player / UI
	OnLivesChanged
	OnPickup
	OnStageChange
	OnScoreChanged
	OnHealthDelta

	// Camera
	OnCameraCycle
)

var actionNames = map[Action]string{
	OnPlay2D:                       "play_2d",
	OnPlay3D:                       "play_3d",
	OnResume:                       "resume",
	OnStop:                         "stop",
	OnVolumeSet:                    "volume_set",
	OnVolumeDelta:                  "volume_delta",
	OnMute:                         "mute",
	OnPause:                        "pause",
	OnPlay:                         "play",
	OnWin:                          "win",
	OnLose:                         "lose",
	OnAddActor:                     "add_actor",
	OnRemoveActor:                  "remove_actor",
	OnApplyActionToFirstMatchActor: "apply_first_match",
	OnApplyActionToAllActors:       "apply_all",
	OnOpaqueToTransparent:          "opaque_to_transparent",
	OnTransparentToOpaque:          "transparent_to_opaque",
	OnLivesChanged:                 "lives_changed",
	OnPickup:                       "pickup",
	OnStageChange:                  "stage_change",
	OnScoreChanged:                 "score_changed",
	OnHealthDelta:                  "health_delta",
	OnCameraCycle:                  "camera_cycle",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Data is a single event. It is passed by value and not retained by the bus.
// The payload is either Params or Command.
type Data struct {
	Category Category
	Action   Action
	Params   []any
	Command  Command
}

func New(c Category, a Action, params ...any) Data {
	return Data{Category: c, Action: a, Params: params}
}

// NewCommand builds an apply-to-actors event.
func NewCommand(c Category, a Action, cmd Command) Data {
	return Data{Category: c, Action: a, Command: cmd}
}

// Param returns the i-th parameter or nil.
func (d Data) Param(i int) any {
	if i < 0 || i >= len(d.Params) {
		return nil
	}
	return d.Params[i]
}

// ActorParam returns the i-th parameter when it is a non-nil *actor.Actor.
func (d Data) ActorParam(i int) (*actor.Actor, bool) {
	a, ok := d.Param(i).(*actor.Actor)
	return a, ok && a != nil
}

func (d Data) StringParam(i int) (string, bool) {
	s, ok := d.Param(i).(string)
	return s, ok
}

// FloatParam accepts float32, float64 and int parameters.
func (d Data) FloatParam(i int) (float32, bool) {
	switch v := d.Param(i).(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	}
	return 0, false
}

func (d Data) IntParam(i int) (int, bool) {
	v, ok := d.Param(i).(int)
	return v, ok
}

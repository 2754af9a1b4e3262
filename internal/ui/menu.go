package ui

import (
	"github.com/blockrun/game/internal/core/event"
	"go.uber.org/zap"
)

// Scene names a menu screen. SceneNone means the game is being played.
type Scene string

const (
	SceneNone  Scene = ""
	SceneMain  Scene = "main"
	SceneWin   Scene = "win"
	SceneLose  Scene = "lose"
	ScenePause Scene = "pause"
)

// CueMenu is played whenever a menu scene is shown.
const CueMenu = "menu"

var sceneText = map[Scene][]string{
	SceneMain:  {"BLOCK RUN", "", "Enter  play", "Q  quit"},
	SceneWin:   {"YOU WIN", "", "Q  quit"},
	SceneLose:  {"GAME OVER", "", "Q  quit"},
	ScenePause: {"PAUSED", "", "Enter  resume", "Q  quit"},
}

// Menu tracks the active menu scene. Win and lose are terminal: play does
// not hide them.
type Menu struct {
	scene Scene
	bus   *event.Bus
	subs  event.Group
	log   *zap.Logger
}

// NewMenu starts on the main scene.
func NewMenu(log *zap.Logger) *Menu {
	return &Menu{scene: SceneMain, log: log}
}

func (m *Menu) Scene() Scene  { return m.scene }
func (m *Menu) Visible() bool { return m.scene != SceneNone }

// Lines returns the text of the active scene, or nil while playing.
func (m *Menu) Lines() []string { return sceneText[m.scene] }

// Show switches to s and plays the menu cue.
func (m *Menu) Show(s Scene) {
	if m.scene == s {
		return
	}
	m.log.Info("menu", zap.String("scene", string(s)))
	m.scene = s
	if s != SceneNone && m.bus != nil {
		m.bus.Publish(event.New(event.CategorySound, event.OnPlay2D, CueMenu))
	}
}

// Terminal reports whether the run has ended.
func (m *Menu) Terminal() bool { return m.scene == SceneWin || m.scene == SceneLose }

func (m *Menu) Subscribe(bus *event.Bus) {
	m.bus = bus
	m.subs.Subscribe(bus, event.CategoryMenu, m.handle)
}

func (m *Menu) Close() {
	m.subs.Cancel()
	m.bus = nil
}

func (m *Menu) handle(d event.Data) {
	switch d.Action {
	case event.OnPause:
		if !m.Terminal() {
			m.Show(ScenePause)
		}
	case event.OnPlay:
		if !m.Terminal() {
			m.Show(SceneNone)
		}
	case event.OnWin:
		m.Show(SceneWin)
	case event.OnLose:
		m.Show(SceneLose)
	}
}

package ui

import (
	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/core/event"
	"go.uber.org/zap"
)

// HUD actor IDs refreshed by the manager when the tracked values change.
const (
	HUDLivesID  = "hud_lives"
	HUDScoreID  = "hud_score"
	HUDHealthID = "hud_health"
	HUDStageID  = "hud_stage"
)

// HealthMax is the length of the health bar.
const HealthMax = 10

// Manager owns the UI actors and the HUD state. It is driven by the UI
// category (add/remove/commands/health) and listens to Player events for
// lives, score and stage.
type Manager struct {
	actors  []*actor.Actor
	pending []*actor.Actor
	scratch []*actor.Actor

	hud    HUD
	format *Formatter
	subs   event.Group
	log    *zap.Logger
}

func NewManager(f *Formatter, log *zap.Logger) *Manager {
	return &Manager{
		actors: make([]*actor.Actor, 0, 8),
		hud:    HUD{Health: HealthMax, Stage: 1},
		format: f,
		log:    log,
	}
}

// HUD is a snapshot of the values shown on screen.
type HUD struct {
	Lives   int
	Score   float32
	Health  int
	Stage   int
	Pickups int
}

func (m *Manager) HUD() HUD               { return m.hud }
func (m *Manager) Actors() []*actor.Actor { return m.actors }
func (m *Manager) Count() int             { return len(m.actors) }

// SetLives seeds the lives counter before the first Player event.
func (m *Manager) SetLives(n int) {
	m.hud.Lives = n
	m.refresh()
}

// SetHealth clamps v to 0..HealthMax.
func (m *Manager) SetHealth(v int) {
	m.hud.Health = max(0, min(HealthMax, v))
	m.refresh()
}

// Add appends a UI actor. Non-UI actors are rejected.
func (m *Manager) Add(a *actor.Actor) bool {
	if a == nil || a.Kind != actor.KindUI {
		return false
	}
	m.actors = append(m.actors, a)
	m.refreshActor(a)
	return true
}

// Remove queues a for removal at the start of the next ApplyUpdate.
func (m *Manager) Remove(a *actor.Actor) {
	if a != nil {
		m.pending = append(m.pending, a)
	}
}

func (m *Manager) Find(pred actor.Predicate) *actor.Actor {
	if pred == nil {
		return nil
	}
	for _, a := range m.actors {
		if pred(a) {
			return a
		}
	}
	return nil
}

// ApplyUpdate drains pending removals and updates UI actors with the Update
// flag. UI actors only run their controllers.
func (m *Manager) ApplyUpdate(f actor.Frame) {
	for _, r := range m.pending {
		for i, a := range m.actors {
			if a == r {
				m.actors = append(m.actors[:i], m.actors[i+1:]...)
				break
			}
		}
	}
	clear(m.pending)
	m.pending = m.pending[:0]

	m.scratch = append(m.scratch[:0], m.actors...)
	for _, a := range m.scratch {
		if a.Status.Has(actor.StatusUpdate) {
			a.Update(f)
		}
	}
	clear(m.scratch)
}

func (m *Manager) ApplyToFirstMatch(cmd event.Command) int {
	if cmd == nil {
		return 0
	}
	sel := cmd.Target()
	for _, a := range m.actors {
		if sel.Match(a) {
			cmd.Apply(a)
			return 1
		}
	}
	return 0
}

func (m *Manager) ApplyToAll(cmd event.Command) int {
	if cmd == nil {
		return 0
	}
	sel := cmd.Target()
	n := 0
	for _, a := range m.actors {
		if sel.Match(a) {
			cmd.Apply(a)
			n++
		}
	}
	return n
}

// Lines renders the HUD as text, one value per line.
func (m *Manager) Lines() []string {
	return []string{
		m.format.Lives(m.hud.Lives),
		m.format.Score(m.hud.Score),
		m.format.Health(m.hud.Health, HealthMax),
		m.format.Stage(m.hud.Stage),
	}
}

// ── Events ──

// Subscribe registers the manager on the UI and Player categories.
func (m *Manager) Subscribe(bus *event.Bus) {
	m.subs.Subscribe(bus, event.CategoryUI, m.handleUI)
	m.subs.Subscribe(bus, event.CategoryPlayer, m.handlePlayer)
}

func (m *Manager) Close() { m.subs.Cancel() }

func (m *Manager) handleUI(d event.Data) {
	switch d.Action {
	case event.OnAddActor:
		if a, ok := d.ActorParam(0); ok {
			m.Add(a)
		}
	case event.OnRemoveActor:
		if a, ok := d.ActorParam(0); ok {
			m.Remove(a)
		}
	case event.OnApplyActionToFirstMatchActor:
		n := m.ApplyToFirstMatch(d.Command)
		m.log.Debug("ui apply first match", zap.Int("matched", n))
	case event.OnApplyActionToAllActors:
		n := m.ApplyToAll(d.Command)
		m.log.Debug("ui apply all", zap.Int("matched", n))
	case event.OnHealthDelta:
		if v, ok := d.FloatParam(0); ok {
			m.SetHealth(m.hud.Health + int(v))
		}
	}
}

func (m *Manager) handlePlayer(d event.Data) {
	switch d.Action {
	case event.OnLivesChanged:
		if n, ok := d.IntParam(0); ok {
			m.hud.Lives = n
		}
	case event.OnScoreChanged:
		if v, ok := d.FloatParam(0); ok {
			m.hud.Score = v
		}
	case event.OnStageChange:
		if n, ok := d.IntParam(0); ok {
			m.hud.Stage = n
		}
	case event.OnPickup:
		m.hud.Pickups++
	default:
		return
	}
	m.refresh()
}

func (m *Manager) refresh() {
	for _, a := range m.actors {
		m.refreshActor(a)
	}
}

func (m *Manager) refreshActor(a *actor.Actor) {
	switch a.ID {
	case HUDLivesID:
		a.Label = m.format.Lives(m.hud.Lives)
	case HUDScoreID:
		a.Label = m.format.Score(m.hud.Score)
	case HUDHealthID:
		a.Label = m.format.Health(m.hud.Health, HealthMax)
	case HUDStageID:
		a.Label = m.format.Stage(m.hud.Stage)
	}
}

package scene

import (
	"github.com/blockrun/game/internal/core/event"
	"go.uber.org/zap"
)

// Subscribe registers the manager on the Object, Opacity and Menu categories.
// Close releases the subscriptions.
func (m *ObjectManager) Subscribe(bus *event.Bus) {
	m.subs.Subscribe(bus, event.CategoryObject, m.handleObject)
	m.subs.Subscribe(bus, event.CategoryOpacity, m.handleOpacity)
	m.subs.Subscribe(bus, event.CategoryMenu, m.handleMenu)
}

// Close releases bus subscriptions. The actors are left untouched.
func (m *ObjectManager) Close() {
	m.subs.Cancel()
}

func (m *ObjectManager) handleObject(d event.Data) {
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
		m.log.Debug("apply first match", zap.Int("matched", n))
	case event.OnApplyActionToAllActors:
		n := m.ApplyToAll(d.Command)
		m.log.Debug("apply all", zap.Int("matched", n))
	}
}

func (m *ObjectManager) handleOpacity(d event.Data) {
	a, ok := d.ActorParam(0)
	if !ok {
		return
	}
	switch d.Action {
	case event.OnOpaqueToTransparent:
		m.MoveToTransparent(a)
	case event.OnTransparentToOpaque:
		m.MoveToOpaque(a)
	}
}

func (m *ObjectManager) handleMenu(d event.Data) {
	switch d.Action {
	case event.OnPause:
		m.paused = true
	case event.OnPlay:
		m.paused = false
	}
}

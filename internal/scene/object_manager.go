package scene

import (
	"github.com/blockrun/game/internal/actor"
	"github.com/blockrun/game/internal/core/event"
	"go.uber.org/zap"
)

// removal remembers which list the actor was in when removal was requested,
// so a later alpha change cannot send it to the wrong list.
type removal struct {
	actor       *actor.Actor
	transparent bool
}

// ObjectManager owns the simulated 3D actors, split into an opaque and a
// transparent list by alpha at insertion time.
//
// Removal through Remove is deferred until the start of the next ApplyUpdate
// so the lists never change under an update traversal.
type ObjectManager struct {
	opaque      []*actor.Actor
	transparent []*actor.Actor
	pending     []removal
	scratch     []*actor.Actor
	paused      bool

	subs event.Group
	log  *zap.Logger
}

func NewObjectManager(log *zap.Logger) *ObjectManager {
	return &ObjectManager{
		opaque:      make([]*actor.Actor, 0, 64),
		transparent: make([]*actor.Actor, 0, 16),
		pending:     make([]removal, 0, 16),
		log:         log,
	}
}

func (m *ObjectManager) Opaque() []*actor.Actor      { return m.opaque }
func (m *ObjectManager) Transparent() []*actor.Actor { return m.transparent }

// Count is the number of live actors in both lists.
func (m *ObjectManager) Count() int { return len(m.opaque) + len(m.transparent) }

// Pending is the number of removals waiting for the next ApplyUpdate.
func (m *ObjectManager) Pending() int { return len(m.pending) }

func (m *ObjectManager) Paused() bool     { return m.paused }
func (m *ObjectManager) SetPaused(p bool) { m.paused = p }

// Add appends a to the opaque list, or the transparent list when its alpha is
// below 1. The actor's collision queries are pointed at this manager unless
// it already has a scene.
func (m *ObjectManager) Add(a *actor.Actor) {
	if a == nil {
		return
	}
	if a.Scene() == nil {
		a.AttachScene(m)
	}
	if a.Effect.IsTransparent() {
		m.transparent = append(m.transparent, a)
	} else {
		m.opaque = append(m.opaque, a)
	}
}

// AddAll adds every actor in order.
func (m *ObjectManager) AddAll(actors []*actor.Actor) {
	for _, a := range actors {
		m.Add(a)
	}
}

// Remove queues a for removal at the start of the next ApplyUpdate.
// Duplicates are tolerated.
func (m *ObjectManager) Remove(a *actor.Actor) {
	if a == nil {
		return
	}
	m.pending = append(m.pending, removal{actor: a, transparent: indexOf(m.transparent, a) >= 0})
}

// RemoveFirstIf immediately removes the first match, opaque list first.
func (m *ObjectManager) RemoveFirstIf(pred actor.Predicate) bool {
	if pred == nil {
		return false
	}
	for _, list := range []*[]*actor.Actor{&m.opaque, &m.transparent} {
		for i, a := range *list {
			if pred(a) {
				*list = removeAt(*list, i)
				return true
			}
		}
	}
	return false
}

// RemoveAll immediately removes every match from both lists.
func (m *ObjectManager) RemoveAll(pred actor.Predicate) int {
	if pred == nil {
		return 0
	}
	n := 0
	m.opaque, n = filterOut(m.opaque, pred, n)
	m.transparent, n = filterOut(m.transparent, pred, n)
	return n
}

// Clear empties both lists and drops pending removals.
func (m *ObjectManager) Clear() {
	clear(m.opaque)
	clear(m.transparent)
	m.opaque = m.opaque[:0]
	m.transparent = m.transparent[:0]
	m.pending = m.pending[:0]
}

// Find returns the first match, opaque list first, or nil.
func (m *ObjectManager) Find(pred actor.Predicate) *actor.Actor {
	if pred == nil {
		return nil
	}
	for _, a := range m.opaque {
		if pred(a) {
			return a
		}
	}
	for _, a := range m.transparent {
		if pred(a) {
			return a
		}
	}
	return nil
}

// FindAll returns every match, opaque list first.
func (m *ObjectManager) FindAll(pred actor.Predicate) []*actor.Actor {
	if pred == nil {
		return nil
	}
	var out []*actor.Actor
	for _, list := range [][]*actor.Actor{m.opaque, m.transparent} {
		for _, a := range list {
			if pred(a) {
				out = append(out, a)
			}
		}
	}
	return out
}

// ApplyUpdate drains pending removals, then updates every actor with the
// Update flag: opaque list first, each in insertion order. The traversal
// works on a snapshot, so actors added or moved by events during the pass
// are picked up on the next call.
func (m *ObjectManager) ApplyUpdate(f actor.Frame) {
	m.flushRemovals()
	if m.paused {
		return
	}
	m.scratch = append(m.scratch[:0], m.opaque...)
	m.scratch = append(m.scratch, m.transparent...)
	for _, a := range m.scratch {
		if a.Status.Has(actor.StatusUpdate) {
			a.Update(f)
		}
	}
	clear(m.scratch)
}

func (m *ObjectManager) flushRemovals() {
	if len(m.pending) == 0 {
		return
	}
	for _, r := range m.pending {
		primary, secondary := &m.opaque, &m.transparent
		if r.transparent {
			primary, secondary = secondary, primary
		}
		if i := indexOf(*primary, r.actor); i >= 0 {
			*primary = removeAt(*primary, i)
		} else if i := indexOf(*secondary, r.actor); i >= 0 {
			// moved by an opacity event after the removal was queued
			*secondary = removeAt(*secondary, i)
		}
	}
	m.log.Debug("removed actors", zap.Int("count", len(m.pending)))
	clear(m.pending)
	m.pending = m.pending[:0]
}

// ApplyToFirstMatch applies cmd to the first matching actor in each list.
// Returns the number of actors changed.
func (m *ObjectManager) ApplyToFirstMatch(cmd event.Command) int {
	if cmd == nil {
		return 0
	}
	sel := cmd.Target()
	n := 0
	for _, list := range [][]*actor.Actor{m.opaque, m.transparent} {
		for _, a := range list {
			if sel.Match(a) {
				cmd.Apply(a)
				n++
				break
			}
		}
	}
	return n
}

// ApplyToAll applies cmd to every matching actor in both lists.
func (m *ObjectManager) ApplyToAll(cmd event.Command) int {
	if cmd == nil {
		return 0
	}
	sel := cmd.Target()
	n := 0
	for _, list := range [][]*actor.Actor{m.opaque, m.transparent} {
		for _, a := range list {
			if sel.Match(a) {
				cmd.Apply(a)
				n++
			}
		}
	}
	return n
}

// MoveToTransparent moves a from the opaque list to the end of the
// transparent list. It does nothing if a is not opaque.
func (m *ObjectManager) MoveToTransparent(a *actor.Actor) bool {
	i := indexOf(m.opaque, a)
	if i < 0 {
		return false
	}
	m.opaque = removeAt(m.opaque, i)
	m.transparent = append(m.transparent, a)
	return true
}

func (m *ObjectManager) MoveToOpaque(a *actor.Actor) bool {
	i := indexOf(m.transparent, a)
	if i < 0 {
		return false
	}
	m.transparent = removeAt(m.transparent, i)
	m.opaque = append(m.opaque, a)
	return true
}

func indexOf(list []*actor.Actor, a *actor.Actor) int {
	for i, x := range list {
		if x == a {
			return i
		}
	}
	return -1
}

// removeAt keeps order; the lists are short and order is part of the
// update contract.
func removeAt(list []*actor.Actor, i int) []*actor.Actor {
	copy(list[i:], list[i+1:])
	list[len(list)-1] = nil
	return list[:len(list)-1]
}

func filterOut(list []*actor.Actor, pred actor.Predicate, n int) ([]*actor.Actor, int) {
	kept := list[:0]
	for _, a := range list {
		if pred(a) {
			n++
			continue
		}
		kept = append(kept, a)
	}
	clear(list[len(kept):])
	return kept, n
}

package actor

// Update runs one simulation frame for the actor.
//
// Collidable actors with a behavior go through detection and response first:
// the behavior stages movement, the scene is queried at the projected
// position, the behavior responds, and the staged movement is committed only
// when no collidee remains. Every actor then advances its controllers and
// refreshes its primitive for the next frame's queries.
func (a *Actor) Update(f Frame) {
	if a.Kind == KindCollidable && a.Behavior != nil {
		a.resolveMovement(f)
	}
	for _, c := range a.Controllers {
		c.Update(f, a)
	}
	a.SyncPrimitive()
	a.Transform.ResetIncrements()
}

func (a *Actor) resolveMovement(f Frame) {
	a.Behavior.HandleInput(a, f)

	a.Collidee = a.CheckAllCollisions()
	a.Collidee = a.Behavior.HandleCollision(a, a.Collidee)

	if a.Collidee == nil {
		a.Transform.ApplyIncrements()
	} else {
		a.Transform.ResetIncrements()
	}
}

// SyncPrimitive recomputes the cached collision volume from the transform.
func (a *Actor) SyncPrimitive() {
	if a.Primitive != nil && a.Transform != nil {
		a.Primitive.Update(a.Transform)
	}
}

// CheckAllCollisions returns the first actor, opaque list first, whose current
// volume overlaps this actor's volume projected by the pending translation.
// Returns nil when nothing is hit or the actor has no scene.
func (a *Actor) CheckAllCollisions() *Actor {
	if a.scene == nil || a.Primitive == nil {
		return nil
	}
	if hit := a.checkCollisions(a.scene.Opaque()); hit != nil {
		return hit
	}
	return a.checkCollisions(a.scene.Transparent())
}

func (a *Actor) checkCollisions(list []*Actor) *Actor {
	for _, other := range list {
		if other == a || other == nil || !other.IsCollidable() {
			continue
		}
		if a.Primitive.IntersectsProjected(other.Primitive, a.Transform.TranslateIncrement) {
			return other
		}
	}
	return nil
}

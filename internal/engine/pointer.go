package engine

import (
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// PointerDown starts a gesture at p. Resize handles win over shape bodies,
// and shape bodies win over empty space. A gesture still in progress is
// dropped without being committed.
func (e *Engine) PointerDown(p geometry.Point) {
	defer e.touch()

	if target, ok := e.store.FindHandleAt(p.X, p.Y); ok {
		e.gesture = startResizing(target, p)
		return
	}

	if hit, ok := e.store.FindAt(p.X, p.Y); ok {
		e.gesture = startDragging(e.dragSet(hit), p)
		return
	}

	e.gesture = startSelecting(p)
}

// dragSet returns the shapes that move with hit: the whole selection group
// when hit belongs to a group of more than one shape, otherwise hit alone.
func (e *Engine) dragSet(hit shape.Shape) []shape.Shape {
	if !e.groups.Has(hit.ID) || e.groups.Len() < 2 {
		return []shape.Shape{hit}
	}
	set := []shape.Shape{hit}
	for _, sh := range e.store.List() {
		if sh.ID != hit.ID && e.groups.Has(sh.ID) {
			set = append(set, sh)
		}
	}
	return set
}

// PointerMove updates the working copies of the active gesture. It is a
// no-op while idle.
func (e *Engine) PointerMove(p geometry.Point) {
	if e.gesture.IsIdle() {
		return
	}
	e.gesture.move(p)
	e.touch()
}

// PointerUp commits the active gesture and returns to idle.
//
// A finished rubber band replaces the selection group with the enclosed
// shapes. A resize or drag writes its working copies back to the store. A
// plain click on a shape selects that shape alone; a group drag that moved
// keeps its group.
func (e *Engine) PointerUp(p geometry.Point) {
	g := e.gesture
	e.gesture = Gesture{}
	defer e.touch()

	switch g.Mode {
	case ModeSelecting:
		e.groups.SelectRect(g.Selection, e.store.List())
		return

	case ModeResizing:
		resized := g.Resizing
		resized.Rect = resized.Normalize()
		e.store.Update(map[string]shape.Shape{resized.ID: resized})
		e.groups.Reconcile(e.store.List())
		return

	case ModeDragging:
		updates := make(map[string]shape.Shape, len(g.Dragging))
		for id, item := range g.Dragging {
			updates[id] = item.Shape
		}
		e.store.Update(updates)
		e.groups.Reconcile(e.store.List())
		if g.Moved && len(g.Dragging) > 1 {
			return
		}
	}

	if hit, ok := e.store.FindAt(p.X, p.Y); ok {
		e.groups.SelectSingle(hit)
	}
}

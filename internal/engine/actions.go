package engine

import (
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// DefaultShapeRect is the geometry given to shapes created from the toolbar.
var DefaultShapeRect = geometry.Rect{X: 10, Y: 10, Width: 100, Height: 100}

// CreateShape appends a default-sized shape with a generated color and
// clears the selection group.
func (e *Engine) CreateShape() shape.Shape {
	sh := e.store.Create(shape.Shape{Rect: DefaultShapeRect, Color: e.newColor()})
	e.groups.Clear()
	e.touch()
	return sh
}

// DeleteSelection removes every member of the selection group from the
// board and clears the group. It returns the removed ids.
func (e *Engine) DeleteSelection() []string {
	ids := e.groups.Active().IDs()
	removed := e.DeleteShapes(ids...)
	e.groups.Clear()
	e.touch()
	return removed
}

// DeleteShapes removes the shapes with the given ids from the store, the
// selection group and the gesture in progress. Unknown ids are ignored.
func (e *Engine) DeleteShapes(ids ...string) []string {
	if len(ids) == 0 {
		return nil
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	removed := e.store.Delete(func(sh shape.Shape) bool { return doomed[sh.ID] })
	e.groups.Remove(removed...)
	e.forgetInGesture(doomed)
	e.touch()
	return removed
}

// ClearSelection drops the selection group.
func (e *Engine) ClearSelection() {
	e.groups.Clear()
	e.touch()
}

func (e *Engine) forgetInGesture(doomed map[string]bool) {
	switch e.gesture.Mode {
	case ModeResizing:
		if doomed[e.gesture.Resizing.ID] {
			e.gesture = Gesture{}
		}
	case ModeDragging:
		for id := range e.gesture.Dragging {
			if doomed[id] {
				delete(e.gesture.Dragging, id)
			}
		}
		if len(e.gesture.Dragging) == 0 {
			e.gesture = Gesture{}
		}
	}
}

package selection

import (
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// Manager holds the active selection group of a board.
type Manager struct {
	active *Group
}

// Active returns a copy of the active group, or nil.
func (m *Manager) Active() *Group {
	return m.active.Clone()
}

// Set replaces the active group with a copy of g. A group without members
// clears the selection.
func (m *Manager) Set(g *Group) {
	if g.Len() == 0 {
		m.active = nil
		return
	}
	m.active = g.Clone()
}

// SelectRect replaces the active group with the shapes enclosed by container
// and returns it. An empty result clears the selection.
func (m *Manager) SelectRect(container geometry.Rect, shapes []shape.Shape) *Group {
	m.active = FromRect(container, shapes)
	return m.Active()
}

// SelectSingle replaces the active group with a one-member group.
func (m *Manager) SelectSingle(sh shape.Shape) *Group {
	m.active = FromSingle(sh)
	return m.Active()
}

// Clear drops the active group.
func (m *Manager) Clear() {
	m.active = nil
}

// Remove drops the given ids from the active group.
func (m *Manager) Remove(ids ...string) {
	m.active = RemoveIDs(m.active, ids...)
}

// Reconcile refreshes the active group against the current shapes.
func (m *Manager) Reconcile(shapes []shape.Shape) {
	m.active = Reconcile(m.active, shapes)
}

// Has reports whether id belongs to the active group.
func (m *Manager) Has(id string) bool {
	return m.active.Has(id)
}

// Len returns the size of the active group.
func (m *Manager) Len() int {
	return m.active.Len()
}

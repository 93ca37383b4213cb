// Package selection derives and maintains the set of shapes a user has
// selected, either by rubber band or by clicking.
package selection

import (
	"maps"
	"slices"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// Group is a committed selection: the normalized rectangle that selected it
// and snapshots of its member shapes keyed by id. Snapshots are copies; the
// shape store stays the source of truth.
type Group struct {
	Selection geometry.Rect          `json:"selection"`
	Shapes    map[string]shape.Shape `json:"shapes"`
}

// FromRect builds a group of every shape fully enclosed by container. The
// container is normalized first. It returns nil when nothing is enclosed.
func FromRect(container geometry.Rect, shapes []shape.Shape) *Group {
	container = container.Normalize()
	g := &Group{Selection: container, Shapes: make(map[string]shape.Shape)}
	for _, sh := range shapes {
		if sh.Normalize().WithinBounds(container) {
			g.Shapes[sh.ID] = sh
		}
	}
	if len(g.Shapes) == 0 {
		return nil
	}
	return g
}

// FromSingle builds a one-member group whose selection is the shape's own
// geometry.
func FromSingle(sh shape.Shape) *Group {
	return &Group{
		Selection: sh.Rect,
		Shapes:    map[string]shape.Shape{sh.ID: sh},
	}
}

// RemoveIDs returns a copy of g without the given ids, or nil when no member
// is left.
func RemoveIDs(g *Group, ids ...string) *Group {
	if g == nil {
		return nil
	}
	out := g.Clone()
	for _, id := range ids {
		delete(out.Shapes, id)
	}
	if len(out.Shapes) == 0 {
		return nil
	}
	return out
}

// Reconcile refreshes member snapshots from shapes by id and drops members
// that no longer exist. It returns nil when no member is left.
func Reconcile(g *Group, shapes []shape.Shape) *Group {
	if g == nil {
		return nil
	}
	out := &Group{Selection: g.Selection, Shapes: make(map[string]shape.Shape, len(g.Shapes))}
	for _, sh := range shapes {
		if _, ok := g.Shapes[sh.ID]; ok {
			out.Shapes[sh.ID] = sh
		}
	}
	if len(out.Shapes) == 0 {
		return nil
	}
	return out
}

// Has reports whether id is a member. Safe on a nil group.
func (g *Group) Has(id string) bool {
	if g == nil {
		return false
	}
	_, ok := g.Shapes[id]
	return ok
}

// Len returns the number of members. Safe on a nil group.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Shapes)
}

// IDs returns the member ids in sorted order.
func (g *Group) IDs() []string {
	if g == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(g.Shapes))
}

// Clone returns a deep copy.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	return &Group{Selection: g.Selection, Shapes: maps.Clone(g.Shapes)}
}

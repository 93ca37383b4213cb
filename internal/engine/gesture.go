package engine

import (
	"fmt"
	"maps"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// Mode is the interaction state of the engine.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelecting
	ModeResizing
	ModeDragging
)

var modeNames = [...]string{"idle", "selecting", "resizing", "dragging"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for i, name := range modeNames {
		if name == string(text) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown gesture mode %q", text)
}

// DragItem is the working copy of one shape being dragged together with the
// pointer position its next delta is measured from.
type DragItem struct {
	Shape  shape.Shape    `json:"shape"`
	Anchor geometry.Point `json:"anchor"`
}

// Gesture is the transient state of one pointer gesture. Only the fields of
// the active Mode are meaningful:
//
//	Selecting: Selection (not normalized) and Anchor
//	Resizing:  Resizing (working copy of the target shape) and Anchor
//	Dragging:  Dragging (working copies keyed by shape id)
//
// Working copies never alias shapes held by the store.
type Gesture struct {
	Mode      Mode                `json:"mode"`
	Selection geometry.Rect       `json:"selection,omitzero"`
	Resizing  shape.Shape         `json:"resizing,omitzero"`
	Dragging  map[string]DragItem `json:"dragging,omitempty"`
	Anchor    geometry.Point      `json:"anchor,omitzero"`
	Moved     bool                `json:"moved,omitempty"`
}

// IsIdle reports whether no gesture is in progress.
func (g Gesture) IsIdle() bool {
	return g.Mode == ModeIdle
}

// Clone returns a copy that shares no maps with g.
func (g Gesture) Clone() Gesture {
	g.Dragging = maps.Clone(g.Dragging)
	return g
}

// Involves reports whether the shape with id is being resized or dragged.
func (g Gesture) Involves(id string) bool {
	switch g.Mode {
	case ModeResizing:
		return g.Resizing.ID == id
	case ModeDragging:
		_, ok := g.Dragging[id]
		return ok
	}
	return false
}

func startSelecting(p geometry.Point) Gesture {
	return Gesture{
		Mode:      ModeSelecting,
		Selection: geometry.Rect{X: p.X, Y: p.Y},
		Anchor:    p,
	}
}

func startResizing(target shape.Shape, p geometry.Point) Gesture {
	return Gesture{Mode: ModeResizing, Resizing: target, Anchor: p}
}

func startDragging(shapes []shape.Shape, p geometry.Point) Gesture {
	items := make(map[string]DragItem, len(shapes))
	for _, sh := range shapes {
		items[sh.ID] = DragItem{Shape: sh, Anchor: p}
	}
	return Gesture{Mode: ModeDragging, Dragging: items}
}

// move applies one pointer-move to the working copies.
func (g *Gesture) move(p geometry.Point) {
	switch g.Mode {
	case ModeSelecting:
		d := p.Sub(g.Anchor)
		g.Selection = g.Selection.Grow(d)
		g.Anchor = p
		g.Moved = g.Moved || !d.IsZero()
	case ModeResizing:
		d := p.Sub(g.Anchor)
		g.Resizing.Rect = g.Resizing.Grow(d)
		g.Anchor = p
		g.Moved = g.Moved || !d.IsZero()
	case ModeDragging:
		for id, item := range g.Dragging {
			d := p.Sub(item.Anchor)
			item.Shape.Rect = item.Shape.Translate(d)
			item.Anchor = p
			g.Dragging[id] = item
			g.Moved = g.Moved || !d.IsZero()
		}
	}
}

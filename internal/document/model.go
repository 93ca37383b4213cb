package document

import (
	"github.com/inamate/whiteboard/internal/selection"
	"github.com/inamate/whiteboard/internal/shape"
)

// Document is the committed state of a board: its shapes in z-order and the
// current selection group, if any.
type Document struct {
	Shapes []shape.Shape    `json:"shapes"`
	Group  *selection.Group `json:"group,omitempty"`
}

// NewEmptyDocument creates a board without shapes.
func NewEmptyDocument() *Document {
	return &Document{Shapes: []shape.Shape{}}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Shapes: make([]shape.Shape, len(d.Shapes)),
		Group:  d.Group.Clone(),
	}
	copy(out.Shapes, d.Shapes)
	return out
}

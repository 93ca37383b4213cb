package document

import (
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
	"github.com/inamate/whiteboard/internal/typeid"
)

// NewSampleDocument returns the starter board: two shapes with generated
// colors and no selection.
func NewSampleDocument() *Document {
	return &Document{
		Shapes: []shape.Shape{
			{
				ID:    typeid.NewShapeID(),
				Rect:  geometry.Rect{X: 100, Y: 100, Width: 100, Height: 50},
				Color: shape.PastelColor(),
			},
			{
				ID:    typeid.NewShapeID(),
				Rect:  geometry.Rect{X: 250, Y: 200, Width: 120, Height: 30},
				Color: shape.PastelColor(),
			},
		},
	}
}

package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
	"github.com/inamate/whiteboard/internal/typeid"
)

// seedFile is the YAML layout of a seed document:
//
//	shapes:
//	  - {x: 100, y: 100, width: 100, height: 50, color: "#ffd1dc"}
//	  - {x: 250, y: 200, width: 120, height: 30}
type seedFile struct {
	Shapes []seedShape `yaml:"shapes"`
}

type seedShape struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Color  string  `yaml:"color"`
}

// ParseSeed decodes a YAML seed document. Shapes get fresh ids, a generated
// color when none is given, and normalized geometry.
func ParseSeed(data []byte) (*Document, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	doc := NewEmptyDocument()
	for i, s := range f.Shapes {
		r := geometry.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}.Normalize()
		if r.IsEmpty() {
			return nil, fmt.Errorf("parse seed: shape %d has no area", i)
		}
		color := s.Color
		if color == "" {
			color = shape.PastelColor()
		}
		doc.Shapes = append(doc.Shapes, shape.Shape{
			ID:    typeid.NewShapeID(),
			Rect:  r,
			Color: color,
		})
	}
	return doc, nil
}

// LoadSeedFile reads and parses a YAML seed document from path.
func LoadSeedFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

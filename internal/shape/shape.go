// Package shape holds the ordered collection of rectangles drawn on a board.
package shape

import (
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/typeid"
)

// Shape is a colored rectangle identified by an immutable id.
type Shape struct {
	geometry.Rect
	ID    string `json:"id"`
	Color string `json:"color"`
}

// Store is the ordered sequence of shapes on a board. Insertion order is the
// z-order used for rendering and hit testing. Store is not safe for
// concurrent use; the owning engine serializes access.
type Store struct {
	shapes []Shape
	newID  func() string
}

// NewStore creates a store seeded with shapes. Duplicate ids keep their first
// occurrence.
func NewStore(shapes ...Shape) *Store {
	s := &Store{newID: typeid.NewShapeID}
	s.Replace(shapes)
	return s
}

// Replace swaps the whole contents of the store.
func (s *Store) Replace(shapes []Shape) {
	seen := make(map[string]bool, len(shapes))
	next := make([]Shape, 0, len(shapes))
	for _, sh := range shapes {
		if sh.ID == "" || seen[sh.ID] {
			continue
		}
		seen[sh.ID] = true
		next = append(next, sh)
	}
	s.shapes = next
}

// Create assigns a fresh id to partial and appends it on top of the z-order.
func (s *Store) Create(partial Shape) Shape {
	partial.ID = s.newID()
	s.shapes = append(s.shapes, partial)
	return partial
}

// Update replaces the geometry of every stored shape whose id is a key of
// updates. Unknown ids are ignored. Color and id are never changed.
func (s *Store) Update(updates map[string]Shape) {
	if len(updates) == 0 {
		return
	}
	for i := range s.shapes {
		if u, ok := updates[s.shapes[i].ID]; ok {
			s.shapes[i].Rect = u.Rect
		}
	}
}

// Delete removes every shape matching the predicate and returns the removed
// ids in store order.
func (s *Store) Delete(match func(Shape) bool) []string {
	var removed []string
	kept := s.shapes[:0]
	for _, sh := range s.shapes {
		if match(sh) {
			removed = append(removed, sh.ID)
			continue
		}
		kept = append(kept, sh)
	}
	clear(s.shapes[len(kept):])
	s.shapes = kept
	return removed
}

// List returns a snapshot of the shapes in z-order.
func (s *Store) List() []Shape {
	out := make([]Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Len returns the number of stored shapes.
func (s *Store) Len() int {
	return len(s.shapes)
}

// Get looks up a shape by id.
func (s *Store) Get(id string) (Shape, bool) {
	for _, sh := range s.shapes {
		if sh.ID == id {
			return sh, true
		}
	}
	return Shape{}, false
}

// FindAt returns the first shape in store order whose body contains (x, y).
func (s *Store) FindAt(x, y float64) (Shape, bool) {
	for _, sh := range s.shapes {
		if sh.ContainsPoint(x, y) {
			return sh, true
		}
	}
	return Shape{}, false
}

// FindHandleAt returns the first shape in store order whose resize handle
// contains (x, y).
func (s *Store) FindHandleAt(x, y float64) (Shape, bool) {
	for _, sh := range s.shapes {
		if sh.InResizeHandle(x, y) {
			return sh, true
		}
	}
	return Shape{}, false
}

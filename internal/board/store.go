package board

import (
	"context"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/selection"
	"github.com/inamate/whiteboard/internal/shape"
	"github.com/inamate/whiteboard/internal/state"
)

// Seeder produces the starting document of a new board. Each call must
// return shapes with fresh ids.
type Seeder func() *document.Document

// SlotStore persists each board in three slots: its shapes, its selection
// group and the gesture in progress. A cleared group or an idle gesture
// empties its slot.
type SlotStore struct {
	backend state.Backend
	seed    Seeder
}

func NewSlotStore(backend state.Backend, seed Seeder) *SlotStore {
	if seed == nil {
		seed = document.NewSampleDocument
	}
	return &SlotStore{backend: backend, seed: seed}
}

type boardSlots struct {
	shapes  state.Slot[[]shape.Shape]
	group   state.Slot[selection.Group]
	gesture state.Slot[engine.Gesture]
}

func (s *SlotStore) slots(boardID string) boardSlots {
	prefix := "boards/" + boardID + "/"
	return boardSlots{
		shapes:  state.NewSlot[[]shape.Shape](s.backend, prefix+"shapes"),
		group:   state.NewSlot[selection.Group](s.backend, prefix+"group"),
		gesture: state.NewSlot[engine.Gesture](s.backend, prefix+"gesture"),
	}
}

// Seed writes the starting document of a board that has no shapes yet.
func (s *SlotStore) Seed(ctx context.Context, boardID string) error {
	sl := s.slots(boardID)
	if _, ok, err := sl.shapes.Get(ctx); err != nil || ok {
		return err
	}
	doc := s.seed()
	return sl.shapes.Set(ctx, &doc.Shapes)
}

// Load reads the committed document and the saved gesture of a board. A
// board without stored shapes starts from the seed document.
func (s *SlotStore) Load(ctx context.Context, boardID string) (*document.Document, engine.Gesture, error) {
	sl := s.slots(boardID)

	shapes, ok, err := sl.shapes.Get(ctx)
	if err != nil {
		return nil, engine.Gesture{}, err
	}
	if !ok {
		return s.seed(), engine.Gesture{}, nil
	}

	doc := &document.Document{Shapes: shapes}
	group, ok, err := sl.group.Get(ctx)
	if err != nil {
		return nil, engine.Gesture{}, err
	}
	if ok {
		doc.Group = &group
	}

	gesture, _, err := sl.gesture.Get(ctx)
	if err != nil {
		return nil, engine.Gesture{}, err
	}
	return doc, gesture, nil
}

// Save writes all three slots of a board.
func (s *SlotStore) Save(ctx context.Context, boardID string, doc *document.Document, gesture engine.Gesture) error {
	sl := s.slots(boardID)

	shapes := doc.Shapes
	if shapes == nil {
		shapes = []shape.Shape{}
	}
	if err := sl.shapes.Set(ctx, &shapes); err != nil {
		return err
	}
	if err := sl.group.Set(ctx, doc.Group); err != nil {
		return err
	}

	var g *engine.Gesture
	if !gesture.IsIdle() {
		g = &gesture
	}
	return sl.gesture.Set(ctx, g)
}

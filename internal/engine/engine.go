package engine

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/selection"
	"github.com/inamate/whiteboard/internal/shape"
)

// Engine owns a board's shapes, its selection group and the pointer gesture
// in progress. It turns pointer events and UI commands into shape mutations
// and answers render and hit-test queries.
//
// Engine is not safe for concurrent use. Callers feed it from a single
// goroutine; every operation completes before the next one starts.
type Engine struct {
	store   *shape.Store
	groups  selection.Manager
	gesture Gesture

	// Color source for created shapes
	newColor func() string

	// Bumped on every observable change
	version uint64
}

// NewEngine creates an engine with an empty board.
func NewEngine() *Engine {
	return &Engine{
		store:    shape.NewStore(),
		newColor: shape.PastelColor,
	}
}

// --- Document ---

// LoadDocument replaces the committed state and drops any gesture.
func (e *Engine) LoadDocument(doc *document.Document) {
	if doc == nil {
		doc = document.NewEmptyDocument()
	}
	e.store.Replace(doc.Shapes)
	e.groups.Set(doc.Group)
	e.groups.Reconcile(e.store.List())
	e.gesture = Gesture{}
	e.touch()
}

// LoadDocumentJSON decodes and loads a document.
func (e *Engine) LoadDocumentJSON(data string) error {
	var doc document.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return err
	}
	e.LoadDocument(&doc)
	return nil
}

// Document returns a snapshot of the committed state.
func (e *Engine) Document() *document.Document {
	return &document.Document{
		Shapes: e.store.List(),
		Group:  e.groups.Active(),
	}
}

// DocumentJSON returns the committed state as JSON.
func (e *Engine) DocumentJSON() string {
	data, _ := json.Marshal(e.Document())
	return string(data)
}

// --- Gesture ---

// Gesture returns a copy of the gesture in progress.
func (e *Engine) Gesture() Gesture {
	return e.gesture.Clone()
}

// RestoreGesture resumes a previously saved gesture. Working copies whose
// shape no longer exists are discarded.
func (e *Engine) RestoreGesture(g Gesture) {
	g = g.Clone()
	switch g.Mode {
	case ModeResizing:
		if _, ok := e.store.Get(g.Resizing.ID); !ok {
			g = Gesture{}
		}
	case ModeDragging:
		for id := range g.Dragging {
			if _, ok := e.store.Get(id); !ok {
				delete(g.Dragging, id)
			}
		}
		if len(g.Dragging) == 0 {
			g = Gesture{}
		}
	}
	e.gesture = g
	e.touch()
}

// CancelGesture abandons the gesture in progress without committing it.
func (e *Engine) CancelGesture() {
	if e.gesture.IsIdle() {
		return
	}
	e.gesture = Gesture{}
	e.touch()
}

// Mode returns the current interaction state.
func (e *Engine) Mode() Mode {
	return e.gesture.Mode
}

// --- Queries ---

// Shapes returns the committed shapes in z-order.
func (e *Engine) Shapes() []shape.Shape {
	return e.store.List()
}

// SelectionGroup returns a copy of the active selection group, or nil.
func (e *Engine) SelectionGroup() *selection.Group {
	return e.groups.Active()
}

// HitTest returns the id of the first shape whose body contains (x, y), or
// the empty string.
func (e *Engine) HitTest(x, y float64) string {
	sh, ok := e.store.FindAt(x, y)
	if !ok {
		return ""
	}
	return sh.ID
}

// Version increases whenever committed or transient state changes.
func (e *Engine) Version() uint64 {
	return e.version
}

func (e *Engine) touch() {
	e.version++
}

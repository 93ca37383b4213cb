package engine

import (
	"encoding/json"
	"testing"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/selection"
	"github.com/inamate/whiteboard/internal/shape"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

func rect(x, y, w, h float64) geometry.Rect {
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}
}

// newTestEngine loads shapes A{20,20,100,50} and B{150,100,120,30}.
func newTestEngine(t *testing.T, extra ...shape.Shape) *Engine {
	t.Helper()
	e := NewEngine()
	shapes := []shape.Shape{
		{ID: "A", Rect: rect(20, 20, 100, 50), Color: "#aaaaaa"},
		{ID: "B", Rect: rect(150, 100, 120, 30), Color: "#bbbbbb"},
	}
	e.LoadDocument(&document.Document{Shapes: append(shapes, extra...)})
	return e
}

func mustShape(t *testing.T, e *Engine, id string) shape.Shape {
	t.Helper()
	for _, sh := range e.Shapes() {
		if sh.ID == id {
			return sh
		}
	}
	t.Fatalf("shape %s not found", id)
	return shape.Shape{}
}

func groupIDs(e *Engine) []string {
	return e.SelectionGroup().IDs()
}

func TestRubberBandSelectsEnclosedShapes(t *testing.T) {
	e := newTestEngine(t)

	e.PointerDown(pt(0, 0))
	if e.Mode() != ModeSelecting {
		t.Fatalf("expected selecting, got %v", e.Mode())
	}
	e.PointerMove(pt(60, 40))
	e.PointerMove(pt(130, 80))
	if g := e.Gesture(); g.Selection != rect(0, 0, 130, 80) {
		t.Fatalf("unexpected selection rect %+v", g.Selection)
	}
	e.PointerUp(pt(130, 80))

	if e.Mode() != ModeIdle {
		t.Fatalf("expected idle after pointer up")
	}
	ids := groupIDs(e)
	if len(ids) != 1 || ids[0] != "A" {
		t.Fatalf("expected group {A}, got %v", ids)
	}
	if g := e.SelectionGroup(); g.Selection != rect(0, 0, 130, 80) {
		t.Fatalf("unexpected group selection %+v", g.Selection)
	}
}

func TestRubberBandDrawnBackward(t *testing.T) {
	e := newTestEngine(t)

	e.PointerDown(pt(300, 200))
	e.PointerMove(pt(140, 90))
	if g := e.Gesture(); g.Selection.Width >= 0 || g.Selection.Height >= 0 {
		t.Fatalf("selection must not be normalized while drawing: %+v", g.Selection)
	}
	e.PointerUp(pt(140, 90))

	ids := groupIDs(e)
	if len(ids) != 1 || ids[0] != "B" {
		t.Fatalf("expected group {B}, got %v", ids)
	}
}

func TestEmptyRubberBandClearsGroup(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(25, 25))
	e.PointerUp(pt(25, 25))
	if e.SelectionGroup() == nil {
		t.Fatalf("expected click selection first")
	}

	e.PointerDown(pt(500, 500))
	e.PointerMove(pt(510, 510))
	e.PointerUp(pt(510, 510))
	if e.SelectionGroup() != nil {
		t.Fatalf("expected cleared group, got %v", groupIDs(e))
	}
}

func TestDragSingleShapeInTwoSteps(t *testing.T) {
	e := newTestEngine(t)

	e.PointerDown(pt(25, 25))
	if e.Mode() != ModeDragging {
		t.Fatalf("expected dragging, got %v", e.Mode())
	}
	e.PointerMove(pt(75, 75))
	e.PointerMove(pt(125, 125))

	if a := mustShape(t, e, "A"); a.X != 20 || a.Y != 20 {
		t.Fatalf("store must not change before pointer up: %+v", a.Rect)
	}

	e.PointerUp(pt(125, 125))

	a := mustShape(t, e, "A")
	if a.X != 120 || a.Y != 120 || a.Width != 100 || a.Height != 50 {
		t.Fatalf("unexpected A after drag: %+v", a.Rect)
	}
	if b := mustShape(t, e, "B"); b.Rect != rect(150, 100, 120, 30) {
		t.Fatalf("B must not move: %+v", b.Rect)
	}
}

func TestGroupDragMovesEveryMember(t *testing.T) {
	e := newTestEngine(t, shape.Shape{ID: "C", Rect: rect(400, 400, 20, 20)})

	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(300, 200))
	e.PointerUp(pt(300, 200))
	if ids := groupIDs(e); len(ids) != 2 {
		t.Fatalf("expected group {A,B}, got %v", ids)
	}

	e.PointerDown(pt(25, 25))
	if g := e.Gesture(); len(g.Dragging) != 2 {
		t.Fatalf("expected both members in the drag set, got %d", len(g.Dragging))
	}
	e.PointerMove(pt(35, 35))
	e.PointerUp(pt(35, 35))

	if a := mustShape(t, e, "A"); a.X != 30 || a.Y != 30 {
		t.Fatalf("unexpected A %+v", a.Rect)
	}
	if b := mustShape(t, e, "B"); b.X != 160 || b.Y != 110 {
		t.Fatalf("unexpected B %+v", b.Rect)
	}
	if c := mustShape(t, e, "C"); c.X != 400 || c.Y != 400 {
		t.Fatalf("C is not in the group and must not move: %+v", c.Rect)
	}
	if ids := groupIDs(e); len(ids) != 2 {
		t.Fatalf("group drag must keep the group, got %v", ids)
	}
	if g := e.SelectionGroup(); g.Shapes["A"].X != 30 {
		t.Fatalf("group snapshot not reconciled: %+v", g.Shapes["A"])
	}
}

func TestDragOfNonMemberIgnoresGroup(t *testing.T) {
	e := newTestEngine(t, shape.Shape{ID: "C", Rect: rect(400, 400, 20, 20)})
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(300, 200))
	e.PointerUp(pt(300, 200))

	e.PointerDown(pt(405, 405))
	if g := e.Gesture(); len(g.Dragging) != 1 {
		t.Fatalf("expected only C in the drag set, got %d", len(g.Dragging))
	}
	e.PointerMove(pt(415, 415))
	e.PointerUp(pt(415, 415))
	if a := mustShape(t, e, "A"); a.X != 20 {
		t.Fatalf("A must not move")
	}
}

func TestClickSelectsSingleShape(t *testing.T) {
	e := newTestEngine(t)

	e.PointerDown(pt(200, 110))
	e.PointerUp(pt(200, 110))

	ids := groupIDs(e)
	if len(ids) != 1 || ids[0] != "B" {
		t.Fatalf("expected group {B}, got %v", ids)
	}
	if g := e.SelectionGroup(); g.Selection != rect(150, 100, 120, 30) {
		t.Fatalf("single selection must use the shape geometry: %+v", g.Selection)
	}
	if b := mustShape(t, e, "B"); b.Rect != rect(150, 100, 120, 30) {
		t.Fatalf("a click must not move the shape: %+v", b.Rect)
	}
}

func TestClickOnGroupMemberCollapsesGroup(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(300, 200))
	e.PointerUp(pt(300, 200))

	e.PointerDown(pt(25, 25))
	e.PointerUp(pt(25, 25))

	ids := groupIDs(e)
	if len(ids) != 1 || ids[0] != "A" {
		t.Fatalf("expected group {A}, got %v", ids)
	}
}

func TestResizeFromHandle(t *testing.T) {
	e := newTestEngine(t)

	e.PointerDown(pt(115, 65))
	if e.Mode() != ModeResizing {
		t.Fatalf("expected resizing, got %v", e.Mode())
	}
	e.PointerMove(pt(135, 85))
	e.PointerUp(pt(135, 85))

	a := mustShape(t, e, "A")
	if a.Rect != rect(20, 20, 120, 70) {
		t.Fatalf("unexpected A after resize: %+v", a.Rect)
	}
	if e.SelectionGroup() != nil {
		t.Fatalf("resize must not change the selection")
	}
}

func TestResizePastOriginIsNormalizedOnCommit(t *testing.T) {
	e := newTestEngine(t)

	e.PointerDown(pt(120, 70))
	e.PointerMove(pt(0, 0))
	if g := e.Gesture(); g.Resizing.Width != -20 || g.Resizing.Height != -20 {
		t.Fatalf("working copy may go negative while resizing: %+v", g.Resizing.Rect)
	}
	e.PointerUp(pt(0, 0))

	a := mustShape(t, e, "A")
	if a.Rect != rect(0, 0, 20, 20) {
		t.Fatalf("expected normalized geometry, got %+v", a.Rect)
	}
}

func TestHandleWinsOverOtherBodies(t *testing.T) {
	e := NewEngine()
	e.LoadDocument(&document.Document{Shapes: []shape.Shape{
		{ID: "under", Rect: rect(0, 0, 200, 200)},
		{ID: "over", Rect: rect(50, 50, 50, 50)},
	}})
	e.PointerDown(pt(95, 95))
	if e.Mode() != ModeResizing || e.Gesture().Resizing.ID != "over" {
		t.Fatalf("expected resize of over, got %v %q", e.Mode(), e.Gesture().Resizing.ID)
	}
}

func TestPointerMoveWhileIdleIsNoop(t *testing.T) {
	e := newTestEngine(t)
	before := e.Version()
	e.PointerMove(pt(50, 50))
	if e.Version() != before || e.Mode() != ModeIdle {
		t.Fatalf("idle move must not change anything")
	}
}

func TestPointerDownDropsStaleGesture(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(25, 25))
	e.PointerMove(pt(75, 75))

	e.PointerDown(pt(600, 600))
	if e.Mode() != ModeSelecting {
		t.Fatalf("expected a fresh selecting gesture")
	}
	e.PointerUp(pt(600, 600))
	if a := mustShape(t, e, "A"); a.X != 20 {
		t.Fatalf("dropped drag must not be committed: %+v", a.Rect)
	}
}

func TestDeleteSelectionRemovesShapesAndGroup(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(130, 80))
	e.PointerUp(pt(130, 80))

	removed := e.DeleteSelection()
	if len(removed) != 1 || removed[0] != "A" {
		t.Fatalf("unexpected removed ids %v", removed)
	}
	if e.SelectionGroup() != nil {
		t.Fatalf("group must be cleared")
	}
	for _, sh := range e.Shapes() {
		if sh.ID == "A" {
			t.Fatalf("A still stored")
		}
	}
	if id := e.HitTest(25, 25); id == "A" {
		t.Fatalf("hit test still reports A")
	}
	if len(e.Shapes()) != 1 {
		t.Fatalf("expected B to remain")
	}
}

func TestDeleteSelectionWithoutGroup(t *testing.T) {
	e := newTestEngine(t)
	if removed := e.DeleteSelection(); len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removed)
	}
	if len(e.Shapes()) != 2 {
		t.Fatalf("shapes must survive")
	}
}

func TestDeleteShapesKeepsGroupAndGestureConsistent(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(300, 200))
	e.PointerUp(pt(300, 200))

	e.PointerDown(pt(25, 25))
	e.DeleteShapes("A", "unknown")

	if ids := groupIDs(e); len(ids) != 1 || ids[0] != "B" {
		t.Fatalf("expected group {B}, got %v", ids)
	}
	g := e.Gesture()
	if _, ok := g.Dragging["A"]; ok {
		t.Fatalf("deleted shape still dragged")
	}
	e.PointerMove(pt(35, 35))
	e.PointerUp(pt(35, 35))
	if b := mustShape(t, e, "B"); b.X != 160 {
		t.Fatalf("remaining member should still be dragged: %+v", b.Rect)
	}
}

func TestCreateShapeAppendsAndClearsGroup(t *testing.T) {
	e := newTestEngine(t)
	e.newColor = func() string { return "#123456" }
	e.PointerDown(pt(25, 25))
	e.PointerUp(pt(25, 25))

	sh := e.CreateShape()
	if sh.Rect != DefaultShapeRect || sh.Color != "#123456" || sh.ID == "" {
		t.Fatalf("unexpected created shape %+v", sh)
	}
	shapes := e.Shapes()
	if shapes[len(shapes)-1].ID != sh.ID {
		t.Fatalf("created shape must be on top")
	}
	if e.SelectionGroup() != nil {
		t.Fatalf("create must clear the group")
	}
}

func TestClearSelection(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(25, 25))
	e.PointerUp(pt(25, 25))
	e.ClearSelection()
	if e.SelectionGroup() != nil {
		t.Fatalf("expected no group")
	}
	if len(e.Shapes()) != 2 {
		t.Fatalf("clear selection must not delete shapes")
	}
}

func TestDocumentRoundTripRestoresGroup(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(25, 25))
	e.PointerUp(pt(25, 25))

	data := e.DocumentJSON()
	other := NewEngine()
	if err := other.LoadDocumentJSON(data); err != nil {
		t.Fatalf("LoadDocumentJSON: %v", err)
	}
	if ids := groupIDs(other); len(ids) != 1 || ids[0] != "A" {
		t.Fatalf("group lost in round trip: %v", ids)
	}
	if err := other.LoadDocumentJSON("{"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadDocumentDropsStaleGroupMembers(t *testing.T) {
	e := NewEngine()
	e.LoadDocument(&document.Document{
		Shapes: []shape.Shape{{ID: "A", Rect: rect(0, 0, 10, 10)}},
		Group: &selection.Group{Shapes: map[string]shape.Shape{
			"A":    {ID: "A"},
			"gone": {ID: "gone"},
		}},
	})
	if ids := groupIDs(e); len(ids) != 1 || ids[0] != "A" {
		t.Fatalf("expected group {A}, got %v", ids)
	}
}

func TestGestureSurvivesJSON(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(25, 25))
	e.PointerMove(pt(35, 45))

	data, err := json.Marshal(e.Gesture())
	if err != nil {
		t.Fatalf("marshal gesture: %v", err)
	}
	var g Gesture
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("unmarshal gesture: %v", err)
	}

	other := newTestEngine(t)
	other.RestoreGesture(g)
	other.PointerUp(pt(35, 45))
	if a := mustShape(t, other, "A"); a.X != 30 || a.Y != 40 {
		t.Fatalf("restored drag not committed: %+v", a.Rect)
	}
}

func TestRestoreGestureDiscardsMissingShapes(t *testing.T) {
	e := newTestEngine(t)
	e.RestoreGesture(Gesture{Mode: ModeResizing, Resizing: shape.Shape{ID: "gone"}})
	if e.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %v", e.Mode())
	}
	e.RestoreGesture(Gesture{Mode: ModeDragging, Dragging: map[string]DragItem{"gone": {}}})
	if e.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %v", e.Mode())
	}
}

func TestCancelGesture(t *testing.T) {
	e := newTestEngine(t)
	e.PointerDown(pt(25, 25))
	e.PointerMove(pt(50, 50))
	e.CancelGesture()
	if e.Mode() != ModeIdle {
		t.Fatalf("expected idle")
	}
	if a := mustShape(t, e, "A"); a.X != 20 {
		t.Fatalf("cancelled drag must not be committed")
	}
}

func TestModeText(t *testing.T) {
	for _, m := range []Mode{ModeIdle, ModeSelecting, ModeResizing, ModeDragging} {
		text, _ := m.MarshalText()
		var back Mode
		if err := back.UnmarshalText(text); err != nil || back != m {
			t.Fatalf("mode %v did not round trip: %v", m, err)
		}
	}
	var m Mode
	if err := m.UnmarshalText([]byte("flying")); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

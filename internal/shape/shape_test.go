package shape

import (
	"encoding/json"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/inamate/whiteboard/internal/geometry"
)

func rect(x, y, w, h float64) geometry.Rect {
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}
}

func TestCreateAssignsFreshIDsInOrder(t *testing.T) {
	s := NewStore()
	a := s.Create(Shape{Rect: rect(0, 0, 10, 10), ID: "ignored"})
	b := s.Create(Shape{Rect: rect(5, 5, 10, 10)})
	if a.ID == "" || a.ID == "ignored" || a.ID == b.ID {
		t.Fatalf("unexpected ids %q %q", a.ID, b.ID)
	}
	list := s.List()
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestNewStoreDropsDuplicateIDs(t *testing.T) {
	s := NewStore(
		Shape{ID: "a", Rect: rect(0, 0, 1, 1)},
		Shape{ID: "a", Rect: rect(9, 9, 1, 1)},
		Shape{ID: "b"},
		Shape{},
	)
	if s.Len() != 2 {
		t.Fatalf("expected 2 shapes, got %d", s.Len())
	}
	got, _ := s.Get("a")
	if got.X != 0 {
		t.Fatalf("expected first occurrence to win, got %+v", got)
	}
}

func TestUpdateReplacesGeometryOnly(t *testing.T) {
	s := NewStore(Shape{ID: "a", Color: "#fff", Rect: rect(0, 0, 10, 10)})
	s.Update(map[string]Shape{
		"a":       {ID: "a", Color: "#000", Rect: rect(4, 5, 6, 7)},
		"missing": {ID: "missing", Rect: rect(1, 1, 1, 1)},
	})
	got, ok := s.Get("a")
	if !ok {
		t.Fatalf("shape a missing")
	}
	if got.Rect != rect(4, 5, 6, 7) || got.Color != "#fff" {
		t.Fatalf("unexpected shape after update: %+v", got)
	}
	if s.Len() != 1 {
		t.Fatalf("unknown id must not be inserted")
	}
}

func TestDeleteByPredicate(t *testing.T) {
	s := NewStore(Shape{ID: "a"}, Shape{ID: "b"}, Shape{ID: "c"})
	removed := s.Delete(func(sh Shape) bool { return sh.ID != "b" })
	if len(removed) != 2 || removed[0] != "a" || removed[1] != "c" {
		t.Fatalf("unexpected removed ids %v", removed)
	}
	if _, ok := s.Get("a"); ok {
		t.Fatalf("a should be gone")
	}
	if s.Len() != 1 {
		t.Fatalf("expected one shape left")
	}
	if removed := s.Delete(func(Shape) bool { return false }); len(removed) != 0 {
		t.Fatalf("expected nothing removed")
	}
}

func TestListIsASnapshot(t *testing.T) {
	s := NewStore(Shape{ID: "a", Rect: rect(0, 0, 10, 10)})
	list := s.List()
	list[0].X = 500
	got, _ := s.Get("a")
	if got.X != 0 {
		t.Fatalf("mutating a snapshot leaked into the store")
	}
}

func TestFindAtFirstMatchWins(t *testing.T) {
	s := NewStore(
		Shape{ID: "bottom", Rect: rect(0, 0, 100, 100)},
		Shape{ID: "top", Rect: rect(50, 50, 100, 100)},
	)
	got, ok := s.FindAt(75, 75)
	if !ok || got.ID != "bottom" {
		t.Fatalf("expected bottom, got %+v %v", got, ok)
	}
	if _, ok := s.FindAt(500, 500); ok {
		t.Fatalf("expected miss")
	}
	h, ok := s.FindHandleAt(145, 145)
	if !ok || h.ID != "top" {
		t.Fatalf("expected top handle, got %+v %v", h, ok)
	}
}

func TestShapeJSONIsFlat(t *testing.T) {
	data, err := json.Marshal(Shape{ID: "a", Color: "#abcdef", Rect: rect(1, 2, 3, 4)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"x":1,"y":2,"width":3,"height":4,"id":"a","color":"#abcdef"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestPastelColorIsLight(t *testing.T) {
	for i := 0; i < 50; i++ {
		hex := PastelColor()
		c, err := colorful.Hex(hex)
		if err != nil {
			t.Fatalf("invalid color %q: %v", hex, err)
		}
		_, _, l := c.Hsl()
		if l < 0.74 {
			t.Fatalf("color %q too dark (l=%v)", hex, l)
		}
	}
}

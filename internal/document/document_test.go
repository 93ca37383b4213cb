package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inamate/whiteboard/internal/selection"
)

func TestSampleDocumentHasTwoShapes(t *testing.T) {
	doc := NewSampleDocument()
	if len(doc.Shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(doc.Shapes))
	}
	if doc.Shapes[0].ID == doc.Shapes[1].ID {
		t.Fatalf("sample shapes share an id")
	}
	if doc.Shapes[0].X != 100 || doc.Shapes[1].Width != 120 {
		t.Fatalf("unexpected sample geometry: %+v", doc.Shapes)
	}
	if doc.Group != nil {
		t.Fatalf("sample has no selection")
	}
}

func TestParseSeed(t *testing.T) {
	doc, err := ParseSeed([]byte(`
shapes:
  - {x: 10, y: 20, width: 30, height: 40, color: "#ff0000"}
  - {x: 100, y: 100, width: -50, height: 20}
`))
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(doc.Shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(doc.Shapes))
	}
	if doc.Shapes[0].Color != "#ff0000" {
		t.Fatalf("explicit color lost: %q", doc.Shapes[0].Color)
	}
	if doc.Shapes[1].Color == "" {
		t.Fatalf("expected generated color")
	}
	if doc.Shapes[1].X != 50 || doc.Shapes[1].Width != 50 {
		t.Fatalf("expected normalized geometry, got %+v", doc.Shapes[1].Rect)
	}
}

func TestParseSeedRejectsDegenerateShapes(t *testing.T) {
	if _, err := ParseSeed([]byte("shapes:\n  - {x: 1, y: 1, width: 0, height: 5}\n")); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseSeed([]byte("shapes: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("shapes:\n  - {x: 1, y: 2, width: 3, height: 4}\n"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	doc, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(doc.Shapes) != 1 {
		t.Fatalf("expected one shape")
	}
	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := NewSampleDocument()
	doc.Group = selection.FromSingle(doc.Shapes[0])
	cp := doc.Clone()
	cp.Shapes[0].X = 999
	delete(cp.Group.Shapes, doc.Shapes[0].ID)
	if doc.Shapes[0].X == 999 || doc.Group.Len() != 1 {
		t.Fatalf("clone shares state with original")
	}
}

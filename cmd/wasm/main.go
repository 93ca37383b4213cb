//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/geometry"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()
	eng.LoadDocument(document.NewSampleDocument())

	// Create the engine API object
	whiteboardEngine := js.Global().Get("Object").New()

	// --- Pointer input ---
	whiteboardEngine.Set("pointerDown", js.FuncOf(pointerDown))
	whiteboardEngine.Set("pointerMove", js.FuncOf(pointerMove))
	whiteboardEngine.Set("pointerUp", js.FuncOf(pointerUp))

	// --- Commands (frontend → engine) ---
	whiteboardEngine.Set("createShape", js.FuncOf(createShape))
	whiteboardEngine.Set("deleteShape", js.FuncOf(deleteShape))
	whiteboardEngine.Set("clearSelection", js.FuncOf(clearSelection))
	whiteboardEngine.Set("loadDocument", js.FuncOf(loadDocument))
	whiteboardEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))

	// --- Queries (frontend ← engine) ---
	whiteboardEngine.Set("render", js.FuncOf(render))
	whiteboardEngine.Set("hitTest", js.FuncOf(hitTest))
	whiteboardEngine.Set("getDocument", js.FuncOf(getDocument))
	whiteboardEngine.Set("getSelection", js.FuncOf(getSelection))
	whiteboardEngine.Set("getMode", js.FuncOf(getMode))
	whiteboardEngine.Set("getVersion", js.FuncOf(getVersion))

	// Register on global scope
	js.Global().Set("whiteboardEngine", whiteboardEngine)

	// Signal that WASM is ready
	js.Global().Set("whiteboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func pointArg(args []js.Value) (geometry.Point, bool) {
	if len(args) < 2 {
		return geometry.Point{}, false
	}
	return geometry.Point{X: args[0].Float(), Y: args[1].Float()}, true
}

// --- Pointer Handlers ---

func pointerDown(this js.Value, args []js.Value) interface{} {
	if p, ok := pointArg(args); ok {
		eng.PointerDown(p)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if p, ok := pointArg(args); ok {
		eng.PointerMove(p)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if p, ok := pointArg(args); ok {
		eng.PointerUp(p)
	}
	return nil
}

// --- Command Handlers ---

func createShape(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CreateShape().ID)
}

// deleteShape removes the given shape ids, or the selection group when
// called without arguments.
func deleteShape(this js.Value, args []js.Value) interface{} {
	var removed []string
	if len(args) == 0 {
		removed = eng.DeleteSelection()
	} else {
		ids := make([]string, len(args))
		for i, a := range args {
			ids[i] = a.String()
		}
		removed = eng.DeleteShapes(ids...)
	}
	return js.ValueOf(len(removed))
}

func clearSelection(this js.Value, args []js.Value) interface{} {
	eng.ClearSelection()
	return nil
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	if err := eng.LoadDocumentJSON(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	eng.LoadDocument(document.NewSampleDocument())
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.RenderJSON())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	x := args[0].Float()
	y := args[1].Float()
	return js.ValueOf(eng.HitTest(x, y))
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DocumentJSON())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	ids := eng.SelectionGroup().IDs()
	if ids == nil {
		ids = []string{}
	}
	data, _ := json.Marshal(ids)
	return js.ValueOf(string(data))
}

func getMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Mode().String())
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(float64(eng.Version()))
}

package engine

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/geometry"
)

// Draw operations understood by the canvas front end.
const (
	OpClear      = "clear"
	OpStrokeRect = "strokeRect"
	OpFillRect   = "fillRect"
)

// Render styles.
const (
	ColorOutline  = "grey"
	ColorHandle   = "black"
	ColorSelected = "black"

	LineWidthNormal   = 1.0
	LineWidthSelected = 3.0
)

// DrawCommand represents a single drawing operation for the frontend to execute
// on a Canvas2D context.
type DrawCommand struct {
	Op        string  `json:"op"`
	ShapeID   string  `json:"shapeId,omitempty"` // For hit correlation
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Fill      string  `json:"fill,omitempty"`
	Stroke    string  `json:"stroke,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
}

// Render compiles the current committed and transient state into a command
// buffer in painter's order. It never mutates the engine.
//
// The buffer starts with a clear, then outlines the rubber band, the resize
// target with its handle and every dragged shape. Remaining shapes are filled
// with their color, marked with their handle and outlined, heavier when they
// belong to the selection group.
func (e *Engine) Render() []DrawCommand {
	commands := []DrawCommand{{Op: OpClear}}
	g := e.gesture

	switch g.Mode {
	case ModeSelecting:
		commands = append(commands, strokeRect("", g.Selection, ColorOutline, LineWidthNormal))

	case ModeResizing:
		commands = append(commands,
			strokeRect(g.Resizing.ID, g.Resizing.Rect, ColorOutline, LineWidthNormal),
			fillRect(g.Resizing.ID, g.Resizing.Handle(), ColorHandle),
		)
	}

	shapes := e.store.List()

	if g.Mode == ModeDragging {
		for _, sh := range shapes {
			if item, ok := g.Dragging[sh.ID]; ok {
				commands = append(commands, strokeRect(sh.ID, item.Shape.Rect, item.Shape.Color, LineWidthNormal))
			}
		}
	}

	for _, sh := range shapes {
		if g.Involves(sh.ID) {
			continue
		}
		stroke, width := ColorOutline, LineWidthNormal
		if e.groups.Has(sh.ID) {
			stroke, width = ColorSelected, LineWidthSelected
		}
		commands = append(commands,
			fillRect(sh.ID, sh.Rect, sh.Color),
			fillRect(sh.ID, sh.Handle(), ColorHandle),
			strokeRect(sh.ID, sh.Rect, stroke, width),
		)
	}

	return commands
}

// RenderJSON renders and serializes the command buffer.
func (e *Engine) RenderJSON() string {
	result, _ := DrawCommandsToJSON(e.Render())
	return result
}

func strokeRect(id string, r geometry.Rect, color string, width float64) DrawCommand {
	return DrawCommand{
		Op: OpStrokeRect, ShapeID: id,
		X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
		Stroke: color, LineWidth: width,
	}
}

func fillRect(id string, r geometry.Rect, color string) DrawCommand {
	return DrawCommand{
		Op: OpFillRect, ShapeID: id,
		X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
		Fill: color,
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

package collab

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/engine"
)

type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Pointer input
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"

	// UI commands
	TypeShapeCreate    = "shape.create"
	TypeShapeDelete    = "shape.delete"
	TypeSelectionClear = "selection.clear"

	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Rendering
	TypeFrame = "frame"
)

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShapeDeletePayload names the shapes to delete. Without ids the selection
// group is deleted.
type ShapeDeletePayload struct {
	IDs []string `json:"ids,omitempty"`
}

type FramePayload struct {
	Version  uint64               `json:"version"`
	Commands []engine.DrawCommand `json:"commands"`
}

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	BoardID  string `json:"boardId"`
	UserID   string `json:"userId"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

type PresencePayload struct {
	Cursor *CursorPos `json:"cursor,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

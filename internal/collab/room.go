package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/geometry"
)

var ErrRoomClosed = errors.New("room closed")

const saveTimeout = 5 * time.Second

type inbound struct {
	client *Client
	msg    *Message
}

// Room is the live session of one board. A single goroutine owns the
// engine: it applies client messages in arrival order, renders on the
// redraw tick and saves on the persist tick.
//
// One pointer gesture runs at a time per board. The client whose
// pointer.down started it holds it until pointer.up, and pointer events
// from everyone else are dropped meanwhile.
type Room struct {
	boardID   string
	engine    *engine.Engine
	persister Persister
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager

	// Client holding the active gesture
	owner string

	renderedVersion uint64
	savedVersion    uint64
	seq             int64

	redrawInterval  time.Duration
	persistInterval time.Duration

	inbox     chan inbound
	join      chan *Client
	leave     chan *Client
	snapshots chan chan *document.Document
	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

func newRoom(boardID string, eng *engine.Engine, persister Persister, opts Options) *Room {
	return &Room{
		boardID:         boardID,
		engine:          eng,
		persister:       persister,
		clients:         make(map[string]*Client),
		presence:        NewPresenceManager(),
		redrawInterval:  opts.RedrawInterval,
		persistInterval: opts.PersistInterval,
		inbox:           make(chan inbound),
		join:            make(chan *Client),
		leave:           make(chan *Client),
		snapshots:       make(chan chan *document.Document),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Join adds a client to the room. It returns ErrRoomClosed once the room
// has stopped.
func (r *Room) Join(c *Client) error {
	c.room = r
	select {
	case r.join <- c:
		return nil
	case <-r.done:
		return ErrRoomClosed
	}
}

// Leave removes a client. It is a no-op once the room has stopped.
func (r *Room) Leave(c *Client) {
	select {
	case r.leave <- c:
	case <-r.done:
	}
}

// Submit hands a client message to the room goroutine. It returns after
// the room has taken the message, so messages from one caller are applied
// in order.
func (r *Room) Submit(c *Client, msg *Message) {
	select {
	case r.inbox <- inbound{client: c, msg: msg}:
	case <-r.done:
	}
}

// Snapshot returns the committed document as the room currently sees it.
func (r *Room) Snapshot(ctx context.Context) (*document.Document, error) {
	reply := make(chan *document.Document, 1)
	select {
	case r.snapshots <- reply:
	case <-r.done:
		return nil, ErrRoomClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case doc := <-reply:
		return doc, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the room after a final save and closes every client queue.
func (r *Room) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

func (r *Room) run() {
	redraw := time.NewTicker(r.redrawInterval)
	persist := time.NewTicker(r.persistInterval)
	defer func() {
		redraw.Stop()
		persist.Stop()
		close(r.done)
	}()

	for {
		select {
		case c := <-r.join:
			r.addClient(c)
		case c := <-r.leave:
			r.removeClient(c)
		case in := <-r.inbox:
			r.handleMessage(in.client, in.msg)
		case reply := <-r.snapshots:
			reply <- r.engine.Document()
		case <-redraw.C:
			r.broadcastFrame()
		case <-persist.C:
			r.save()
		case <-r.stop:
			r.save()
			for id, c := range r.clients {
				close(c.send)
				delete(r.clients, id)
			}
			return
		}
	}
}

func (r *Room) addClient(c *Client) {
	r.clients[c.ClientID] = c

	welcome, _ := json.Marshal(WelcomePayload{
		ClientID: c.ClientID,
		BoardID:  r.boardID,
		UserID:   c.UserID,
	})
	c.Send(&Message{Type: TypeWelcome, BoardID: r.boardID, Payload: welcome})
	c.Send(r.frameMessage())

	// Send current presence state to new client
	if stateMsg := r.presence.StateMessage(); stateMsg != nil {
		c.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{ClientID: c.ClientID, UserID: c.UserID})
	r.broadcast(&Message{
		Type:     TypePresenceJoin,
		ClientID: c.ClientID,
		UserID:   c.UserID,
		Payload:  joinPayload,
	}, c.ClientID)

	slog.Info("client joined", "board", r.boardID, "client", c.ClientID, "user", c.UserID)
}

func (r *Room) removeClient(c *Client) {
	if _, ok := r.clients[c.ClientID]; !ok {
		return
	}
	delete(r.clients, c.ClientID)
	close(c.send)
	r.presence.Remove(c.ClientID)

	if r.owner == c.ClientID {
		r.engine.CancelGesture()
		r.owner = ""
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{ClientID: c.ClientID, UserID: c.UserID})
	r.broadcast(&Message{
		Type:     TypePresenceLeave,
		ClientID: c.ClientID,
		UserID:   c.UserID,
		Payload:  leavePayload,
	}, "")

	slog.Info("client left", "board", r.boardID, "client", c.ClientID, "user", c.UserID)
}

func (r *Room) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		r.handlePointer(sender, msg)
	case TypeShapeCreate:
		r.engine.CreateShape()
	case TypeShapeDelete:
		r.handleShapeDelete(sender, msg)
	case TypeSelectionClear:
		r.engine.ClearSelection()
	case TypePresenceUpdate:
		r.handlePresenceUpdate(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(errorMessage("unknown message type"))
	}
}

func (r *Room) handlePointer(sender *Client, msg *Message) {
	var p PointerPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		slog.Warn("invalid pointer payload", "error", err, "client", sender.ClientID)
		sender.Send(errorMessage("invalid pointer payload"))
		return
	}
	pt := geometry.Point{X: p.X, Y: p.Y}

	switch msg.Type {
	case TypePointerDown:
		if r.gestureHeldByOther(sender) {
			sender.Send(errorMessage("another gesture is in progress"))
			return
		}
		r.owner = sender.ClientID
		r.engine.PointerDown(pt)
	case TypePointerMove:
		if r.holdsGesture(sender) {
			r.engine.PointerMove(pt)
		}
	case TypePointerUp:
		if r.holdsGesture(sender) {
			r.engine.PointerUp(pt)
			r.owner = ""
		}
	}
}

// holdsGesture reports whether sender may drive the active gesture. A
// gesture restored from storage has no owner and is adopted by the first
// client that continues it.
func (r *Room) holdsGesture(sender *Client) bool {
	if r.engine.Mode() == engine.ModeIdle {
		r.owner = ""
		return false
	}
	if r.owner == "" {
		r.owner = sender.ClientID
	}
	return r.owner == sender.ClientID
}

func (r *Room) gestureHeldByOther(sender *Client) bool {
	return r.engine.Mode() != engine.ModeIdle && r.owner != "" && r.owner != sender.ClientID
}

func (r *Room) handleShapeDelete(sender *Client, msg *Message) {
	var payload ShapeDeletePayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			slog.Warn("invalid delete payload", "error", err, "client", sender.ClientID)
			sender.Send(errorMessage("invalid delete payload"))
			return
		}
	}

	var removed []string
	if len(payload.IDs) == 0 {
		removed = r.engine.DeleteSelection()
	} else {
		removed = r.engine.DeleteShapes(payload.IDs...)
	}
	if r.engine.Mode() == engine.ModeIdle {
		r.owner = ""
	}
	slog.Debug("shapes deleted", "board", r.boardID, "count", len(removed))
}

func (r *Room) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	r.presence.Update(sender.ClientID, &presence)

	// Broadcast to other clients in room
	outPayload, _ := json.Marshal(presence)
	r.broadcast(&Message{
		Type:     TypePresenceUpdate,
		ClientID: sender.ClientID,
		UserID:   sender.UserID,
		Payload:  outPayload,
	}, sender.ClientID)
}

func (r *Room) frameMessage() *Message {
	payload, _ := json.Marshal(FramePayload{
		Version:  r.engine.Version(),
		Commands: r.engine.Render(),
	})
	return &Message{Type: TypeFrame, BoardID: r.boardID, Payload: payload}
}

// broadcastFrame renders and sends a frame when anything changed since the
// last one.
func (r *Room) broadcastFrame() {
	version := r.engine.Version()
	if version == r.renderedVersion || len(r.clients) == 0 {
		return
	}
	r.renderedVersion = version
	r.broadcast(r.frameMessage(), "")
}

func (r *Room) broadcast(msg *Message, excludeClientID string) {
	r.seq++
	msg.Seq = r.seq
	for id, c := range r.clients {
		if id != excludeClientID {
			c.Send(msg)
		}
	}
}

func (r *Room) save() {
	version := r.engine.Version()
	if version == r.savedVersion {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := r.persister.Save(ctx, r.boardID, r.engine.Document(), r.engine.Gesture()); err != nil {
		slog.Error("save board", "board", r.boardID, "error", err)
		return
	}
	r.savedVersion = version
	slog.Debug("board saved", "board", r.boardID, "version", version)
}

package collab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/engine"
)

var ErrHubStopped = errors.New("hub stopped")

// Persister loads and saves the state of a board.
type Persister interface {
	Load(ctx context.Context, boardID string) (*document.Document, engine.Gesture, error)
	Save(ctx context.Context, boardID string, doc *document.Document, gesture engine.Gesture) error
}

type Options struct {
	RedrawInterval  time.Duration
	PersistInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.RedrawInterval <= 0 {
		o.RedrawInterval = 10 * time.Millisecond
	}
	if o.PersistInterval <= 0 {
		o.PersistInterval = 2 * time.Second
	}
	return o
}

// Hub opens one Room per board on first use and keeps it until Stop.
type Hub struct {
	mu        sync.Mutex
	rooms     map[string]*Room // boardID -> room
	persister Persister
	opts      Options
	stopped   bool
}

func NewHub(persister Persister, opts Options) *Hub {
	return &Hub{
		rooms:     make(map[string]*Room),
		persister: persister,
		opts:      opts.withDefaults(),
	}
}

// Room returns the live room of a board, loading the board if needed.
func (h *Hub) Room(ctx context.Context, boardID string) (*Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return nil, ErrHubStopped
	}
	if room, ok := h.rooms[boardID]; ok {
		return room, nil
	}

	doc, gesture, err := h.persister.Load(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	if doc == nil {
		doc = document.NewEmptyDocument()
	}

	eng := engine.NewEngine()
	eng.LoadDocument(doc)
	eng.RestoreGesture(gesture)

	room := newRoom(boardID, eng, h.persister, h.opts)
	h.rooms[boardID] = room
	go room.run()

	slog.Info("room opened", "board", boardID, "shapes", len(doc.Shapes), "mode", eng.Mode())
	return room, nil
}

// Register joins a client to the room of its board.
func (h *Hub) Register(ctx context.Context, client *Client) error {
	room, err := h.Room(ctx, client.BoardID)
	if err != nil {
		return err
	}
	return room.Join(client)
}

// Document returns the committed document of a board. Open rooms answer
// with their live state; otherwise the stored state is read.
func (h *Hub) Document(ctx context.Context, boardID string) (*document.Document, error) {
	h.mu.Lock()
	room, ok := h.rooms[boardID]
	h.mu.Unlock()

	if ok {
		doc, err := room.Snapshot(ctx)
		if !errors.Is(err, ErrRoomClosed) {
			return doc, err
		}
	}

	doc, _, err := h.persister.Load(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	return doc, nil
}

// Stop closes every room. Each room saves its board before closing.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, room := range rooms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room.Close()
		}()
	}
	wg.Wait()
	slog.Info("hub stopped", "rooms", len(rooms))
}

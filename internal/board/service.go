package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inamate/whiteboard/internal/auth"
	"github.com/inamate/whiteboard/internal/state"
	"github.com/inamate/whiteboard/internal/typeid"
)

var (
	ErrNotFound  = errors.New("board not found")
	ErrForbidden = errors.New("forbidden")
)

const indexKey = "boards/index"

// Board is the public description of a whiteboard.
type Board struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Protected bool      `json:"protected"`
	CreatedAt time.Time `json:"createdAt"`
}

// meta is what is stored for a board.
type meta struct {
	Board
	PassphraseHash string `json:"passphraseHash,omitempty"`
}

// Service is the board registry.
type Service struct {
	backend state.Backend
	tokens  *auth.Service
	store   *SlotStore

	// Serializes read-modify-write of the index
	mu sync.Mutex
}

func NewService(backend state.Backend, tokens *auth.Service, store *SlotStore) *Service {
	return &Service{backend: backend, tokens: tokens, store: store}
}

func metaSlot(backend state.Backend, boardID string) state.Slot[meta] {
	return state.NewSlot[meta](backend, "boards/"+boardID+"/meta")
}

// Create registers a board and seeds its document. An empty passphrase
// creates an open board.
func (s *Service) Create(ctx context.Context, name, passphrase string) (*Board, error) {
	m := meta{Board: Board{
		ID:        typeid.NewBoardID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}}
	if passphrase != "" {
		hash, err := auth.HashPassphrase(passphrase)
		if err != nil {
			return nil, err
		}
		m.Protected = true
		m.PassphraseHash = hash
	}

	if err := metaSlot(s.backend, m.ID).Set(ctx, &m); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	if err := s.store.Seed(ctx, m.ID); err != nil {
		return nil, fmt.Errorf("seed board: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	index := state.NewSlot[[]string](s.backend, indexKey)
	ids, _, err := index.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read board index: %w", err)
	}
	ids = append(ids, m.ID)
	if err := index.Set(ctx, &ids); err != nil {
		return nil, fmt.Errorf("write board index: %w", err)
	}

	return &m.Board, nil
}

func (s *Service) Get(ctx context.Context, boardID string) (*Board, error) {
	m, err := s.getMeta(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return &m.Board, nil
}

// List returns every board in creation order.
func (s *Service) List(ctx context.Context) ([]Board, error) {
	ids, _, err := state.NewSlot[[]string](s.backend, indexKey).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards := make([]Board, 0, len(ids))
	for _, id := range ids {
		m, err := s.getMeta(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		boards = append(boards, m.Board)
	}
	return boards, nil
}

// Join checks the passphrase of a protected board and returns a share token
// for a fresh user id. Open boards accept any passphrase.
func (s *Service) Join(ctx context.Context, boardID, passphrase string) (string, error) {
	m, err := s.getMeta(ctx, boardID)
	if err != nil {
		return "", err
	}
	if m.Protected {
		if err := auth.CheckPassphrase(m.PassphraseHash, passphrase); err != nil {
			return "", err
		}
	}
	return s.tokens.IssueBoardToken(boardID, typeid.NewUserID())
}

// Authorize resolves the user behind a request to boardID. Protected boards
// require a valid token for that board. Open boards let anonymous callers in
// under a fresh user id.
func (s *Service) Authorize(ctx context.Context, boardID, token string) (string, error) {
	m, err := s.getMeta(ctx, boardID)
	if err != nil {
		return "", err
	}

	if token != "" {
		claims, err := s.tokens.ValidateBoardToken(token)
		if err == nil && claims.BoardID == boardID {
			return claims.UserID, nil
		}
	}

	if m.Protected {
		return "", ErrForbidden
	}
	return typeid.NewUserID(), nil
}

func (s *Service) getMeta(ctx context.Context, boardID string) (*meta, error) {
	m, ok, err := metaSlot(s.backend, boardID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

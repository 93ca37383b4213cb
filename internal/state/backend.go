// Package state persists named JSON slots. Each slot is one key in a
// key-value backend; the board layer keeps shapes, the selection group and
// the gesture in progress in separate slots so each can be saved on its own.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Backend when a key has never been written or
// has been deleted.
var ErrNotFound = errors.New("state: key not found")

// Backend stores opaque values by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Slot is a typed view over one backend key holding a JSON value.
type Slot[T any] struct {
	backend Backend
	key     string
}

// NewSlot returns the slot stored under key.
func NewSlot[T any](backend Backend, key string) Slot[T] {
	return Slot[T]{backend: backend, key: key}
}

// Key returns the backend key of the slot.
func (s Slot[T]) Key() string {
	return s.key
}

// Get loads the slot. The boolean is false when the slot is empty.
func (s Slot[T]) Get(ctx context.Context) (T, bool, error) {
	var v T
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("read %s: %w", s.key, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return v, true, nil
}

// Set stores v. A nil v empties the slot.
func (s Slot[T]) Set(ctx context.Context, v *T) error {
	if v == nil {
		if err := s.backend.Delete(ctx, s.key); err != nil {
			return fmt.Errorf("delete %s: %w", s.key, err)
		}
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

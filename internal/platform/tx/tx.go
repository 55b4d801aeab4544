package tx

import (
	"context"
	"sync"
)

// Manager wraps a read-modify-write boundary that must not interleave.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// Serial runs one fn at a time within a process.
type Serial struct {
	mu sync.Mutex
}

func NewSerial() *Serial {
	return &Serial{}
}

func (s *Serial) Within(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}

package services

import (
	"context"
	"errors"
	"sync"

	"direct-chat/internal/domain/message"
	"direct-chat/internal/repository"

	"github.com/google/uuid"
)

type emitted struct {
	connID  string
	event   string
	payload any
}

type fakeEmitter struct {
	mu    sync.Mutex
	calls []emitted
	err   error
}

func (f *fakeEmitter) Emit(_ context.Context, connID, event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, emitted{connID: connID, event: event, payload: payload})
	return f.err
}

func (f *fakeEmitter) Calls() []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emitted(nil), f.calls...)
}

var errStoreDown = errors.New("store down")

// failingMessageRepo wraps a repository and fails the chosen operations.
type failingMessageRepo struct {
	repository.MessageRepository
	failCreate bool
	failDelete bool
}

func (r *failingMessageRepo) Create(ctx context.Context, m *message.Message) error {
	if r.failCreate {
		return errStoreDown
	}
	return r.MessageRepository.Create(ctx, m)
}

func (r *failingMessageRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	if r.failDelete {
		return errStoreDown
	}
	return r.MessageRepository.HardDelete(ctx, id)
}

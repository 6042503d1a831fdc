package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

var _ repository.OutboxRepository = (*OutboxRepo)(nil)

// OutboxRepo es la bandeja de salida en memoria (modo local o tests).
type OutboxRepo struct {
	mu      sync.Mutex
	entries map[string]*entity.OutboxEntry
	lastErr string
}

// NewOutboxRepository construye la bandeja vacía.
func NewOutboxRepository() *OutboxRepo {
	return &OutboxRepo{entries: make(map[string]*entity.OutboxEntry)}
}

func (r *OutboxRepo) Append(_ context.Context, e *entity.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *OutboxRepo) Due(_ context.Context, now time.Time, limit int) ([]*entity.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.OutboxEntry
	for _, e := range r.entries {
		if e.State == entity.OutboxPending && !e.NextAttemptAt.After(now) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxRepo) MarkSent(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(e *entity.OutboxEntry) {
		e.State = entity.OutboxSent
		e.SentAt = &at
		e.LastError = ""
	})
}

func (r *OutboxRepo) MarkRetry(_ context.Context, id string, attempts int, next time.Time, lastErr string) error {
	return r.update(id, func(e *entity.OutboxEntry) {
		e.Attempts = attempts
		e.NextAttemptAt = next
		e.LastError = lastErr
		r.lastErr = lastErr
	})
}

func (r *OutboxRepo) MarkFailed(_ context.Context, id string, attempts int, lastErr string) error {
	return r.update(id, func(e *entity.OutboxEntry) {
		e.State = entity.OutboxFailed
		e.Attempts = attempts
		e.LastError = lastErr
		r.lastErr = lastErr
	})
}

func (r *OutboxRepo) update(id string, fn func(*entity.OutboxEntry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(e)
	return nil
}

func (r *OutboxRepo) Stats(_ context.Context) (repository.OutboxStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := repository.OutboxStats{LastError: r.lastErr}
	for _, e := range r.entries {
		switch e.State {
		case entity.OutboxPending:
			st.Pending++
		case entity.OutboxFailed:
			st.Failed++
		case entity.OutboxSent:
			st.Sent++
		}
	}
	return st, nil
}

// Entries devuelve una copia de todas las entradas (inspección en tests y diagnósticos).
func (r *OutboxRepo) Entries() []entity.OutboxEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.OutboxEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/domain"
)

var _ ports.BlobStore = (*BlobStore)(nil)

var errQuota = errors.New("capacidad del almacén local agotada")

type blob struct {
	data        []byte
	contentType string
}

// BlobStore guarda binarios en memoria con un tope de bytes (0 = sin tope).
type BlobStore struct {
	mu       sync.RWMutex
	blobs    map[string]blob
	used     int64
	capacity int64
}

// NewBlobStore construye el almacén con capacidad en bytes.
func NewBlobStore(capacity int64) *BlobStore {
	return &BlobStore{blobs: make(map[string]blob), capacity: capacity}
}

func (s *BlobStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	used := s.used
	if old, ok := s.blobs[key]; ok {
		used -= int64(len(old.data))
	}
	if s.capacity > 0 && used+int64(len(data)) > s.capacity {
		return &domain.StorageError{Op: "put", Quota: true, Err: errQuota}
	}
	s.blobs[key] = blob{data: append([]byte(nil), data...), contentType: contentType}
	s.used = used + int64(len(data))
	return nil
}

func (s *BlobStore) Get(_ context.Context, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return append([]byte(nil), b.data...), b.contentType, nil
}

func (s *BlobStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok, nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// memObject is one stored object plus the metadata Stat reports.
type memObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// MemoryStore is a concurrency-safe in-memory implementation of ObjectStore,
// used in tests and for local development without a MinIO instance.
// Presigned URLs point at a base URL the caller controls; ServeHTTP answers
// GET requests for those URLs so the video pipeline can stream from the
// store the same way it streams from MinIO.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
}

// NewMemoryStore returns a new empty in-memory store. baseURL is prepended
// to presigned paths; it may be empty when presigning is not exercised.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memObject),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetBaseURL changes the base used for presigned URLs. Useful in tests where
// the httptest server URL is only known after construction.
func (s *MemoryStore) SetBaseURL(baseURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = strings.TrimRight(baseURL, "/")
}

// EnsureBucket implements ObjectStore.EnsureBucket.
func (s *MemoryStore) EnsureBucket(ctx context.Context) error { return nil }

// Put implements ObjectStore.Put.
func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memObject{
		data:         buf.Bytes(),
		contentType:  contentType,
		lastModified: time.Now().UTC(),
	}
	return nil
}

// GetBytes implements ObjectStore.GetBytes. The returned slice is a copy so
// callers cannot mutate stored state.
func (s *MemoryStore) GetBytes(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, nil
}

// Stat implements ObjectStore.Stat.
func (s *MemoryStore) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return ObjectInfo{}, ErrNotFound
	}
	return ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		LastModified: obj.lastModified,
	}, nil
}

// PresignedGetURL implements ObjectStore.PresignedGetURL. The in-memory
// variant does not sign anything; it returns a URL under baseURL that
// ServeHTTP understands.
func (s *MemoryStore) PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL + "/" + url.PathEscape(key), nil
}

// Delete implements ObjectStore.Delete.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// ServeHTTP serves stored objects for the URLs PresignedGetURL hands out.
func (s *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if obj.contentType != "" {
		w.Header().Set("Content-Type", obj.contentType)
	}
	w.Write(obj.data)
}

package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kbukum/authapi/encryption"
	"github.com/kbukum/authapi/resilience"
	"github.com/kbukum/authapi/storage"
)

// DefaultDocumentPath is the object key of the user document.
const DefaultDocumentPath = "db.json"

// Store loads and saves the whole user document.
type Store interface {
	// ReadAll returns the current document. A store that has never been
	// written returns an empty document.
	ReadAll(ctx context.Context) (*Document, error)

	// WriteAll replaces the stored document with doc.
	WriteAll(ctx context.Context, doc *Document) error
}

// DocumentStore keeps the document as one JSON object in a storage backend.
type DocumentStore struct {
	blobs     storage.ByteClient
	path      string
	encryptor encryption.Encryptor
	breaker   *resilience.CircuitBreaker
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithPath overrides the object key (default: db.json).
func WithPath(path string) Option {
	return func(s *DocumentStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithEncryptor seals the document before it is written and opens it after
// it is read. A nil encryptor leaves the document in plain JSON.
func WithEncryptor(enc encryption.Encryptor) Option {
	return func(s *DocumentStore) { s.encryptor = enc }
}

// WithBreaker sends every backend call through cb. While it is open, reads
// and writes fail with resilience.ErrCircuitOpen without touching the
// backend. A missing document is an answer, not a failure.
func WithBreaker(cb *resilience.CircuitBreaker) Option {
	return func(s *DocumentStore) { s.breaker = cb }
}

// NewDocumentStore creates a Store over backend.
func NewDocumentStore(backend storage.Storage, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		blobs: storage.NewByteClient(backend),
		path:  DefaultDocumentPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the object key of the document.
func (s *DocumentStore) Path() string { return s.path }

// Check reports whether the backend is being called. It fails while the
// breaker is open.
func (s *DocumentStore) Check(context.Context) error {
	if s.breaker != nil && s.breaker.State() == resilience.StateOpen {
		return fmt.Errorf("credential: %s: %w", s.path, resilience.ErrCircuitOpen)
	}
	return nil
}

// BreakerState returns the breaker position, or StateClosed without one.
func (s *DocumentStore) BreakerState() resilience.State {
	if s.breaker == nil {
		return resilience.StateClosed
	}
	return s.breaker.State()
}

func (s *DocumentStore) download(ctx context.Context) ([]byte, error) {
	if s.breaker == nil {
		return s.blobs.Download(ctx, s.path)
	}
	return resilience.Call(s.breaker, func() ([]byte, error) {
		return s.blobs.Download(ctx, s.path)
	})
}

func (s *DocumentStore) upload(ctx context.Context, data []byte) error {
	if s.breaker == nil {
		return s.blobs.Upload(ctx, s.path, data)
	}
	return s.breaker.Execute(func() error {
		return s.blobs.Upload(ctx, s.path, data)
	})
}

// ReadAll loads and decodes the document.
func (s *DocumentStore) ReadAll(ctx context.Context) (*Document, error) {
	data, err := s.download(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return &Document{Users: []User{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credential: read %s: %w", s.path, err)
	}

	if s.encryptor != nil {
		if data, err = s.encryptor.Open(data); err != nil {
			return nil, fmt.Errorf("credential: decrypt %s: %w", s.path, err)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("credential: decode %s: %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = []User{}
	}
	return &doc, nil
}

// WriteAll encodes and stores the document.
func (s *DocumentStore) WriteAll(ctx context.Context, doc *Document) error {
	if doc == nil {
		doc = &Document{}
	}
	if doc.Users == nil {
		doc = &Document{Users: []User{}}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("credential: encode: %w", err)
	}

	if s.encryptor != nil {
		if data, err = s.encryptor.Seal(data); err != nil {
			return fmt.Errorf("credential: encrypt: %w", err)
		}
	}

	if err := s.upload(ctx, data); err != nil {
		return fmt.Errorf("credential: write %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and development. It copies
// documents on the way in and out, and counts calls for test assertions.
type MemoryStore struct {
	mu     sync.RWMutex
	doc    *Document
	reads  atomic.Int64
	writes atomic.Int64

	// ReadErr and WriteErr, when set, are returned instead of touching the
	// document.
	ReadErr  error
	WriteErr error
}

// NewMemoryStore creates a MemoryStore seeded with users.
func NewMemoryStore(users ...User) *MemoryStore {
	return &MemoryStore{doc: (&Document{Users: users}).Clone()}
}

// ReadAll returns a copy of the document.
func (m *MemoryStore) ReadAll(ctx context.Context) (*Document, error) {
	m.reads.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone(), nil
}

// WriteAll stores a copy of doc.
func (m *MemoryStore) WriteAll(ctx context.Context, doc *Document) error {
	m.writes.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	m.doc = doc.Clone()
	m.mu.Unlock()
	return nil
}

// Users returns a copy of the stored users.
func (m *MemoryStore) Users() []User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone().Users
}

// Reads returns how many times ReadAll was called.
func (m *MemoryStore) Reads() int64 { return m.reads.Load() }

// Writes returns how many times WriteAll was called.
func (m *MemoryStore) Writes() int64 { return m.writes.Load() }

// compile-time interface checks
var (
	_ Store = (*DocumentStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

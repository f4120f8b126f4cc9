package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/mscofield999-cyber/meetingminutes/model"
)

// Store errors
var (
	ErrNotFound    = errors.New("meeting not found")
	ErrDuplicateID = errors.New("meeting id already exists")
)

// MeetingStore is the document-store contract the adapter writes through.
// Implementations must provide per-document atomic merge semantics: Merge
// changes only the supplied fields.
type MeetingStore interface {
	Create(ctx context.Context, id string, doc model.Document) error
	Get(ctx context.Context, id string) (model.Document, error)
	Merge(ctx context.Context, id string, fields model.Document) error
	List(ctx context.Context) ([]model.Document, error)
}

// MemoryStore is an in-memory MeetingStore used for tests and
// storage-less deployments.
type MemoryStore struct {
	docs map[string]model.Document
	mu   sync.RWMutex
}

var (
	globalStore MeetingStore
	storeOnce   sync.Once
)

// InitMeetingStore installs the process-wide store. First call wins.
func InitMeetingStore(store MeetingStore) {
	storeOnce.Do(func() {
		globalStore = store
		slog.Info("meeting store initialized")
	})
}

// GetMeetingStore returns the global meeting store. Callers that skip
// explicit initialization get an in-memory store; the fallback goes
// through the same once guard so concurrent first uses agree.
func GetMeetingStore() MeetingStore {
	InitMeetingStore(NewMemoryStore())
	return globalStore
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]model.Document)}
}

func (s *MemoryStore) Create(ctx context.Context, id string, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; exists {
		return ErrDuplicateID
	}
	s.docs[id] = copyDocument(doc)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDocument(doc), nil
}

func (s *MemoryStore) Merge(ctx context.Context, id string, fields model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]model.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, copyDocument(doc))
	}
	sort.Slice(docs, func(i, j int) bool {
		return numField(docs[i], "created_at") > numField(docs[j], "created_at")
	})
	return docs, nil
}

// Count returns the number of stored meetings.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func copyDocument(doc model.Document) model.Document {
	out := make(model.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// numField reads a numeric field regardless of the numeric type the
// storage backend decoded it to.
func numField(doc model.Document, key string) int64 {
	switch v := doc[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

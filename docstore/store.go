package docstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Database names used by the firmware registry.
const (
	FirmwareModuleTypeDB = "firmware_module_type"
	FirmwareModuleDB     = "firmware_module"
)

// ErrDocumentNotFound indicates the requested document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// NotFoundError reports a missing document.
type NotFoundError struct {
	DB string
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %s/%s not found", e.DB, e.ID)
}

// Unwrap allows errors.Is(err, ErrDocumentNotFound).
func (e *NotFoundError) Unwrap() error {
	return ErrDocumentNotFound
}

// Store reads raw JSON documents by database and id.
type Store interface {
	// IDs lists every document id in db, sorted.
	IDs(ctx context.Context, db string) ([]string, error)

	// Get returns the raw JSON body of a document. Missing documents yield
	// an error wrapping ErrDocumentNotFound.
	Get(ctx context.Context, db, id string) ([]byte, error)
}

// Writer stores raw JSON documents by database and id, replacing any
// existing document.
type Writer interface {
	Put(ctx context.Context, db, id string, body []byte) error
}

// Memory is a thread-safe in-memory Store.
type Memory struct {
	mu   sync.RWMutex
	dbs  map[string]map[string][]byte
	gets int
}

var (
	_ Store  = (*Memory)(nil)
	_ Writer = (*Memory)(nil)
)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{dbs: make(map[string]map[string][]byte)}
}

// Put stores a copy of body under db/id.
func (m *Memory) Put(ctx context.Context, db, id string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	docs, ok := m.dbs[db]
	if !ok {
		docs = make(map[string][]byte)
		m.dbs[db] = docs
	}
	docs[id] = slices.Clone(body)
	return nil
}

// IDs lists the ids in db. An unknown db has no ids.
func (m *Memory) IDs(ctx context.Context, db string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.dbs[db])), nil
}

// Get returns a copy of the document body.
func (m *Memory) Get(ctx context.Context, db, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	body, ok := m.dbs[db][id]
	if !ok {
		return nil, &NotFoundError{DB: db, ID: id}
	}
	return slices.Clone(body), nil
}

// Gets returns how many Get calls the store has served.
func (m *Memory) Gets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets
}

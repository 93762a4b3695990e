package buku

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryDatabase is an in-memory Database. It keeps the same batch and
// uniqueness rules as the SQLite store.
type MemoryDatabase struct {
	mu     sync.RWMutex
	store  map[ID]SavedBookmark
	nextID ID
	closed bool
}

// NewMemoryDatabase constructs a database seeded with records. Records keep
// their ids; new ids continue after the largest seeded id.
func NewMemoryDatabase(records ...SavedBookmark) *MemoryDatabase {
	m := &MemoryDatabase{store: make(map[ID]SavedBookmark, len(records))}
	for _, bm := range records {
		m.store[bm.ID] = bm
		if bm.ID > m.nextID {
			m.nextID = bm.ID
		}
	}
	return m
}

func (m *MemoryDatabase) GetAll(ctx context.Context) ([]SavedBookmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]SavedBookmark, 0, len(m.store))
	for _, bm := range m.store {
		out = append(out, bm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryDatabase) GetByIDs(ctx context.Context, ids []ID) ([]SavedBookmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]SavedBookmark, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if bm, ok := m.store[id]; ok {
			out = append(out, bm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryDatabase) AddMany(ctx context.Context, records []Bookmark) ([]ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	urls := make(map[string]struct{}, len(m.store)+len(records))
	for _, bm := range m.store {
		urls[bm.URL] = struct{}{}
	}
	for i, bm := range records {
		if strings.TrimSpace(bm.URL) == "" {
			return nil, fmt.Errorf("buku: record %d: missing url", i)
		}
		if _, dup := urls[bm.URL]; dup {
			return nil, fmt.Errorf("buku: record %d: duplicate url %q", i, bm.URL)
		}
		urls[bm.URL] = struct{}{}
	}

	ids := make([]ID, 0, len(records))
	for _, bm := range records {
		m.nextID++
		m.store[m.nextID] = SavedBookmark{ID: m.nextID, Bookmark: bm}
		ids = append(ids, m.nextID)
	}
	return ids, nil
}

func (m *MemoryDatabase) UpdateMany(ctx context.Context, records []SavedBookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for _, bm := range records {
		if _, ok := m.store[bm.ID]; !ok {
			return fmt.Errorf("%w: id=%d", ErrNotFound, bm.ID)
		}
	}
	for _, bm := range records {
		m.store[bm.ID] = bm
	}
	return nil
}

func (m *MemoryDatabase) DeleteMany(ctx context.Context, ids []ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	ids = uniqueIDs(ids)
	for _, id := range ids {
		if _, ok := m.store[id]; !ok {
			return fmt.Errorf("%w: id=%d", ErrNotFound, id)
		}
	}
	for _, id := range ids {
		delete(m.store, id)
	}
	return nil
}

func (m *MemoryDatabase) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

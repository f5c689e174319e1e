package docstore

import (
	"context"
	"crypto/rand"
	"sort"
	"sync"

	"github.com/cadetops/corpshq/internal/clock"
	"github.com/oklog/ulid/v2"
)

// memoryStore backs demo mode. Document ids are ULIDs so id order follows
// creation order even under a frozen test clock.
type memoryStore struct {
	mu          sync.Mutex
	clk         clock.Clock
	collections map[string]map[string]*Document
	entropy     *ulid.MonotonicEntropy
	hub         *hub
}

func NewMemory(clk clock.Clock) Store {
	return &memoryStore{
		clk:         clk,
		collections: make(map[string]map[string]*Document),
		entropy:     ulid.Monotonic(rand.Reader, 0),
		hub:         newHub(),
	}
}

func (s *memoryStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	id := ulid.MustNew(ulid.Timestamp(now), s.entropy).String()

	doc := &Document{
		ID:        id,
		Fields:    stripReserved(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}

	coll := s.collections[collection]
	if coll == nil {
		coll = make(map[string]*Document)
		s.collections[collection] = coll
	}
	coll[id] = doc

	s.notifyLocked(collection, id, doc)
	return id, nil
}

func (s *memoryStore) Set(ctx context.Context, collection, id string, fields Fields) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	doc, ok := s.collections[collection][id]
	if !ok {
		doc = &Document{
			ID:        id,
			Fields:    stripReserved(fields),
			CreatedAt: now,
			UpdatedAt: now,
		}
		coll := s.collections[collection]
		if coll == nil {
			coll = make(map[string]*Document)
			s.collections[collection] = coll
		}
		coll[id] = doc
	} else {
		for k, v := range stripReserved(fields) {
			doc.Fields[k] = v
		}
		doc.UpdatedAt = now
	}

	s.notifyLocked(collection, id, doc)
	return nil
}

func (s *memoryStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	for k, v := range stripReserved(fields) {
		doc.Fields[k] = v
	}
	doc.UpdatedAt = s.clk.Now()

	s.notifyLocked(collection, id, doc)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, collection, id string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.collections[collection], id)

	s.notifyLocked(collection, id, nil)
	return nil
}

func (s *memoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return cloneDocument(doc), nil
}

func (s *memoryStore) List(ctx context.Context, collection string, filters ...Filter) ([]*Document, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(collection, filters), nil
}

func (s *memoryStore) SubscribeDocument(collection, id string) *DocumentSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.subscribeDocument(collection, id, cloneDocument(s.collections[collection][id]))
}

func (s *memoryStore) SubscribeCollection(collection string, filters ...Filter) *CollectionSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.subscribeCollection(collection, filters, s.listLocked(collection, filters))
}

func (s *memoryStore) listLocked(collection string, filters []Filter) []*Document {
	coll := s.collections[collection]
	out := make([]*Document, 0, len(coll))
	for _, doc := range coll {
		if matchAll(doc.Fields, filters) {
			out = append(out, cloneDocument(doc))
		}
	}
	sortNewestFirst(out)
	return out
}

func (s *memoryStore) notifyLocked(collection, id string, doc *Document) {
	s.hub.notifyWrite(collection, id, doc, func(filters []Filter) []*Document {
		return s.listLocked(collection, filters)
	})
}

func sortNewestFirst(docs []*Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID > docs[j].ID
	})
}

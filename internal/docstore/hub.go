package docstore

import "sync"

const watcherBuffer = 64

// DocumentSubscription streams states of a single watched document; a nil
// element means the document does not exist at that point.
type DocumentSubscription struct {
	C <-chan *Document

	once   sync.Once
	cancel func()
}

func (s *DocumentSubscription) Cancel() {
	s.once.Do(s.cancel)
}

// CollectionSubscription streams filtered snapshots of a collection.
type CollectionSubscription struct {
	C <-chan []*Document

	once   sync.Once
	cancel func()
}

func (s *CollectionSubscription) Cancel() {
	s.once.Do(s.cancel)
}

type docWatcher struct {
	collection string
	id         string
	ch         chan *Document
}

type collWatcher struct {
	collection string
	filters    []Filter
	ch         chan []*Document
}

// hub is the watcher registry shared by both store implementations. The
// owning store calls notify* while holding its write lock, so deliveries
// see each write exactly once and in order.
type hub struct {
	mu    sync.Mutex
	next  int
	docs  map[int]*docWatcher
	colls map[int]*collWatcher
}

func newHub() *hub {
	return &hub{
		docs:  make(map[int]*docWatcher),
		colls: make(map[int]*collWatcher),
	}
}

func (h *hub) subscribeDocument(collection, id string, current *Document) *DocumentSubscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	w := &docWatcher{collection: collection, id: id, ch: make(chan *Document, watcherBuffer)}
	w.ch <- current

	wid := h.next
	h.next++
	h.docs[wid] = w

	return &DocumentSubscription{
		C: w.ch,
		cancel: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if live, ok := h.docs[wid]; ok {
				delete(h.docs, wid)
				close(live.ch)
			}
		},
	}
}

func (h *hub) subscribeCollection(collection string, filters []Filter, current []*Document) *CollectionSubscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	w := &collWatcher{collection: collection, filters: filters, ch: make(chan []*Document, watcherBuffer)}
	w.ch <- current

	wid := h.next
	h.next++
	h.colls[wid] = w

	return &CollectionSubscription{
		C: w.ch,
		cancel: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if live, ok := h.colls[wid]; ok {
				delete(h.colls, wid)
				close(live.ch)
			}
		},
	}
}

// notifyWrite fans a write out to document watchers of (collection, id)
// and to every collection watcher of collection. snapshot must compute a
// filtered listing consistent with the write.
func (h *hub) notifyWrite(collection, id string, doc *Document, snapshot func(filters []Filter) []*Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, w := range h.docs {
		if w.collection != collection || w.id != id {
			continue
		}
		sendDoc(w.ch, cloneDocument(doc))
	}
	for _, w := range h.colls {
		if w.collection != collection {
			continue
		}
		sendList(w.ch, snapshot(w.filters))
	}
}

// A watcher that has fallen a full buffer behind loses its oldest
// snapshot rather than blocking the writer.
func sendDoc(ch chan *Document, doc *Document) {
	select {
	case ch <- doc:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- doc
	}
}

func sendList(ch chan []*Document, docs []*Document) {
	select {
	case ch <- docs:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- docs
	}
}

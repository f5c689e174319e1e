package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Item pairs a decoded record with its store-managed envelope.
type Item[T any] struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      T
}

// Collection is a typed view over one named collection. The caller's
// record shape round-trips through JSON; the store only ever touches the
// reserved timestamp fields by name.
type Collection[T any] struct {
	store Store
	name  string
}

func NewCollection[T any](store Store, name string) Collection[T] {
	return Collection[T]{store: store, name: name}
}

func (c Collection[T]) Name() string { return c.name }

func (c Collection[T]) Create(ctx context.Context, v T) (string, error) {
	fields, err := encodeFields(v)
	if err != nil {
		return "", err
	}
	return c.store.Create(ctx, c.name, fields)
}

// Update applies a partial merge of the named fields.
func (c Collection[T]) Update(ctx context.Context, id string, fields Fields) error {
	return c.store.Update(ctx, c.name, id, fields)
}

func (c Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

// Get returns (nil, nil) when the record does not exist.
func (c Collection[T]) Get(ctx context.Context, id string) (*Item[T], error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil || doc == nil {
		return nil, err
	}
	return decodeItem[T](doc)
}

func (c Collection[T]) List(ctx context.Context, filters ...Filter) ([]Item[T], error) {
	docs, err := c.store.List(ctx, c.name, filters...)
	if err != nil {
		return nil, err
	}
	out := make([]Item[T], 0, len(docs))
	for _, doc := range docs {
		item, err := decodeItem[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}

func (c Collection[T]) Subscribe(filters ...Filter) *CollectionSubscription {
	return c.store.SubscribeCollection(c.name, filters...)
}

func encodeFields(v any) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return fields, nil
}

func decodeItem[T any](doc *Document) (*Item[T], error) {
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &Item[T]{
		ID:        doc.ID,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Data:      data,
	}, nil
}

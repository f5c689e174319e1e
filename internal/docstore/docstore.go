// Package docstore is a generic keyed-collection persistence abstraction:
// named collections of arbitrary field maps with store-managed timestamps,
// conjunctive filters, and push-based subscriptions.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Reserved field names. The store manages these two by name; everything
// else in a field map passes through opaquely.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var ErrNotFound = errors.New("document not found")

// Fields is the caller-supplied record shape.
type Fields map[string]any

// Document is a stored record. CreatedAt is set exactly once at creation;
// UpdatedAt is refreshed on every successful update.
type Document struct {
	ID        string
	Fields    Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Op string

const (
	OpEq       Op = "=="
	OpNe       Op = "!="
	OpGt       Op = ">"
	OpGte      Op = ">="
	OpLt       Op = "<"
	OpLte      Op = "<="
	OpContains Op = "contains"
)

// Filter is a single predicate over one field. A filter list is evaluated
// conjunctively.
type Filter struct {
	Field string
	Op    Op
	Value any
}

func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Store is the document-store contract shared by the live and in-memory
// implementations.
type Store interface {
	// Create stores fields under a fresh id. Caller-supplied values for
	// the reserved timestamp fields are discarded.
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	// Set upserts the document with a caller-chosen id: created with a
	// fresh CreatedAt when absent, otherwise merged like Update.
	Set(ctx context.Context, collection, id string, fields Fields) error
	// Update merges only the supplied fields and refreshes UpdatedAt.
	// Returns ErrNotFound when the id does not exist.
	Update(ctx context.Context, collection, id string, fields Fields) error
	// Delete removes the document. Deleting an absent id, including a
	// repeated delete, returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
	// Get returns (nil, nil) when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// List returns matching documents ordered by creation time descending.
	List(ctx context.Context, collection string, filters ...Filter) ([]*Document, error)

	// SubscribeDocument delivers the current document (nil when absent)
	// immediately and again after every write affecting it.
	SubscribeDocument(collection, id string) *DocumentSubscription
	// SubscribeCollection delivers the current filtered snapshot
	// immediately and a consistent snapshot after every write to the
	// collection.
	SubscribeCollection(collection string, filters ...Filter) *CollectionSubscription
}

func (f Filter) match(fields Fields) bool {
	have, ok := fields[f.Field]
	if !ok {
		return false
	}

	switch f.Op {
	case OpEq:
		return equal(have, f.Value)
	case OpNe:
		return !equal(have, f.Value)
	case OpContains:
		return contains(have, f.Value)
	case OpGt, OpGte, OpLt, OpLte:
		return ordered(have, f.Value, f.Op)
	default:
		return false
	}
}

func matchAll(fields Fields, filters []Filter) bool {
	for _, f := range filters {
		if !f.match(fields) {
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return a == b
}

func ordered(a, b any, op Op) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		switch op {
		case OpGt:
			return fa > fb
		case OpGte:
			return fa >= fb
		case OpLt:
			return fa < fb
		case OpLte:
			return fa <= fb
		}
		return false
	}

	sa, okA := a.(string)
	sb, okB := b.(string)
	if !okA || !okB {
		return false
	}
	switch op {
	case OpGt:
		return sa > sb
	case OpGte:
		return sa >= sb
	case OpLt:
		return sa < sb
	case OpLte:
		return sa <= sb
	}
	return false
}

func contains(have, want any) bool {
	switch v := have.(type) {
	case string:
		s, ok := want.(string)
		return ok && strings.Contains(v, s)
	case []any:
		for _, item := range v {
			if equal(item, want) {
				return true
			}
		}
	case []string:
		s, ok := want.(string)
		if !ok {
			return false
		}
		for _, item := range v {
			if item == s {
				return true
			}
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// NormalizeTime converts a backend timestamp representation into a
// concrete instant: native time values, RFC3339 strings, and epoch
// milliseconds are all accepted.
func NormalizeTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return ts.UTC(), true
		}
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts.UTC(), true
		}
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case int64:
		return time.UnixMilli(t).UTC(), true
	}
	return time.Time{}, false
}

// stripReserved drops the store-managed timestamp fields from a
// caller-supplied map without mutating it.
func stripReserved(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if k == FieldCreatedAt || k == FieldUpdatedAt {
			continue
		}
		out[k] = v
	}
	return out
}

func cloneFields(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func cloneDocument(d *Document) *Document {
	if d == nil {
		return nil
	}
	return &Document{
		ID:        d.ID,
		Fields:    cloneFields(d.Fields),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

package docstore

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/cadetops/corpshq/internal/clock"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// record maps one document of any collection onto a single table. Fields
// live in a JSON column so the schema never constrains the caller's shape.
type record struct {
	ID         string            `gorm:"primaryKey;size:26"`
	Collection string            `gorm:"index:idx_documents_collection;not null"`
	Fields     datatypes.JSONMap `gorm:"not null"`
	CreatedAt  time.Time         `gorm:"not null;index"`
	UpdatedAt  time.Time         `gorm:"not null"`
}

func (record) TableName() string { return "documents" }

// gormStore is the live Document Store. Subscriptions fan out writes made
// through this adapter; writes issued directly against the database are
// not observed.
type gormStore struct {
	mu      sync.Mutex
	db      *gorm.DB
	clk     clock.Clock
	log     *zap.Logger
	entropy *ulid.MonotonicEntropy
	hub     *hub
}

func NewGorm(db *gorm.DB, clk clock.Clock, log *zap.Logger) Store {
	return &gormStore{
		db:      db,
		clk:     clk,
		log:     log.Named("docstore"),
		entropy: ulid.Monotonic(rand.Reader, 0),
		hub:     newHub(),
	}
}

// Migrate creates the documents table. Live Postgres deployments run the
// SQL migrations instead; this path serves sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&record{})
}

func (s *gormStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	id := ulid.MustNew(ulid.Timestamp(now), s.entropy).String()

	row := record{
		ID:         id,
		Collection: collection,
		Fields:     datatypes.JSONMap(stripReserved(fields)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	s.notifyLocked(ctx, collection, id, rowToDocument(&row))
	return id, nil
}

func (s *gormStore) Set(ctx context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	row, err := s.fetch(ctx, collection, id)
	if err != nil {
		return err
	}

	if row == nil {
		fresh := record{
			ID:         id,
			Collection: collection,
			Fields:     datatypes.JSONMap(stripReserved(fields)),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.db.WithContext(ctx).Create(&fresh).Error; err != nil {
			return fmt.Errorf("set document: %w", err)
		}
		s.notifyLocked(ctx, collection, id, rowToDocument(&fresh))
		return nil
	}

	merged := Fields(row.Fields)
	if merged == nil {
		merged = Fields{}
	}
	for k, v := range stripReserved(fields) {
		merged[k] = v
	}
	err = s.db.WithContext(ctx).Model(&record{}).
		Where("id = ? AND collection = ?", id, collection).
		Updates(map[string]any{
			"fields":     datatypes.JSONMap(merged),
			"updated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("set document: %w", err)
	}

	row.Fields = datatypes.JSONMap(merged)
	row.UpdatedAt = now
	s.notifyLocked(ctx, collection, id, rowToDocument(row))
	return nil
}

func (s *gormStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.fetch(ctx, collection, id)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrNotFound
	}

	merged := Fields(row.Fields)
	if merged == nil {
		merged = Fields{}
	}
	for k, v := range stripReserved(fields) {
		merged[k] = v
	}

	now := s.clk.Now()
	err = s.db.WithContext(ctx).Model(&record{}).
		Where("id = ? AND collection = ?", id, collection).
		Updates(map[string]any{
			"fields":     datatypes.JSONMap(merged),
			"updated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	row.Fields = datatypes.JSONMap(merged)
	row.UpdatedAt = now
	s.notifyLocked(ctx, collection, id, rowToDocument(row))
	return nil
}

func (s *gormStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.WithContext(ctx).
		Where("id = ? AND collection = ?", id, collection).
		Delete(&record{})
	if res.Error != nil {
		return fmt.Errorf("delete document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.notifyLocked(ctx, collection, id, nil)
	return nil
}

func (s *gormStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	row, err := s.fetch(ctx, collection, id)
	if err != nil || row == nil {
		return nil, err
	}
	return rowToDocument(row), nil
}

func (s *gormStore) List(ctx context.Context, collection string, filters ...Filter) ([]*Document, error) {
	return s.list(ctx, collection, filters)
}

func (s *gormStore) SubscribeDocument(collection, id string) *DocumentSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Get(context.Background(), collection, id)
	if err != nil {
		s.log.Warn("subscribe read failed", zap.String("collection", collection), zap.Error(err))
	}
	return s.hub.subscribeDocument(collection, id, current)
}

func (s *gormStore) SubscribeCollection(collection string, filters ...Filter) *CollectionSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.list(context.Background(), collection, filters)
	if err != nil {
		s.log.Warn("subscribe list failed", zap.String("collection", collection), zap.Error(err))
	}
	return s.hub.subscribeCollection(collection, filters, current)
}

func (s *gormStore) fetch(ctx context.Context, collection, id string) (*record, error) {
	var row record
	err := s.db.WithContext(ctx).
		Where("id = ? AND collection = ?", id, collection).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &row, nil
}

// Filters are applied in process after the ordered scan: field values live
// inside a JSON column and collections stay small enough that pushing
// predicates into dialect-specific JSON operators buys nothing here.
func (s *gormStore) list(ctx context.Context, collection string, filters []Filter) ([]*Document, error) {
	var rows []record
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	out := make([]*Document, 0, len(rows))
	for i := range rows {
		doc := rowToDocument(&rows[i])
		if matchAll(doc.Fields, filters) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *gormStore) notifyLocked(ctx context.Context, collection, id string, doc *Document) {
	s.hub.notifyWrite(collection, id, doc, func(filters []Filter) []*Document {
		snapshot, err := s.list(ctx, collection, filters)
		if err != nil {
			s.log.Warn("snapshot for watcher failed", zap.String("collection", collection), zap.Error(err))
			return nil
		}
		return snapshot
	})
}

func rowToDocument(row *record) *Document {
	return &Document{
		ID:        row.ID,
		Fields:    cloneFields(Fields(row.Fields)),
		CreatedAt: normalizeColumn(row.CreatedAt),
		UpdatedAt: normalizeColumn(row.UpdatedAt),
	}
}

func normalizeColumn(t time.Time) time.Time {
	return t.UTC()
}

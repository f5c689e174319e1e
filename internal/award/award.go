// Package award manages the decorations catalog and its recipients.
package award

import (
	"context"
	"errors"
	"strings"

	"github.com/cadetops/corpshq/internal/docstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const CollectionName = "awards"

var ErrInvalidAward = errors.New("invalid award record")

type Recipient struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Unit string `json:"unit"`
}

type Award struct {
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Category     string      `json:"category"`
	Description  string      `json:"description"`
	Criteria     string      `json:"criteria"`
	Recipients   []Recipient `json:"recipients"`
	TotalAwarded int         `json:"totalAwarded"`
	Color        string      `json:"color"`
}

// Query narrows a listing. Search matches name or description as a
// case-insensitive substring; Category is an exact filter.
type Query struct {
	Search   string
	Category string
}

type Service struct {
	log  *zap.Logger
	coll docstore.Collection[Award]
}

func NewService(log *zap.Logger, store docstore.Store) *Service {
	return &Service{
		log:  log.Named("award"),
		coll: docstore.NewCollection[Award](store, CollectionName),
	}
}

func (s *Service) Create(ctx context.Context, a Award) (string, error) {
	if strings.TrimSpace(a.Name) == "" {
		return "", ErrInvalidAward
	}
	return s.coll.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id string) (*docstore.Item[Award], error) {
	return s.coll.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, fields docstore.Fields) error {
	return s.coll.Update(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.coll.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, q Query) ([]docstore.Item[Award], error) {
	var filters []docstore.Filter
	if q.Category != "" {
		filters = append(filters, docstore.Where("category", docstore.OpEq, q.Category))
	}
	items, err := s.coll.List(ctx, filters...)
	if err != nil {
		return nil, err
	}
	if q.Search == "" {
		return items, nil
	}

	needle := strings.ToLower(q.Search)
	matched := items[:0]
	for _, item := range items {
		a := item.Data
		if strings.Contains(strings.ToLower(a.Name), needle) ||
			strings.Contains(strings.ToLower(a.Description), needle) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (s *Service) Subscribe() *docstore.CollectionSubscription {
	return s.coll.Subscribe()
}

var Module = fx.Module("award",
	fx.Provide(NewService),
)

// Package cadet manages cadet personnel records as a typed collection
// over the document store.
package cadet

import (
	"context"
	"errors"
	"strings"

	"github.com/cadetops/corpshq/internal/docstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const CollectionName = "cadets"

var ErrInvalidCadet = errors.New("invalid cadet record")

type Cadet struct {
	Name     string   `json:"name"`
	Rank     string   `json:"rank"`
	Unit     string   `json:"unit"`
	Grade    string   `json:"grade"`
	GPA      float64  `json:"gpa"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Address  string   `json:"address"`
	Awards   []string `json:"awards"`
	JoinDate string   `json:"joinDate"`
	Photo    string   `json:"photo"`
	Status   string   `json:"status"`
}

// Query narrows a listing. Search matches name, rank, or unit as a
// case-insensitive substring; Unit is an exact unit filter.
type Query struct {
	Search string
	Unit   string
}

type Service struct {
	log  *zap.Logger
	coll docstore.Collection[Cadet]
}

func NewService(log *zap.Logger, store docstore.Store) *Service {
	return &Service{
		log:  log.Named("cadet"),
		coll: docstore.NewCollection[Cadet](store, CollectionName),
	}
}

func (s *Service) Create(ctx context.Context, c Cadet) (string, error) {
	if strings.TrimSpace(c.Name) == "" {
		return "", ErrInvalidCadet
	}
	if c.Status == "" {
		c.Status = "Active"
	}
	return s.coll.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id string) (*docstore.Item[Cadet], error) {
	return s.coll.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, fields docstore.Fields) error {
	return s.coll.Update(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.coll.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, q Query) ([]docstore.Item[Cadet], error) {
	var filters []docstore.Filter
	if q.Unit != "" {
		filters = append(filters, docstore.Where("unit", docstore.OpEq, q.Unit))
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
		c := item.Data
		if containsFold(c.Name, needle) || containsFold(c.Rank, needle) || containsFold(c.Unit, needle) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (s *Service) Subscribe(q Query) *docstore.CollectionSubscription {
	var filters []docstore.Filter
	if q.Unit != "" {
		filters = append(filters, docstore.Where("unit", docstore.OpEq, q.Unit))
	}
	return s.coll.Subscribe(filters...)
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

var Module = fx.Module("cadet",
	fx.Provide(NewService),
)

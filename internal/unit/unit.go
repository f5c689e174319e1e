// Package unit manages company and special-unit rosters.
package unit

import (
	"context"
	"errors"
	"strings"

	"github.com/cadetops/corpshq/internal/docstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const CollectionName = "units"

var ErrInvalidUnit = errors.New("invalid unit record")

type Platoon struct {
	Name     string `json:"name"`
	Leader   string `json:"leader"`
	Strength int    `json:"strength"`
}

type Unit struct {
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Commander      string    `json:"commander"`
	CommanderPhoto string    `json:"commanderPhoto"`
	Strength       int       `json:"strength"`
	Location       string    `json:"location"`
	Established    string    `json:"established"`
	Motto          string    `json:"motto"`
	Awards         []string  `json:"awards"`
	Platoons       []Platoon `json:"platoons"`
}

type Service struct {
	log  *zap.Logger
	coll docstore.Collection[Unit]
}

func NewService(log *zap.Logger, store docstore.Store) *Service {
	return &Service{
		log:  log.Named("unit"),
		coll: docstore.NewCollection[Unit](store, CollectionName),
	}
}

func (s *Service) Create(ctx context.Context, u Unit) (string, error) {
	if strings.TrimSpace(u.Name) == "" {
		return "", ErrInvalidUnit
	}
	return s.coll.Create(ctx, u)
}

func (s *Service) Get(ctx context.Context, id string) (*docstore.Item[Unit], error) {
	return s.coll.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, fields docstore.Fields) error {
	return s.coll.Update(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.coll.Delete(ctx, id)
}

// List returns all units, optionally narrowed to one type
// ("Company", "Special Unit", ...).
func (s *Service) List(ctx context.Context, unitType string) ([]docstore.Item[Unit], error) {
	var filters []docstore.Filter
	if unitType != "" {
		filters = append(filters, docstore.Where("type", docstore.OpEq, unitType))
	}
	return s.coll.List(ctx, filters...)
}

func (s *Service) Subscribe() *docstore.CollectionSubscription {
	return s.coll.Subscribe()
}

var Module = fx.Module("unit",
	fx.Provide(NewService),
)

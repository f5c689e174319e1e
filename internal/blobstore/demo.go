package blobstore

import (
	"context"
	"time"

	"github.com/cadetops/corpshq/internal/clock"
	"go.uber.org/zap"
)

const (
	// DemoLatency approximates a storage round trip. Tests pass zero.
	DemoLatency = 1500 * time.Millisecond

	demoBaseURL = "https://demo-storage.example.com"
)

// demoStore fabricates URLs without persisting any bytes. Nothing is
// ever stored, so deletes succeed unconditionally.
type demoStore struct {
	log     *zap.Logger
	clk     clock.Clock
	latency time.Duration
}

func NewDemo(log *zap.Logger, clk clock.Clock, latency time.Duration) Service {
	return &demoStore{
		log:     log.Named("blobstore.demo"),
		clk:     clk,
		latency: latency,
	}
}

func (s *demoStore) UploadImage(ctx context.Context, up Upload) (*Object, error) {
	if err := validateImage(up); err != nil {
		return nil, err
	}
	return s.fabricate(ctx, up)
}

func (s *demoStore) UploadDocument(ctx context.Context, up Upload) (*Object, error) {
	if err := validateDocument(up); err != nil {
		return nil, err
	}
	return s.fabricate(ctx, up)
}

func (s *demoStore) Delete(ctx context.Context, key string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.log.Info("discarded delete", zap.String("key", key))
	return nil
}

func (s *demoStore) fabricate(ctx context.Context, up Upload) (*Object, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	key := objectKey(up, now)

	s.log.Info("fabricated upload", zap.String("key", key), zap.Int("size", len(up.Data)))
	return &Object{
		Key:         key,
		URL:         demoBaseURL + "/" + key,
		ContentType: up.ContentType,
		Size:        int64(len(up.Data)),
		UploadedAt:  now,
	}, nil
}

func (s *demoStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

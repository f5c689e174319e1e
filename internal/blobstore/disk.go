package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadetops/corpshq/internal/clock"
	"go.uber.org/zap"
)

// diskStore persists objects under the resolved bucket directory and
// serves them back through the public base URL's /files/ route.
type diskStore struct {
	log     *zap.Logger
	clk     clock.Clock
	root    string
	baseURL string
}

func NewDisk(log *zap.Logger, clk clock.Clock, root, baseURL string) Service {
	return &diskStore{
		log:     log.Named("blobstore.disk"),
		clk:     clk,
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *diskStore) UploadImage(ctx context.Context, up Upload) (*Object, error) {
	if err := validateImage(up); err != nil {
		return nil, err
	}
	return s.write(ctx, up)
}

func (s *diskStore) UploadDocument(ctx context.Context, up Upload) (*Object, error) {
	if err := validateDocument(up); err != nil {
		return nil, err
	}
	return s.write(ctx, up)
}

func (s *diskStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: no object at %s", ErrDeleteFailed, key)
		}
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *diskStore) write(ctx context.Context, up Upload) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	key := objectKey(up, now)
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.WriteFile(full, up.Data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.log.Info("stored upload",
		zap.String("key", key),
		zap.String("content_type", up.ContentType),
		zap.Int("size", len(up.Data)),
	)
	return &Object{
		Key:         key,
		URL:         s.baseURL + "/files/" + key,
		ContentType: up.ContentType,
		Size:        int64(len(up.Data)),
		UploadedAt:  now,
	}, nil
}

// resolve maps a key to an absolute path inside the bucket root,
// rejecting traversal outside it.
func (s *diskStore) resolve(key string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: key escapes bucket", ErrUploadFailed)
	}
	return full, nil
}

// Package blobstore stores uploaded files and hands back public URLs.
// Two categories exist with their own validation gates: images accept any
// image/* payload up to 5 MiB, documents accept a fixed media-type list
// up to 10 MiB. Validation always runs before any transfer work.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	MaxImageBytes    = 5 << 20
	MaxDocumentBytes = 10 << 20
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUploadFailed    = errors.New("upload failed")
	ErrDeleteFailed    = errors.New("delete failed")
)

// documentTypes is the accepted media-type list for document uploads.
var documentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
}

// Upload is one inbound file. Path is the logical prefix for the object
// key ("avatars", "records", ...), OwnerID scopes the key to the
// uploading identity.
type Upload struct {
	Path        string
	OwnerID     string
	Filename    string
	ContentType string
	Data        []byte
}

// Object describes a stored file.
type Object struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Service is the blob store contract shared by the disk-backed and demo
// implementations.
type Service interface {
	// UploadImage accepts image/* payloads up to MaxImageBytes.
	UploadImage(ctx context.Context, up Upload) (*Object, error)
	// UploadDocument accepts the document media-type list up to
	// MaxDocumentBytes.
	UploadDocument(ctx context.Context, up Upload) (*Object, error)
	// Delete removes a stored object by key. Disk storage reports
	// ErrDeleteFailed for an absent key or backend failure; the demo
	// implementation succeeds unconditionally since nothing is stored.
	Delete(ctx context.Context, key string) error
}

func validateImage(up Upload) error {
	if !strings.HasPrefix(up.ContentType, "image/") {
		return fmt.Errorf("%w: %s is not an image", ErrInvalidFileType, up.ContentType)
	}
	if int64(len(up.Data)) > MaxImageBytes {
		return fmt.Errorf("%w: image exceeds %d bytes", ErrFileTooLarge, MaxImageBytes)
	}
	return nil
}

func validateDocument(up Upload) error {
	if _, ok := documentTypes[up.ContentType]; !ok {
		return fmt.Errorf("%w: %s is not an accepted document type", ErrInvalidFileType, up.ContentType)
	}
	if int64(len(up.Data)) > MaxDocumentBytes {
		return fmt.Errorf("%w: document exceeds %d bytes", ErrFileTooLarge, MaxDocumentBytes)
	}
	return nil
}

// objectKey builds the stable storage key:
// <path>/<ownerID>/<unix-millis>-<random>.<ext>.
func objectKey(up Upload, now time.Time) string {
	ext := strings.ToLower(path.Ext(up.Filename))
	random := strings.Split(uuid.NewString(), "-")[0]
	name := fmt.Sprintf("%d-%s%s", now.UnixMilli(), random, ext)
	return path.Join(segment(up.Path), segment(up.OwnerID), name)
}

// segment sanitizes a caller-supplied key part so it stays a single path
// element.
func segment(raw string) string {
	s := slug.Make(raw)
	if s == "" {
		return "misc"
	}
	return s
}

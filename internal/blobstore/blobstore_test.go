package blobstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cadetops/corpshq/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
}

func imageUpload(size int) Upload {
	return Upload{
		Path:        "avatars",
		OwnerID:     "demo-user-abc123def",
		Filename:    "portrait.png",
		ContentType: "image/png",
		Data:        bytes.Repeat([]byte{0xaa}, size),
	}
}

func documentUpload(size int) Upload {
	return Upload{
		Path:        "records",
		OwnerID:     "demo-user-abc123def",
		Filename:    "orders.pdf",
		ContentType: "application/pdf",
		Data:        bytes.Repeat([]byte{0xbb}, size),
	}
}

func TestImageValidation(t *testing.T) {
	s := NewDemo(zap.NewNop(), testClock(), 0)
	ctx := context.Background()

	up := imageUpload(16)
	up.ContentType = "application/pdf"
	_, err := s.UploadImage(ctx, up)
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = s.UploadImage(ctx, imageUpload(MaxImageBytes+1))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	obj, err := s.UploadImage(ctx, imageUpload(MaxImageBytes))
	require.NoError(t, err)
	assert.EqualValues(t, MaxImageBytes, obj.Size)
}

func TestDocumentValidation(t *testing.T) {
	s := NewDemo(zap.NewNop(), testClock(), 0)
	ctx := context.Background()

	up := documentUpload(16)
	up.ContentType = "application/zip"
	_, err := s.UploadDocument(ctx, up)
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = s.UploadDocument(ctx, documentUpload(MaxDocumentBytes+1))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	for _, ct := range []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	} {
		up := documentUpload(16)
		up.ContentType = ct
		_, err := s.UploadDocument(ctx, up)
		assert.NoError(t, err, ct)
	}
}

func TestValidationRunsBeforeLatency(t *testing.T) {
	// A long latency store must still reject bad input immediately.
	s := NewDemo(zap.NewNop(), testClock(), time.Minute)

	start := time.Now()
	_, err := s.UploadImage(context.Background(), imageUpload(MaxImageBytes+1))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDemoFabricatesURL(t *testing.T) {
	clk := testClock()
	s := NewDemo(zap.NewNop(), clk, 0)

	obj, err := s.UploadImage(context.Background(), imageUpload(32))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.URL, "https://demo-storage.example.com/"), obj.URL)
	assert.Contains(t, obj.Key, "avatars/")
	assert.Contains(t, obj.Key, "demo-user-abc123def/")
	assert.True(t, strings.HasSuffix(obj.Key, ".png"), obj.Key)
	assert.Equal(t, clk.Now(), obj.UploadedAt)
}

func TestDemoDeleteAlwaysSucceeds(t *testing.T) {
	s := NewDemo(zap.NewNop(), testClock(), 0)
	ctx := context.Background()

	obj, err := s.UploadDocument(ctx, documentUpload(32))
	require.NoError(t, err)

	assert.NoError(t, s.Delete(ctx, obj.Key))
	assert.NoError(t, s.Delete(ctx, obj.Key))
	assert.NoError(t, s.Delete(ctx, "images/u1/never-uploaded.png"))
}

func TestDiskRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := NewDisk(zap.NewNop(), testClock(), root, "https://corpshq.example.com/")
	ctx := context.Background()

	up := imageUpload(64)
	obj, err := s.UploadImage(ctx, up)
	require.NoError(t, err)

	assert.Equal(t, "https://corpshq.example.com/files/"+obj.Key, obj.URL)

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(obj.Key)))
	require.NoError(t, err)
	assert.Equal(t, up.Data, stored)

	require.NoError(t, s.Delete(ctx, obj.Key))
	assert.ErrorIs(t, s.Delete(ctx, obj.Key), ErrDeleteFailed)
}

func TestDiskRejectsTraversal(t *testing.T) {
	s := NewDisk(zap.NewNop(), testClock(), t.TempDir(), "https://corpshq.example.com")
	err := s.Delete(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestKeyShape(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	key := objectKey(Upload{Path: "Unit Records", OwnerID: "user/1", Filename: "My File.PDF"}, now)

	parts := strings.Split(key, "/")
	require.Len(t, parts, 3)
	assert.Equal(t, "unit-records", parts[0])
	assert.Equal(t, "user-1", parts[1])
	assert.True(t, strings.HasPrefix(parts[2], "1772355600000-"), parts[2])
	assert.True(t, strings.HasSuffix(parts[2], ".pdf"), parts[2])
}

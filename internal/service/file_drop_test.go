package service

import (
	"VaultDrop/internal/dto"
	"VaultDrop/model"
	"VaultDrop/utils"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceKindForName(t *testing.T) {
	assert.Equal(t, model.ResourceImage, ResourceKindForName("photo.JPG"))
	assert.Equal(t, model.ResourceImage, ResourceKindForName("icon.png"))
	assert.Equal(t, model.ResourceImage, ResourceKindForName("anim.gif"))
	assert.Equal(t, model.ResourceVideo, ResourceKindForName("clip.mp4"))
	assert.Equal(t, model.ResourceVideo, ResourceKindForName("old.avi"))
	assert.Equal(t, model.ResourceRaw, ResourceKindForName("report.pdf"))
	assert.Equal(t, model.ResourceRaw, ResourceKindForName("noext"))
}

func TestUploadFileDefaults(t *testing.T) {
	store := setupTest(t)

	before := time.Now()
	rec, err := UploadFile(context.Background(), 1, "report.pdf", bytes.NewReader([]byte("data")), 4, &dto.UploadRequest{})
	require.NoError(t, err)

	assert.Equal(t, 5, rec.DownloadLimit)
	assert.Equal(t, 0, rec.DownloadCount)
	assert.Empty(t, rec.PasswordHash)
	assert.False(t, rec.OtpRequired)
	assert.Equal(t, model.ResourceRaw, rec.ResourceKind)
	assert.WithinDuration(t, before.Add(24*time.Hour), rec.ExpiresAt, time.Minute)

	assert.True(t, store.has(rec.Bucket, rec.StorageKey))
	loaded, err := reloadRecord(t, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", loaded.FileName)
}

func TestUploadFilePasswordHashed(t *testing.T) {
	store := setupTest(t)

	rec, err := UploadFile(context.Background(), 1, "secret.txt", bytes.NewReader([]byte("data")), 4, &dto.UploadRequest{
		Password: "hunter2",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.PasswordHash)
	assert.NotEqual(t, "hunter2", rec.PasswordHash)
	assert.True(t, utils.VerifySecret("hunter2", rec.PasswordHash))
	assert.True(t, store.has(rec.Bucket, rec.StorageKey))
}

func TestUploadFileExplicitOptions(t *testing.T) {
	store := setupTest(t)

	before := time.Now()
	rec, err := UploadFile(context.Background(), 2, "clip.mp4", bytes.NewReader([]byte("data")), 4, &dto.UploadRequest{
		TTLHours:      2,
		DownloadLimit: 1,
		Description:   "  demo clip ",
		IsPublic:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.DownloadLimit)
	assert.Equal(t, "demo clip", rec.Description)
	assert.True(t, rec.IsPublic)
	assert.Equal(t, model.ResourceVideo, rec.ResourceKind)
	assert.WithinDuration(t, before.Add(2*time.Hour), rec.ExpiresAt, time.Minute)
	assert.True(t, store.has(rec.Bucket, rec.StorageKey))
}

func TestUploadFileEmptyName(t *testing.T) {
	setupTest(t)

	_, err := UploadFile(context.Background(), 1, "  ", bytes.NewReader(nil), 0, &dto.UploadRequest{})
	require.Error(t, err)
}

func TestListPublic(t *testing.T) {
	store := setupTest(t)
	now := time.Now()

	visible := seedRecord(t, store, func(r *model.FileRecord) {
		r.IsPublic = true
	})
	seedRecord(t, store, func(r *model.FileRecord) {
		r.IsPublic = false
	})
	seedRecord(t, store, func(r *model.FileRecord) {
		r.IsPublic = true
		r.ExpiresAt = now.Add(-time.Minute)
	})

	files, err := ListPublic(now)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, visible.ID, files[0].ID)
}

func TestOwnerDashboard(t *testing.T) {
	store := setupTest(t)
	now := time.Now()

	seedRecord(t, store, func(r *model.FileRecord) {
		r.OwnerID = 9
		r.DownloadCount = 2
	})
	seedRecord(t, store, func(r *model.FileRecord) {
		r.OwnerID = 9
		r.DownloadCount = 3
		r.ExpiresAt = now.Add(-time.Minute)
	})
	seedRecord(t, store, func(r *model.FileRecord) {
		r.OwnerID = 10
		r.DownloadCount = 100
	})

	files, stats, err := OwnerDashboard(9, now)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, 2, stats.TotalUploads)
	assert.Equal(t, int64(5), stats.TotalDownloads)
	assert.Equal(t, 1, stats.ActiveFiles)
}

func TestShareLink(t *testing.T) {
	setupTest(t)
	assert.Equal(t, "http://localhost:8000/download/abc", ShareLink("abc"))
}

package service

import (
	"VaultDrop/config"
	"VaultDrop/internal/dto"
	"VaultDrop/internal/repo"
	"VaultDrop/internal/storage"
	"VaultDrop/model"
	"VaultDrop/utils"
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"
	"time"
)

// ResourceKindForName classifies the blob by filename extension, once,
// at upload time. The stored kind travels on the record so deletion
// never guesses from the object key.
func ResourceKindForName(name string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "jpeg", "jpg", "png", "gif":
		return model.ResourceImage
	case "mp4", "avi", "mov":
		return model.ResourceVideo
	default:
		return model.ResourceRaw
	}
}

// ContentTypeForName resolves the upload content type.
func ContentTypeForName(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ShareLink builds the public download link for a record.
func ShareLink(fileID string) string {
	return config.AppConfig.AppBaseURL + "/download/" + fileID
}

// UploadFile stores the blob and creates its record. The record is
// complete at creation: expiry from the TTL, limit defaulted, password
// hashed, resource kind stored.
func UploadFile(
	ctx context.Context,
	ownerID uint64,
	fileName string,
	reader io.Reader,
	size int64,
	req *dto.UploadRequest,
) (*model.FileRecord, error) {
	if storage.Default == nil {
		return nil, errors.New("storage not initialized")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, errors.New("file name required")
	}

	ttlHours := req.TTLHours
	if ttlHours <= 0 {
		ttlHours = config.AppConfig.DefaultTTLHours
	}
	limit := req.DownloadLimit
	if limit <= 0 {
		limit = config.AppConfig.DefaultDownloadLimit
	}

	id := utils.GetToken()
	kind := ResourceKindForName(fileName)
	objectName := "vaultdrop/" + kind + "/" + id
	bucket := config.AppConfig.BucketName

	if err := storage.Default.PutObject(ctx, bucket, objectName, reader, size, storage.PutOptions{
		ContentType: ContentTypeForName(fileName),
	}); err != nil {
		return nil, err
	}

	rec := &model.FileRecord{
		ID:            id,
		OwnerID:       ownerID,
		Bucket:        bucket,
		StorageKey:    objectName,
		ResourceKind:  kind,
		FileName:      fileName,
		Description:   strings.TrimSpace(req.Description),
		Size:          size,
		ExpiresAt:     time.Now().Add(time.Duration(ttlHours) * time.Hour),
		DownloadLimit: limit,
		IsPublic:      req.IsPublic,
	}
	if req.Password != "" {
		rec.PasswordHash = utils.HashSecret(req.Password)
	}

	if err := repo.Db.Create(rec).Error; err != nil {
		_ = storage.Default.RemoveObject(ctx, bucket, objectName)
		return nil, err
	}

	repo.SetFileExpireKey(ctx, rec.ID, time.Until(rec.ExpiresAt))
	return rec, nil
}

// ListPublic returns records flagged public that have not yet expired.
func ListPublic(now time.Time) ([]model.FileRecord, error) {
	var records []model.FileRecord
	err := repo.Db.
		Where("is_public = ? AND expires_at > ?", true, now).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// ListOwnerFiles returns all records belonging to an owner.
func ListOwnerFiles(ownerID uint64) ([]model.FileRecord, error) {
	var records []model.FileRecord
	err := repo.Db.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// OwnerDashboard aggregates upload counts for the analytics view.
func OwnerDashboard(ownerID uint64, now time.Time) ([]model.FileRecord, *dto.DashboardStats, error) {
	files, err := ListOwnerFiles(ownerID)
	if err != nil {
		return nil, nil, err
	}
	stats := &dto.DashboardStats{TotalUploads: len(files)}
	for i := range files {
		stats.TotalDownloads += int64(files[i].DownloadCount)
		if files[i].ExpiresAt.After(now) {
			stats.ActiveFiles++
		}
	}
	return files, stats, nil
}

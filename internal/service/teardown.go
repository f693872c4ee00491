package service

import (
	"VaultDrop/internal/repo"
	"VaultDrop/internal/storage"
	"VaultDrop/model"
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
)

// TeardownOutcome reports the two halves of a teardown. Either half may
// fail without resurrecting the other; the next sweep retries whatever
// metadata is still around.
type TeardownOutcome struct {
	BlobDeleted bool
	MetaDeleted bool
	BlobErr     error
	MetaErr     error
}

// Partial reports whether any step of the teardown failed.
func (o TeardownOutcome) Partial() bool {
	return o.BlobErr != nil || o.MetaErr != nil
}

// TeardownRecord deletes a record's blob and metadata. The blob goes
// first, but a blob failure never blocks metadata removal: stale
// metadata must not become undeletable because the remote store
// already lost the object. Idempotent for both steps.
func TeardownRecord(ctx context.Context, rec *model.FileRecord) TeardownOutcome {
	var out TeardownOutcome

	if storage.Default == nil {
		out.BlobErr = errors.New("storage not initialized")
	} else if err := storage.Default.RemoveObject(ctx, rec.Bucket, rec.StorageKey); err != nil {
		out.BlobErr = err
	} else {
		out.BlobDeleted = true
	}
	if out.BlobErr != nil {
		log.Printf("teardown: blob delete failed for record %s (%s): %v", rec.ID, rec.StorageKey, out.BlobErr)
	}

	if err := repo.Db.Delete(&model.FileRecord{}, "id = ?", rec.ID).Error; err != nil {
		out.MetaErr = err
		log.Printf("teardown: metadata delete failed for record %s: %v", rec.ID, err)
	} else {
		out.MetaDeleted = true
	}

	repo.DelFileExpireKey(ctx, rec.ID)
	return out
}

// TeardownByID loads and tears down a record. A record that is already
// gone counts as success, so concurrent deleters never trip over each
// other.
func TeardownByID(ctx context.Context, fileID string) TeardownOutcome {
	var rec model.FileRecord
	if err := repo.Db.Where("id = ?", fileID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TeardownOutcome{BlobDeleted: true, MetaDeleted: true}
		}
		return TeardownOutcome{MetaErr: err}
	}
	return TeardownRecord(ctx, &rec)
}

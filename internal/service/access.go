package service

import (
	"VaultDrop/config"
	"VaultDrop/internal/repo"
	"VaultDrop/internal/storage"
	"VaultDrop/model"
	"VaultDrop/utils"
	"errors"
	"fmt"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

// AccessStatus is the externally observable result of an access attempt.
type AccessStatus int

const (
	AccessServed AccessStatus = iota
	AccessNotFound
	AccessGone
	AccessLimitReached
	AccessUnauthorized
)

// Unauthorized reasons.
const (
	ReasonPassword   = "password"
	ReasonOtpMissing = "otp-missing"
	ReasonOtpInvalid = "otp-invalid"
	ReasonOtpExpired = "otp-expired"
)

// AccessResult carries the verdict and, on success, the servable
// reference captured before any teardown.
type AccessResult struct {
	Status      AccessStatus
	Reason      string
	URL         string
	FileName    string
	Description string
}

// GateInfo describes the gates guarding a file, for the pre-download
// check endpoint.
type GateInfo struct {
	RequiresOtp   bool   `json:"requires_otp"`
	HasPassword   bool   `json:"has_password"`
	Description   string `json:"description"`
	DownloadLimit int    `json:"download_limit"`
	DownloadCount int    `json:"download_count"`
}

// AttemptAccess runs the full guard for one download attempt. Check
// order is fixed: existence, lifecycle, password, OTP, then the counter
// mutation. Expired and exhausted records are torn down on sight; a
// failed credential leaves the record untouched except for observed
// stale OTP state, which is cleared.
func AttemptAccess(ctx context.Context, fileID, password, otp string, now time.Time) (*AccessResult, error) {
	var rec model.FileRecord
	if err := repo.Db.Where("id = ?", fileID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AccessResult{Status: AccessNotFound}, nil
		}
		return nil, err
	}

	switch EvaluatePolicy(&rec, now) {
	case DecisionExpired:
		TeardownRecord(ctx, &rec)
		return &AccessResult{Status: AccessGone}, nil
	case DecisionQuotaExhausted:
		TeardownRecord(ctx, &rec)
		return &AccessResult{Status: AccessLimitReached}, nil
	}

	if !CheckFilePassword(&rec, password) {
		return &AccessResult{Status: AccessUnauthorized, Reason: ReasonPassword}, nil
	}

	switch CheckFileOtp(&rec, otp, now) {
	case OtpExpired:
		if err := clearOtpFields(&rec); err != nil {
			return nil, err
		}
		return &AccessResult{Status: AccessUnauthorized, Reason: ReasonOtpExpired}, nil
	case OtpMissing:
		return &AccessResult{Status: AccessUnauthorized, Reason: ReasonOtpMissing}, nil
	case OtpInvalid:
		return &AccessResult{Status: AccessUnauthorized, Reason: ReasonOtpInvalid}, nil
	}

	last, ok, err := consumeDownload(&rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race for the final slot: the quota is exhausted
		// from this attempt's point of view.
		TeardownRecord(ctx, &rec)
		return &AccessResult{Status: AccessLimitReached}, nil
	}

	// The reference must exist before teardown; the last authorized
	// download still succeeds even though the record dies with it.
	result, err := buildServableResult(ctx, &rec)
	if err != nil {
		// The final slot is already spent, so the record must not
		// outlive this attempt with count == limit.
		if last {
			TeardownRecord(ctx, &rec)
		}
		return nil, err
	}
	if last {
		TeardownRecord(ctx, &rec)
	}
	return result, nil
}

// consumeDownload claims one download slot with conditional updates,
// so two concurrent attempts can never both claim the final slot and
// the persisted count can never pass the limit. Returns whether the
// claimed slot was the final one.
func consumeDownload(rec *model.FileRecord) (last bool, ok bool, err error) {
	res := repo.Db.Model(&model.FileRecord{}).
		Where("id = ? AND download_count < download_limit - 1", rec.ID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	if res.Error != nil {
		return false, false, res.Error
	}
	if res.RowsAffected == 1 {
		rec.DownloadCount++
		return false, true, nil
	}

	res = repo.Db.Model(&model.FileRecord{}).
		Where("id = ? AND download_count = download_limit - 1", rec.ID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	if res.Error != nil {
		return false, false, res.Error
	}
	if res.RowsAffected == 1 {
		rec.DownloadCount = rec.DownloadLimit
		return true, true, nil
	}
	return false, false, nil
}

// buildServableResult presigns the download URL with the stored
// filename forced into the content disposition.
func buildServableResult(ctx context.Context, rec *model.FileRecord) (*AccessResult, error) {
	if storage.Default == nil {
		return nil, errors.New("storage not initialized")
	}
	safeName := utils.SanitizeHeaderFilename(rec.FileName)
	url, err := storage.Default.PresignedGetObjectWithResponse(
		ctx,
		rec.Bucket,
		rec.StorageKey,
		config.AppConfig.PresignExpiry,
		map[string]string{
			"response-content-disposition": fmt.Sprintf(`attachment; filename="%s"`, safeName),
		},
	)
	if err != nil {
		return nil, err
	}
	return &AccessResult{
		Status:      AccessServed,
		URL:         url,
		FileName:    rec.FileName,
		Description: rec.Description,
	}, nil
}

// CheckGate reports which gates guard a file. Observing a stale OTP
// clears it, so the gate info never advertises an OTP nobody can
// satisfy anymore.
func CheckGate(ctx context.Context, fileID string, now time.Time) (*GateInfo, error) {
	var rec model.FileRecord
	if err := repo.Db.Where("id = ?", fileID).First(&rec).Error; err != nil {
		return nil, err
	}

	if rec.OtpRequired && (rec.OtpExpiresAt == nil || rec.OtpExpiresAt.Before(now)) {
		if err := clearOtpFields(&rec); err != nil {
			return nil, err
		}
	}

	return &GateInfo{
		RequiresOtp:   rec.OtpRequired,
		HasPassword:   rec.HasPassword(),
		Description:   rec.Description,
		DownloadLimit: rec.DownloadLimit,
		DownloadCount: rec.DownloadCount,
	}, nil
}

// OwnerDelete removes a record on its owner's request. Anyone else is
// denied.
func OwnerDelete(ctx context.Context, fileID string, requesterID uint64) error {
	var rec model.FileRecord
	if err := repo.Db.Where("id = ?", fileID).First(&rec).Error; err != nil {
		return err
	}
	if rec.OwnerID != requesterID {
		return errors.New("permission denied")
	}
	out := TeardownRecord(ctx, &rec)
	return out.MetaErr
}

// clearOtpFields drops stale OTP state from the record, both persisted
// and in memory.
func clearOtpFields(rec *model.FileRecord) error {
	if err := repo.Db.Model(&model.FileRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"otp_hash":       "",
			"otp_expires_at": nil,
			"otp_required":   false,
		}).Error; err != nil {
		return err
	}
	rec.OtpHash = ""
	rec.OtpExpiresAt = nil
	rec.OtpRequired = false
	return nil
}

package service

import (
	"VaultDrop/config"
	"VaultDrop/internal/repo"
	"VaultDrop/internal/task"
	"VaultDrop/model"
	"VaultDrop/utils"
	"context"
	"time"
)

// IssueOtpGate arms the OTP gate on a file and queues the code for
// delivery. Two-phase on purpose: the enqueue happens first, and the
// OTP fields are persisted only once the queue has accepted the
// message, so a record never claims otp_required with no recipient
// notified. Delivery failures after that surface in notify_task.
func IssueOtpGate(ctx context.Context, fileID, recipient string) error {
	var rec model.FileRecord
	if err := repo.Db.Where("id = ?", fileID).First(&rec).Error; err != nil {
		return err
	}

	code := utils.GenOtpCode()
	if _, err := task.CreateOtpNotifyTask(ctx, rec.ID, recipient, code, ShareLink(rec.ID)); err != nil {
		return err
	}

	expiresAt := time.Now().Add(config.AppConfig.OtpTTL)
	if err := repo.Db.Model(&model.FileRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"otp_hash":       utils.HashSecret(code),
			"otp_expires_at": &expiresAt,
			"otp_required":   true,
		}).Error; err != nil {
		return err
	}
	return nil
}

package task

import (
	"VaultDrop/internal/mq"
	"VaultDrop/internal/repo"
	"VaultDrop/model"
	"context"
	"encoding/json"
	"time"
)

// NotifyMessage is the payload sent to the notify worker. The plaintext
// OTP rides only on the queue; the database keeps just the hash.
type NotifyMessage struct {
	TaskID    uint64 `json:"task_id"`
	FileID    string `json:"file_id"`
	Recipient string `json:"recipient"`
	OtpCode   string `json:"otp_code"`
	Link      string `json:"link"`
	Attempt   int    `json:"attempt"`
}

// CreateOtpNotifyTask records and enqueues one OTP mail delivery.
// Returns an error without side effects beyond the task row when the
// enqueue fails, so the caller can refuse to arm the OTP gate.
func CreateOtpNotifyTask(ctx context.Context, fileID, recipient, otpCode, link string) (*model.NotifyTask, error) {
	task := &model.NotifyTask{
		FileID:    fileID,
		Recipient: recipient,
		Status:    "pending",
	}
	if err := repo.Db.Create(task).Error; err != nil {
		return nil, err
	}

	msg := NotifyMessage{
		TaskID:    task.ID,
		FileID:    fileID,
		Recipient: recipient,
		OtpCode:   otpCode,
		Link:      link,
		Attempt:   0,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		markNotifyTaskFailed(task.ID, err)
		return nil, err
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		markNotifyTaskFailed(task.ID, err)
		return nil, err
	}
	if err := publisher.PublishNotify(ctx, body); err != nil {
		markNotifyTaskFailed(task.ID, err)
		return nil, err
	}
	return task, nil
}

// ListNotifyTasks lists recent delivery attempts for a file.
func ListNotifyTasks(fileID string, limit int) ([]model.NotifyTask, error) {
	if limit <= 0 {
		limit = 20
	}
	var tasks []model.NotifyTask
	err := repo.Db.
		Where("file_id = ?", fileID).
		Order("created_at DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func markNotifyTaskFailed(taskID uint64, cause error) {
	_ = repo.Db.Model(&model.NotifyTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":    "failed",
			"error_msg": cause.Error(),
		}).Error
}

// MarkNotifySent flips a task to sent.
func MarkNotifySent(taskID uint64) error {
	now := time.Now()
	return repo.Db.Model(&model.NotifyTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":  "sent",
			"sent_at": &now,
		}).Error
}

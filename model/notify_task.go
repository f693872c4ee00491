package model

import "time"

// NotifyTask tracks one OTP mail delivery through the queue, so a
// failed send is visible instead of silently lost.
type NotifyTask struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	FileID    string `gorm:"column:file_id;size:64;index;not null" json:"file_id"`
	Recipient string `gorm:"column:recipient;type:varchar(255);not null" json:"recipient"`

	Status      string     `gorm:"column:status;type:varchar(32);index;not null" json:"status"` // pending / retrying / sent / failed
	ErrorMsg    string     `gorm:"column:error_msg;type:text" json:"error_msg"`
	RetryCount  int        `gorm:"column:retry_count;default:0" json:"retry_count"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at" json:"next_retry_at"`
	SentAt      *time.Time `gorm:"column:sent_at" json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (NotifyTask) TableName() string {
	return "notify_task"
}

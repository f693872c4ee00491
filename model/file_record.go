package model

import "time"

// ResourceKind is stored on the record at upload time so teardown never
// has to infer the blob type from the object key.
const (
	ResourceRaw   = "raw"
	ResourceImage = "image"
	ResourceVideo = "video"
)

type FileRecord struct {
	ID string `gorm:"primaryKey;size:64" json:"id"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID" json:"-"`

	Bucket       string `gorm:"column:bucket;size:64;not null" json:"-"`
	StorageKey   string `gorm:"column:storage_key;size:512;not null" json:"-"`
	ResourceKind string `gorm:"column:resource_kind;size:16;not null;default:raw" json:"resource_kind"`

	FileName    string `gorm:"column:file_name;size:255;not null" json:"file_name"`
	Description string `gorm:"column:description;size:1000;not null;default:''" json:"description"`
	Size        int64  `gorm:"column:size;not null;default:0" json:"size"`

	PasswordHash string `gorm:"column:password_hash;size:255;not null;default:''" json:"-"`

	ExpiresAt     time.Time `gorm:"column:expires_at;not null;index" json:"expires_at"`
	DownloadLimit int       `gorm:"column:download_limit;not null;default:5" json:"download_limit"`
	DownloadCount int       `gorm:"column:download_count;not null;default:0" json:"download_count"`

	OtpHash      string     `gorm:"column:otp_hash;size:255;not null;default:''" json:"-"`
	OtpExpiresAt *time.Time `gorm:"column:otp_expires_at" json:"-"`
	OtpRequired  bool       `gorm:"column:otp_required;not null;default:false" json:"otp_required"`

	IsPublic bool `gorm:"column:is_public;not null;default:false" json:"is_public"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (FileRecord) TableName() string {
	return "file_record"
}

// HasPassword reports whether the record is password gated.
func (r *FileRecord) HasPassword() bool {
	return r.PasswordHash != ""
}

package dto

// UploadRequest is the typed form accompanying a multipart upload.
type UploadRequest struct {
	Password      string `form:"password"`
	Description   string `form:"description"`
	TTLHours      int    `form:"ttl_hours"`
	DownloadLimit int    `form:"download_limit"`
	IsPublic      bool   `form:"is_public"`
}

// ShareRequest asks for an OTP gate to be issued to a recipient.
type ShareRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// DownloadRequest carries the secrets for one access attempt.
type DownloadRequest struct {
	Password string `json:"password"`
	Otp      string `json:"otp"`
}

// DeleteFileRequest identifies the record an owner wants gone.
type DeleteFileRequest struct {
	FileID string `json:"file_id" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ForgotPasswordRequest starts a password reset for an account.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries the new password for a reset token.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username      string `json:"username" binding:"required"`
	FirstPassword string `json:"first-password" binding:"required"`
	LastPassword  string `json:"second-password" binding:"required"`
	Email         string `json:"email" binding:"required"`
}

package dto

// UploadResponse returns the shareable link for a fresh record.
type UploadResponse struct {
	FileID        string `json:"file_id"`
	ShareableLink string `json:"shareable_link"`
}

// DownloadResponse is the servable reference handed to an authorized
// caller.
type DownloadResponse struct {
	URL         string `json:"url"`
	FileName    string `json:"filename"`
	Description string `json:"description"`
}

// DashboardStats aggregates an owner's upload activity.
type DashboardStats struct {
	TotalUploads   int   `json:"total_uploads"`
	TotalDownloads int64 `json:"total_downloads"`
	ActiveFiles    int   `json:"active_files"`
}

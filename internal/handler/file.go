package handler

import (
	"VaultDrop/config"
	"VaultDrop/internal/dto"
	"VaultDrop/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UploadFile stores an uploaded file and returns its shareable link.
func UploadFile(c *gin.Context) {
	var req dto.UploadRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if maxBytes := config.AppConfig.MaxUploadBytes; maxBytes > 0 && fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open upload failed"})
		return
	}
	defer src.Close()

	userID := c.MustGet("user_id").(uint64)
	rec, err := service.UploadFile(
		c.Request.Context(),
		userID,
		fileHeader.Filename,
		src,
		fileHeader.Size,
		&req,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{
		FileID:        rec.ID,
		ShareableLink: service.ShareLink(rec.ID),
	})
}

// CheckFile reports which gates guard a file before a download attempt.
func CheckFile(c *gin.Context) {
	fileID := c.Param("fileID")
	gate, err := service.CheckGate(c.Request.Context(), fileID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check failed"})
		return
	}
	c.JSON(http.StatusOK, gate)
}

// DownloadFile runs the access guard and returns the servable
// reference, or the deny code the guard decided on.
func DownloadFile(c *gin.Context) {
	fileID := c.Param("fileID")
	var req dto.DownloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
	}

	result, err := service.AttemptAccess(c.Request.Context(), fileID, req.Password, req.Otp, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		return
	}

	switch result.Status {
	case service.AccessNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
	case service.AccessGone:
		c.JSON(http.StatusGone, gin.H{"error": "file has expired"})
	case service.AccessLimitReached:
		c.JSON(http.StatusForbidden, gin.H{"error": "download limit reached"})
	case service.AccessUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": unauthorizedMessage(result.Reason)})
	case service.AccessServed:
		c.JSON(http.StatusOK, dto.DownloadResponse{
			URL:         result.URL,
			FileName:    result.FileName,
			Description: result.Description,
		})
	}
}

func unauthorizedMessage(reason string) string {
	switch reason {
	case service.ReasonPassword:
		return "invalid password"
	case service.ReasonOtpMissing:
		return "OTP is required"
	case service.ReasonOtpExpired:
		return "OTP has expired, please request a new OTP"
	case service.ReasonOtpInvalid:
		return "invalid OTP"
	default:
		return "unauthorized"
	}
}

// DeleteFile removes a record on its owner's request.
func DeleteFile(c *gin.Context) {
	var req dto.DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(uint64)
	if err := service.OwnerDelete(c.Request.Context(), req.FileID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		if err.Error() == "permission denied" {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "file deleted"})
}

// ListPublicFiles lists public, unexpired records.
func ListPublicFiles(c *gin.Context) {
	records, err := service.ListPublic(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": records})
}

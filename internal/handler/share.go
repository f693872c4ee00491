package handler

import (
	"VaultDrop/internal/dto"
	"VaultDrop/internal/repo"
	"VaultDrop/internal/service"
	"VaultDrop/internal/task"
	"VaultDrop/model"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ShareFile issues an OTP gate for a file and mails the code to the
// recipient.
func ShareFile(c *gin.Context) {
	fileID := c.Param("fileID")
	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if err := service.IssueOtpGate(c.Request.Context(), fileID, req.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send OTP: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":  "OTP sent to email successfully",
		"link": service.ShareLink(fileID),
	})
}

// ShareStatus lists recent OTP mail deliveries for an owner's file, so
// a failed send is visible instead of silently lost.
func ShareStatus(c *gin.Context) {
	fileID := c.Param("fileID")
	userID := c.MustGet("user_id").(uint64)

	var rec model.FileRecord
	if err := repo.Db.Where("id = ?", fileID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status failed"})
		return
	}
	if rec.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	tasks, err := task.ListNotifyTasks(fileID, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": tasks})
}

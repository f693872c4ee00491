package handler

import (
	"VaultDrop/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Dashboard returns the current user's files and aggregate stats.
func Dashboard(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)
	files, stats, err := service.OwnerDashboard(userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch analytics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"stats": stats,
	})
}

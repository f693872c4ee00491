package handler

import (
	"VaultDrop/config"
	"VaultDrop/internal/dto"
	"VaultDrop/internal/repo"
	"VaultDrop/internal/service"
	"VaultDrop/utils"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/net/context"
)

// ForgotPassword sends a password reset link to a registered email.
func ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := service.GetUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	token := uuid.NewString()
	key := "reset:" + token
	if err := repo.Redis.Set(context.Background(), key, strconv.FormatUint(user.ID, 10), time.Hour).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache reset token failed: " + err.Error()})
		return
	}

	link := buildResetLink(token)
	if err := utils.SendResetMail(user.Email, link); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send reset email failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "password reset email sent"})
}

func buildResetLink(token string) string {
	baseURL := strings.TrimRight(config.AppConfig.AppBaseURL, "/")
	return baseURL + "/reset-password/" + url.PathEscape(token)
}

// ResetPassword sets a new password for a valid reset token. The token
// is single use.
func ResetPassword(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token missing"})
		return
	}
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := context.Background()
	key := "reset:" + token
	val, err := repo.Redis.Get(ctx, key).Result()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset token"})
		return
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset token"})
		return
	}

	if err := service.UpdatePassword(userID, req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset password failed"})
		return
	}
	repo.Redis.Del(ctx, key)

	c.JSON(http.StatusOK, gin.H{"msg": "password reset successful"})
}

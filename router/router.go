package router

import (
	"VaultDrop/internal/handler"
	"VaultDrop/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/register", handler.Register)
		api.GET("/activate", handler.Activate)
		api.POST("/login", handler.Login)
		api.POST("/forgot-password", handler.ForgotPassword)
		api.POST("/reset-password/:token", handler.ResetPassword)

		// Public: gate checks and gated downloads need no account.
		api.GET("/file/check/:fileID", handler.CheckFile)
		api.POST("/file/download/:fileID", handler.DownloadFile)
		api.GET("/file/public", handler.ListPublicFiles)

		auth := api.Group("")
		auth.Use(utils.AuthMiddleware())

		file := auth.Group("/file")
		{
			file.POST("/upload", handler.UploadFile)
			file.POST("/share/:fileID", handler.ShareFile)
			file.GET("/share/:fileID/status", handler.ShareStatus)
			file.POST("/delete", handler.DeleteFile)
		}

		analytics := auth.Group("/analytics")
		{
			analytics.GET("/dashboard", handler.Dashboard)
		}
	}
	return r
}

package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/files", handler.Upload)
		v1.GET("/files", handler.ListFiles)
		v1.GET("/files/:file_id/records", handler.FileRecords)
		v1.GET("/files/:file_id/problematic", handler.ProblematicRecords)
		v1.DELETE("/files/:file_id", handler.DeleteFile)

		v1.GET("/reports/duplicates", handler.DuplicateReport)

		v1.POST("/backfill", handler.Backfill)
	}
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/models"
	"github.com/dentalops/dentallab-api/services"
	"github.com/dentalops/dentallab-api/utils"
)

// UploadJobAttachment handles POST /api/v1/production/:id/attachments -
// attaches a file (scan, photo, printable model) to a production job
func UploadJobAttachment(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	jobID := c.Param("id")

	db := config.GetDB()
	var job models.ProductionJob
	if err := db.Where("id = ? AND is_active = ?", jobID, true).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JOB_NOT_FOUND",
				"message": "Production job not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A file is required",
			},
		})
		return
	}

	svc := services.GetAttachmentService()
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "File storage is not configured",
			},
		})
		return
	}

	key, err := svc.UploadAttachment(fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store file",
			},
		})
		return
	}

	attachment := models.JobAttachment{
		JobID:       job.ID,
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		S3Key:       key,
	}
	if err := db.Create(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record attachment",
			},
		})
		return
	}

	if url, err := svc.GetAttachmentURL(key); err == nil {
		attachment.URL = url
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    attachment,
	})
}

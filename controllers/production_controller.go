package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/models"
	"github.com/dentalops/dentallab-api/services"
)

// ListJobs handles GET /api/v1/production - lists active production jobs
// enriched with their order number and presigned attachment URLs
func ListJobs(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var jobs []models.ProductionJob
	if err := db.Where("is_active = ?", true).
		Preload("Order").
		Preload("Attachments").
		Order("created_at ASC").
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch production jobs",
			},
		})
		return
	}

	// Attachment URLs are presigned per request; a broken link only logs.
	if svc := services.GetAttachmentService(); svc != nil {
		for i := range jobs {
			for j := range jobs[i].Attachments {
				url, err := svc.GetAttachmentURL(jobs[i].Attachments[j].S3Key)
				if err != nil {
					log.Printf("presign failed for attachment %d: %v", jobs[i].Attachments[j].ID, err)
					continue
				}
				jobs[i].Attachments[j].URL = url
			}
		}
	}

	type jobView struct {
		models.ProductionJob
		OrderNumber string `json:"order_number"`
	}
	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, jobView{ProductionJob: job, OrderNumber: job.Order.OrderNumber})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// CreateJobRequest represents the request body for creating a production job
type CreateJobRequest struct {
	OrderID    uint   `json:"order_id" binding:"required"`
	StageID    string `json:"stage_id"`
	OperatorID *uint  `json:"operator_id"`
	WorkType   string `json:"work_type"`
	Material   string `json:"material"`
}

// CreateJob handles POST /api/v1/production - creates a job by hand.
// Normally jobs are created by the transition engine; this exists for the
// production settings page.
func CreateJob(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.Where("id = ? AND is_active = ?", req.OrderID, true).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	// One active job per order; reject instead of silently stacking.
	var existing int64
	db.Model(&models.ProductionJob{}).
		Where("order_id = ? AND is_active = ?", order.ID, true).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JOB_EXISTS",
				"message": "An active production job already exists for this order",
			},
		})
		return
	}

	stageID := req.StageID
	if stageID == "" {
		stageID = services.InitialProductionStage
	}

	operatorName := ""
	if req.OperatorID != nil {
		var operator models.User
		if err := db.First(&operator, *req.OperatorID).Error; err == nil {
			operatorName = operator.Name
		}
	}

	workType := req.WorkType
	if workType == "" {
		workType = order.WorkType
	}
	material := req.Material
	if material == "" {
		material = order.Material
	}

	job := models.ProductionJob{
		OrderID:           order.ID,
		StageID:           services.ResolveProductionStage(db, stageID).ID,
		OperatorID:        req.OperatorID,
		OperatorName:      operatorName,
		WorkType:          workType,
		Material:          material,
		EstimatedDelivery: order.EstimatedDelivery,
		IsActive:          true,
	}
	if err := db.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create production job",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    job,
	})
}

// UpdateJobRequest represents the request body for updating a production job
type UpdateJobRequest struct {
	StageID    *string `json:"stage_id"`
	OperatorID *uint   `json:"operator_id"`
}

// UpdateJob handles PATCH /api/v1/production?id= - job stage/operator update,
// invoked by the task board on cross-column moves
func UpdateJob(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	idParam := c.Query("id")
	if idParam == "" {
		idParam = c.Param("id")
	}
	if idParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Job ID is required",
			},
		})
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var job models.ProductionJob
	if err := db.Where("id = ? AND is_active = ?", idParam, true).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JOB_NOT_FOUND",
				"message": "Production job not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.StageID != nil {
		updates["stage_id"] = services.ResolveProductionStage(db, *req.StageID).ID
	}
	if req.OperatorID != nil {
		updates["operator_id"] = *req.OperatorID
		var operator models.User
		if err := db.First(&operator, *req.OperatorID).Error; err == nil {
			updates["operator_name"] = operator.Name
		}
	}

	if len(updates) > 0 {
		if err := db.Model(&job).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update production job",
				},
			})
			return
		}
	}

	if err := db.First(&job, job.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load production job",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

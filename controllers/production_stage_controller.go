package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/models"
)

// ListProductionStages handles GET /api/v1/production/stages
func ListProductionStages(c *gin.Context) {
	db := config.GetDB()
	var stages []models.ProductionStage
	if err := db.Order("sort_order ASC").Find(&stages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch production stages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stages,
	})
}

// CreateProductionStageRequest represents the request body for creating a production stage
type CreateProductionStageRequest struct {
	ID        string `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Order     int    `json:"order"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

// CreateProductionStage handles POST /api/v1/production/stages
func CreateProductionStage(c *gin.Context) {
	var req CreateProductionStageRequest
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

	stage := models.ProductionStage{
		ID:        req.ID,
		Name:      req.Name,
		SortOrder: req.Order,
		Color:     req.Color,
		TextColor: req.TextColor,
	}

	db := config.GetDB()
	if err := db.Create(&stage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create production stage",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    stage,
	})
}

// ReorderProductionStages handles PUT /api/v1/production/stages - batch
// reorder, same transactional contract as the Kanban catalog
func ReorderProductionStages(c *gin.Context) {
	var req ReorderStagesRequest
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
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, s := range req.Stages {
			res := tx.Model(&models.ProductionStage{}).
				Where("id = ?", s.ID).
				Update("sort_order", s.Order)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "DATABASE_ERROR"
		message := "Failed to reorder production stages"
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
			code = "STAGE_NOT_FOUND"
			message = "One of the stages does not exist"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": message,
			},
		})
		return
	}

	var stages []models.ProductionStage
	if err := db.Order("sort_order ASC").Find(&stages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch production stages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stages,
	})
}

// UpdateProductionStageRequest represents the request body for patching a production stage
type UpdateProductionStageRequest struct {
	Name      *string `json:"name"`
	Order     *int    `json:"order"`
	Color     *string `json:"color"`
	TextColor *string `json:"text_color"`
}

// UpdateProductionStage handles PATCH /api/v1/production/stages/:id
func UpdateProductionStage(c *gin.Context) {
	stageID := c.Param("id")

	var req UpdateProductionStageRequest
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
	var stage models.ProductionStage
	if err := db.First(&stage, "id = ?", stageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STAGE_NOT_FOUND",
				"message": "Production stage not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.TextColor != nil {
		updates["text_color"] = *req.TextColor
	}

	if len(updates) > 0 {
		if err := db.Model(&stage).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update production stage",
				},
			})
			return
		}
	}

	if err := db.First(&stage, "id = ?", stageID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load production stage",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stage,
	})
}

// DeleteProductionStage handles DELETE /api/v1/production/stages/:id
func DeleteProductionStage(c *gin.Context) {
	stageID := c.Param("id")

	db := config.GetDB()
	res := db.Delete(&models.ProductionStage{}, "id = ?", stageID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete production stage",
			},
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STAGE_NOT_FOUND",
				"message": "Production stage not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Production stage deleted",
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/models"
)

// ListStages handles GET /api/v1/stages - Kanban stage catalog in board order
func ListStages(c *gin.Context) {
	db := config.GetDB()
	var stages []models.KanbanStage
	if err := db.Order("sort_order ASC").Find(&stages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch stages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stages,
	})
}

// CreateStageRequest represents the request body for creating a Kanban stage
type CreateStageRequest struct {
	ID                 string  `json:"id" binding:"required"`
	Name               string  `json:"name" binding:"required"`
	Order              int     `json:"order"`
	Color              string  `json:"color"`
	TextColor          string  `json:"text_color"`
	TriggersProduction bool    `json:"triggers_production"`
	ProductionStageID  *string `json:"production_stage_id"`
}

// CreateStage handles POST /api/v1/stages
func CreateStage(c *gin.Context) {
	var req CreateStageRequest
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

	stage := models.KanbanStage{
		ID:                 req.ID,
		Name:               req.Name,
		SortOrder:          req.Order,
		Color:              req.Color,
		TextColor:          req.TextColor,
		TriggersProduction: req.TriggersProduction,
		ProductionStageID:  req.ProductionStageID,
	}

	db := config.GetDB()
	if err := db.Create(&stage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create stage",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    stage,
	})
}

// ReorderStagesRequest is the batch payload written by the settings page
// after an admin drags whole columns around
type ReorderStagesRequest struct {
	Stages []struct {
		ID    string `json:"id" binding:"required"`
		Order int    `json:"order"`
	} `json:"stages" binding:"required"`
}

// ReorderStages handles PUT /api/v1/stages - batch reorder in one
// transaction: either every column moves or none does
func ReorderStages(c *gin.Context) {
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
			res := tx.Model(&models.KanbanStage{}).
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
		message := "Failed to reorder stages"
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

	var stages []models.KanbanStage
	if err := db.Order("sort_order ASC").Find(&stages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch stages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stages,
	})
}

// UpdateStageRequest represents the request body for patching a Kanban stage
type UpdateStageRequest struct {
	Name               *string `json:"name"`
	Order              *int    `json:"order"`
	Color              *string `json:"color"`
	TextColor          *string `json:"text_color"`
	TriggersProduction *bool   `json:"triggers_production"`
	ProductionStageID  *string `json:"production_stage_id"`
}

// UpdateStage handles PATCH /api/v1/stages/:id
func UpdateStage(c *gin.Context) {
	stageID := c.Param("id")

	var req UpdateStageRequest
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
	var stage models.KanbanStage
	if err := db.First(&stage, "id = ?", stageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STAGE_NOT_FOUND",
				"message": "Stage not found",
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
	if req.TriggersProduction != nil {
		updates["triggers_production"] = *req.TriggersProduction
	}
	if req.ProductionStageID != nil {
		updates["production_stage_id"] = *req.ProductionStageID
	}

	if len(updates) > 0 {
		if err := db.Model(&stage).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update stage",
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
				"message": "Failed to load stage",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stage,
	})
}

// DeleteStage handles DELETE /api/v1/stages/:id
func DeleteStage(c *gin.Context) {
	stageID := c.Param("id")

	db := config.GetDB()
	res := db.Delete(&models.KanbanStage{}, "id = ?", stageID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete stage",
			},
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STAGE_NOT_FOUND",
				"message": "Stage not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stage deleted",
	})
}

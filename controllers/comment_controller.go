package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/models"
	"github.com/dentalops/dentallab-api/services"
)

// AddCommentRequest represents the request body for commenting on an order
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment handles POST /api/v1/orders/:id/comments - adds a comment to
// an order's conversation thread
func AddComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order ID is required",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND is_active = ?", orderID, true).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	// Dentists can only comment on their own cases
	if !user.IsTeamRole() && order.CreatedBy != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to comment on this order",
			},
		})
		return
	}

	var req AddCommentRequest
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

	comment := models.Comment{
		OrderID:  order.ID,
		AuthorID: user.ID,
		Text:     req.Text,
	}

	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create comment",
			},
		})
		return
	}

	// Tell the other side of the conversation. Best-effort.
	targets := []uint{order.CreatedBy}
	if order.AssignedTo != nil {
		targets = append(targets, *order.AssignedTo)
	}
	services.DispatchNotification(db, targets, user.ID, models.Notification{
		Type:    models.NotificationCommentAdded,
		Title:   "New comment",
		Message: fmt.Sprintf("%s commented on order %s", user.Name, order.OrderNumber),
		Data:    fmt.Sprintf(`{"order_id":%d,"comment_id":%d}`, order.ID, comment.ID),
	})

	if err := db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load comment details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    comment,
	})
}

// ListComments handles GET /api/v1/orders/:id/comments
func ListComments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order ID is required",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND is_active = ?", orderID, true).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if !user.IsTeamRole() && order.CreatedBy != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to view comments on this order",
			},
		})
		return
	}

	var comments []models.Comment
	if err := db.Where("order_id = ?", order.ID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch comments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    comments,
	})
}

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/models"
	"github.com/dentalops/dentallab-api/services"
	"github.com/dentalops/dentallab-api/utils"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	PatientName string `json:"patient_name" binding:"required"`
	WorkType    string `json:"work_type" binding:"required"`
	Material    string `json:"material" binding:"required"`
	Notes       string `json:"notes"`
}

// CreateOrder handles POST /api/v1/orders - submits a new dental case
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
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

	// Sequence for the human-facing order code
	var sequence int64
	if err := db.Model(&models.Order{}).Count(&sequence).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	order := models.Order{
		ExternalID:  uuid.NewString(),
		OrderNumber: utils.GenerateOrderNumber(req.WorkType, req.Material, uint(sequence)+1),
		PatientName: req.PatientName,
		WorkType:    req.WorkType,
		Material:    req.Material,
		Notes:       req.Notes,
		Status:      "pending",
		CreatedBy:   user.ID,
		IsActive:    true,
	}

	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Let the lab team know a new case arrived. Best-effort.
	services.DispatchNotification(db, services.TeamUserIDs(db), user.ID, models.Notification{
		Type:    models.NotificationOrderCreated,
		Title:   "New order",
		Message: fmt.Sprintf("Order %s was created by %s", order.OrderNumber, user.Name),
		Data:    fmt.Sprintf(`{"order_id":%d}`, order.ID),
	})

	if err := db.Preload("Creator").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrders handles GET /api/v1/orders - one order when ?id= is given,
// otherwise the active order list (optionally filtered by ?userId=)
func GetOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if idParam := c.Query("id"); idParam != "" {
		getOrder(c, idParam)
		return
	}

	db := config.GetDB()
	query := db.Where("is_active = ?", true).
		Preload("Creator").
		Preload("Assignee").
		Order("created_at DESC")

	// Dentists only see their own cases; team members see everything
	// unless they asked for one user's orders.
	if !user.IsTeamRole() {
		query = query.Where("created_by = ?", user.ID)
	} else if userID := c.Query("userId"); userID != "" {
		query = query.Where("created_by = ?", userID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// getOrder returns a single order enriched with its comment thread
func getOrder(c *gin.Context, idParam string) {
	db := config.GetDB()

	var order models.Order
	if err := db.Where("id = ? AND is_active = ?", idParam, true).
		Preload("Creator").
		Preload("Assignee").
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
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
				"message": "Failed to fetch order comments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":           order,
			"creator_name":    order.Creator.Name,
			"creator_company": order.Creator.Company,
			"comments":        comments,
		},
	})
}

// UpdateOrder handles PATCH /api/v1/orders?id= - partial update, routed
// through the transition engine
func UpdateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	idParam := c.Query("id")
	if idParam == "" {
		idParam = c.Param("id")
	}
	orderID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order ID is required",
			},
		})
		return
	}

	patch, perr := parseOrderPatch(c)
	if perr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": perr.Error(),
			},
		})
		return
	}

	order, err := services.ApplyOrderUpdate(config.GetDB(), uint(orderID), *patch, user.ID)
	if err != nil {
		switch err {
		case services.ErrOrderNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
		case services.ErrConflict:
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CONFLICT",
					"message": "Order was modified by someone else, reload and retry",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update order",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// parseOrderPatch decodes the PATCH body preserving the absent / null / set
// distinction the engine's partial-update semantics depend on.
func parseOrderPatch(c *gin.Context) (*services.OrderPatch, error) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		return nil, err
	}

	patch := services.OrderPatch{}

	if v, present := raw["status"]; present {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("status must be a string")
		}
		patch.Status = &s
	}

	if v, present := raw["assigned_to"]; present {
		if string(v) == "null" {
			patch.ClearAssignee = true
		} else {
			id, err := parseUserRef(v)
			if err != nil {
				return nil, err
			}
			patch.AssignedTo = &id
		}
	}

	for field, target := range map[string]**string{
		"patient_name": &patch.PatientName,
		"work_type":    &patch.WorkType,
		"material":     &patch.Material,
		"notes":        &patch.Notes,
	} {
		if v, present := raw[field]; present {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, fmt.Errorf("%s must be a string", field)
			}
			*target = &s
		}
	}

	if v, present := raw["estimated_delivery"]; present {
		if string(v) == "null" {
			patch.ClearEstimatedDelivery = true
		} else {
			var t time.Time
			if err := json.Unmarshal(v, &t); err != nil {
				return nil, fmt.Errorf("estimated_delivery must be an RFC 3339 timestamp")
			}
			patch.EstimatedDelivery = &t
		}
	}

	return &patch, nil
}

// parseUserRef accepts a user id as either a JSON number or a numeric string;
// legacy clients send both.
func parseUserRef(v json.RawMessage) (uint, error) {
	var n uint
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		parsed, perr := strconv.ParseUint(s, 10, 32)
		if perr == nil {
			return uint(parsed), nil
		}
	}
	return 0, fmt.Errorf("assigned_to must be a user id")
}

// DeleteOrder handles DELETE /api/v1/orders?id= - soft delete
func DeleteOrder(c *gin.Context) {
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
				"message": "Order ID is required",
			},
		})
		return
	}

	db := config.GetDB()
	res := db.Model(&models.Order{}).
		Where("id = ? AND is_active = ?", idParam, true).
		Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete order",
			},
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/models"
	"github.com/dentalops/dentallab-api/utils"
)

// DeliveryLeadDays is the lab's standard turnaround in business days,
// applied whenever the deadline rule fires.
const DeliveryLeadDays = 5

// InitialProductionStage is the stage a production job starts in.
const InitialProductionStage = "iniciado"

// OrderPatch carries a partial update. A nil pointer means the field was
// absent from the request; the Clear flags represent an explicit JSON null
// where the schema allows clearing.
type OrderPatch struct {
	Status                 *string
	AssignedTo             *uint
	ClearAssignee          bool
	PatientName            *string
	WorkType               *string
	Material               *string
	Notes                  *string
	EstimatedDelivery      *time.Time
	ClearEstimatedDelivery bool
}

// ApplyOrderUpdate is the transition engine: it applies a partial update to
// an order and keeps the derived state consistent. The order write and the
// production-job upsert share one transaction guarded by the order's version
// column; notification fan-out runs after commit and is best-effort.
func ApplyOrderUpdate(db *gorm.DB, orderID uint, patch OrderPatch, actorID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Where("id = ? AND is_active = ?", orderID, true).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	oldStatus := order.Status
	oldAssignee := order.AssignedTo

	updates := buildUpdates(patch)

	newStatus := order.Status
	if patch.Status != nil {
		newStatus = *patch.Status
	}

	hasAssignee := order.AssignedTo != nil
	if patch.AssignedTo != nil {
		hasAssignee = true
	}
	if patch.ClearAssignee {
		hasAssignee = false
	}

	// Delivery estimate the order will carry after this update. A job
	// created by the same patch copies this value, not the stale row.
	estimatedDelivery := order.EstimatedDelivery
	if patch.EstimatedDelivery != nil {
		estimatedDelivery = patch.EstimatedDelivery
	} else if patch.ClearEstimatedDelivery {
		estimatedDelivery = nil
	}
	if shouldSetDeadline(db, &order, patch) {
		deadline := utils.AddBusinessDays(time.Now(), DeliveryLeadDays)
		updates["estimated_delivery"] = deadline
		estimatedDelivery = &deadline
	}

	updates["version"] = order.Version + 1

	err := db.Transaction(func(tx *gorm.DB) error {
		// Guarded write: anyone who updated the row since our read bumped
		// the version, so zero affected rows means we lost the race.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND is_active = ? AND version = ?", order.ID, true, order.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		if IsInProduction(tx, newStatus) && hasAssignee {
			if err := upsertProductionJob(tx, &order, patch, newStatus, estimatedDelivery); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.Order
	if err := db.Preload("Creator").Preload("Assignee").First(&updated, order.ID).Error; err != nil {
		return nil, err
	}

	notifyAfterUpdate(db, &updated, oldStatus, oldAssignee, actorID)

	return &updated, nil
}

// buildUpdates translates the patch into a column map, leaving absent fields
// untouched.
func buildUpdates(patch OrderPatch) map[string]interface{} {
	updates := make(map[string]interface{})
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.AssignedTo != nil {
		updates["assigned_to"] = *patch.AssignedTo
	} else if patch.ClearAssignee {
		updates["assigned_to"] = nil
	}
	if patch.PatientName != nil {
		updates["patient_name"] = *patch.PatientName
	}
	if patch.WorkType != nil {
		updates["work_type"] = *patch.WorkType
	}
	if patch.Material != nil {
		updates["material"] = *patch.Material
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.EstimatedDelivery != nil {
		updates["estimated_delivery"] = *patch.EstimatedDelivery
	} else if patch.ClearEstimatedDelivery {
		updates["estimated_delivery"] = nil
	}
	return updates
}

// shouldSetDeadline implements the deadline rule: the delivery estimate is
// (re)set to now + 5 business days when any of the triggers fires.
func shouldSetDeadline(db *gorm.DB, order *models.Order, patch OrderPatch) bool {
	// An explicit estimated_delivery in the patch wins over the rule.
	if patch.EstimatedDelivery != nil || patch.ClearEstimatedDelivery {
		return false
	}

	hasAssignee := order.AssignedTo != nil
	if patch.AssignedTo != nil {
		hasAssignee = true
	}
	if patch.ClearAssignee {
		hasAssignee = false
	}

	// (a) the ball is back in the lab's court: last comment came from a
	// team-role user.
	var lastComment models.Comment
	if err := db.Preload("Author").
		Where("order_id = ?", order.ID).
		Order("created_at DESC").
		First(&lastComment).Error; err == nil {
		if lastComment.Author.IsTeamRole() {
			return true
		}
	}

	// (b) moved into production with a technician on it.
	if patch.Status != nil && IsInProduction(db, *patch.Status) && hasAssignee {
		return true
	}

	// (c) a technician was assigned without touching the status.
	if patch.AssignedTo != nil && patch.Status == nil {
		return true
	}

	// (d) transitioned into production from a different stage.
	if patch.Status != nil && *patch.Status != order.Status && IsInProduction(db, *patch.Status) {
		return true
	}

	return false
}

// upsertProductionJob creates or refreshes the order's single active job.
// Called inside the order-update transaction so the order can never be
// "ahead" of production tracking.
func upsertProductionJob(tx *gorm.DB, order *models.Order, patch OrderPatch, newStatus string, estimatedDelivery *time.Time) error {
	operatorID := order.AssignedTo
	if patch.AssignedTo != nil {
		operatorID = patch.AssignedTo
	}

	// Best-effort operator snapshot; the job keeps working without a name.
	operatorName := ""
	if operatorID != nil {
		var operator models.User
		if err := tx.First(&operator, *operatorID).Error; err == nil {
			operatorName = operator.Name
		} else {
			log.Printf("operator lookup failed for user %d: %v", *operatorID, err)
		}
	}

	workType := order.WorkType
	if patch.WorkType != nil {
		workType = *patch.WorkType
	}
	material := order.Material
	if patch.Material != nil {
		material = *patch.Material
	}

	var job models.ProductionJob
	err := tx.Where("order_id = ? AND is_active = ?", order.ID, true).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		job = models.ProductionJob{
			OrderID:           order.ID,
			StageID:           InitialJobStage(tx, newStatus),
			OperatorID:        operatorID,
			OperatorName:      operatorName,
			WorkType:          workType,
			Material:          material,
			EstimatedDelivery: estimatedDelivery,
			IsActive:          true,
		}
		return tx.Create(&job).Error
	}
	if err != nil {
		return err
	}

	// Keep-old-on-absent merge: only overwrite what the patch or the order
	// actually provides.
	jobUpdates := map[string]interface{}{"is_active": true}
	if workType != "" {
		jobUpdates["work_type"] = workType
	}
	if material != "" {
		jobUpdates["material"] = material
	}
	if operatorID != nil {
		jobUpdates["operator_id"] = *operatorID
	}
	if operatorName != "" {
		jobUpdates["operator_name"] = operatorName
	}
	return tx.Model(&job).Updates(jobUpdates).Error
}

// notifyAfterUpdate fans out status-change and assignment notifications.
// Runs after the transaction committed; failures only log.
func notifyAfterUpdate(db *gorm.DB, order *models.Order, oldStatus string, oldAssignee *uint, actorID uint) {
	if order.Status != oldStatus {
		oldName := KanbanStageDisplayName(db, oldStatus)
		newName := KanbanStageDisplayName(db, order.Status)
		DispatchNotification(db, StatusChangeTargets(db, order), 0, models.Notification{
			Type:    models.NotificationStatusChanged,
			Title:   "Order status updated",
			Message: fmt.Sprintf("Order %s moved from %s to %s", order.OrderNumber, oldName, newName),
			Data:    fmt.Sprintf(`{"order_id":%d,"old_status":%q,"new_status":%q}`, order.ID, oldStatus, order.Status),
		})
	}

	if assigneeChanged(oldAssignee, order.AssignedTo) && order.AssignedTo != nil {
		targets := []uint{*order.AssignedTo, order.CreatedBy}
		DispatchNotification(db, targets, actorID, models.Notification{
			Type:    models.NotificationOrderAssigned,
			Title:   "Order assigned",
			Message: fmt.Sprintf("Order %s was assigned to %s", order.OrderNumber, assigneeName(order)),
			Data:    fmt.Sprintf(`{"order_id":%d,"assigned_to":%d}`, order.ID, *order.AssignedTo),
		})
	}
}

func assigneeChanged(old, new *uint) bool {
	switch {
	case old == nil && new == nil:
		return false
	case old == nil || new == nil:
		return true
	default:
		return *old != *new
	}
}

func assigneeName(order *models.Order) string {
	if order.Assignee != nil {
		return order.Assignee.Name
	}
	return "a technician"
}

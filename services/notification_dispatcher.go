package services

import (
	"log"

	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/models"
)

// Notifications are best-effort: a failed insert must never fail the request
// that produced it. Errors are logged and swallowed, and the dispatcher is
// only ever invoked after the primary write has committed.

// DispatchNotification inserts one notification row per target user.
// Targets are deduplicated; skipUserID (the acting user, 0 for none) is
// excluded so nobody is notified about their own action.
func DispatchNotification(db *gorm.DB, userIDs []uint, skipUserID uint, template models.Notification) {
	seen := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		if id == 0 || id == skipUserID || seen[id] {
			continue
		}
		seen[id] = true

		n := template
		n.UserID = id
		if err := db.Create(&n).Error; err != nil {
			log.Printf("notification insert failed for user %d: %v", id, err)
		}
	}
}

// TeamUserIDs returns the ids of all active users holding a team role.
func TeamUserIDs(db *gorm.DB) []uint {
	var ids []uint
	if err := db.Model(&models.User{}).
		Where("role IN ? AND is_active = ?", models.TeamRoles, true).
		Pluck("id", &ids).Error; err != nil {
		log.Printf("team user lookup failed: %v", err)
		return nil
	}
	return ids
}

// StatusChangeTargets is the fan-out set for a status change: the order's
// creator plus every active team-role user.
func StatusChangeTargets(db *gorm.DB, order *models.Order) []uint {
	return append([]uint{order.CreatedBy}, TeamUserIDs(db)...)
}

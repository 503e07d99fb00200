package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/middleware"
	"github.com/dentalops/dentallab-api/models"
)

// currentUser resolves the authenticated caller into a database user.
// Writes the error response itself and returns false when that fails.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

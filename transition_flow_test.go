package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/controllers"
	"github.com/dentalops/dentallab-api/middleware"
	"github.com/dentalops/dentallab-api/models"
	"github.com/dentalops/dentallab-api/tests/testutil"
)

// fakeAuth stands in for the JWT middleware, injecting the same context
// values EnsureValidToken would.
func fakeAuth(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", "test-token")
		c.Set("validated_claims", &validator.ValidatedClaims{
			CustomClaims: &middleware.CustomClaims{Role: role},
		})
		c.Next()
	}
}

func setupFlowDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.ProductionJob{},
		&models.JobAttachment{},
		&models.KanbanStage{},
		&models.ProductionStage{},
		&models.Notification{},
		&models.Comment{},
	))
	require.NoError(t, config.SeedStages(db))
	return db
}

// TestOrderToProductionFlow walks the happy path end to end over the HTTP
// surface: a dentist submits a case, the lab assigns a technician and moves
// it into production, the job shows up on the task board and advances.
func TestOrderToProductionFlow(t *testing.T) {
	testutil.RequireTestEnvironmentOrSkip(t)

	db := setupFlowDB(t)
	config.SetDB(db)

	dentist := models.User{Auth0ID: "auth0|dentist", Name: "Dra. Ana", Email: "ana@clinic.example", Role: "dentist", IsActive: true}
	require.NoError(t, db.Create(&dentist).Error)
	tech := models.User{Auth0ID: "auth0|tech", Name: "Carlos", Email: "carlos@lab.example", Role: "tecnico", IsActive: true}
	require.NoError(t, db.Create(&tech).Error)

	gin.SetMode(gin.TestMode)

	asDentist := fakeAuth(dentist.Auth0ID, "dentist")
	asTech := fakeAuth(tech.Auth0ID, "tecnico")

	dentistRouter := gin.New()
	dentistRouter.POST("/api/v1/orders", asDentist, controllers.CreateOrder)
	dentistRouter.GET("/api/v1/orders", asDentist, controllers.GetOrders)

	techRouter := gin.New()
	techRouter.PATCH("/api/v1/orders", asTech, controllers.UpdateOrder)
	techRouter.GET("/api/v1/production", asTech, controllers.ListJobs)
	techRouter.PATCH("/api/v1/production", asTech, controllers.UpdateJob)

	exec := func(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req, _ = http.NewRequest(method, path, nil)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 1. The dentist submits a new case.
	w := exec(dentistRouter, http.MethodPost, "/api/v1/orders",
		`{"patient_name":"Maria Silva","work_type":"Coroa","material":"Zirconia","notes":"Tom A2"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := created.Data.ID
	assert.Equal(t, "pending", created.Data.Status)

	// 2. The lab assigns a technician and moves the case into production.
	w = exec(techRouter, http.MethodPatch, fmt.Sprintf("/api/v1/orders?id=%d", orderID),
		fmt.Sprintf(`{"status":"in_progress","assigned_to":%d}`, tech.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var patched struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, "in_progress", patched.Data.Status)
	assert.NotNil(t, patched.Data.EstimatedDelivery, "moving into production sets the deadline")

	// 3. The job appears on the production board in its initial stage.
	w = exec(techRouter, http.MethodGet, "/api/v1/production", "")
	require.Equal(t, http.StatusOK, w.Code)

	var board struct {
		Data []struct {
			ID          uint   `json:"id"`
			StageID     string `json:"stage_id"`
			OrderNumber string `json:"order_number"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board.Data, 1)
	assert.Equal(t, "iniciado", board.Data[0].StageID)
	assert.Equal(t, created.Data.OrderNumber, board.Data[0].OrderNumber)
	jobID := board.Data[0].ID

	// 4. The technician advances the job on the floor.
	w = exec(techRouter, http.MethodPatch, fmt.Sprintf("/api/v1/production?id=%d", jobID),
		`{"stage_id":"modelos"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var job models.ProductionJob
	require.NoError(t, db.First(&job, jobID).Error)
	assert.Equal(t, "modelos", job.StageID)

	// 5. The dentist was notified about the status change.
	var notifications int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", dentist.ID, models.NotificationStatusChanged).
		Count(&notifications)
	assert.Equal(t, int64(1), notifications)

	// 6. The dentist still sees exactly their one case.
	w = exec(dentistRouter, http.MethodGet, "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Data []models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)
}

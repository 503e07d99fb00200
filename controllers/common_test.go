package controllers

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/middleware"
	"github.com/dentalops/dentallab-api/models"
)

func setupControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.ProductionJob{},
		&models.JobAttachment{},
		&models.KanbanStage{},
		&models.ProductionStage{},
		&models.Notification{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	productionStageID := "iniciado"
	kanban := []models.KanbanStage{
		{ID: "pending", Name: "Pending", SortOrder: 1},
		{ID: "in_progress", Name: "Em Produção", SortOrder: 2, TriggersProduction: true, ProductionStageID: &productionStageID},
		{ID: "completed", Name: "Concluído", SortOrder: 3},
	}
	if err := db.Create(&kanban).Error; err != nil {
		t.Fatalf("Failed to seed kanban stages: %v", err)
	}
	production := []models.ProductionStage{
		{ID: "iniciado", Name: "Iniciado", SortOrder: 1},
		{ID: "modelos", Name: "Modelos", SortOrder: 2},
		{ID: "desenho", Name: "Desenho", SortOrder: 3},
	}
	if err := db.Create(&production).Error; err != nil {
		t.Fatalf("Failed to seed production stages: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware injects the same context values the real JWT middleware
// would set, so handlers under test behave exactly as in production.
func mockAuthMiddleware(auth0ID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", accessToken)

		customClaims := &middleware.CustomClaims{
			Role: role,
		}
		mockClaims := &validator.ValidatedClaims{
			CustomClaims: customClaims,
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

func createUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()

	user := models.User{
		Auth0ID:  "auth0|" + name,
		Name:     name,
		Email:    name + "@example.com",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", name, err)
	}
	return user
}

func jsonNumber(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func createOrder(t *testing.T, db *gorm.DB, creator models.User) models.Order {
	t.Helper()

	var existing int64
	db.Model(&models.Order{}).Count(&existing)

	order := models.Order{
		ExternalID:  fmt.Sprintf("ext-%d", existing+1),
		OrderNumber: fmt.Sprintf("COR-ZIR-%04d", existing+1),
		PatientName: "Test Patient",
		WorkType:    "Coroa",
		Material:    "Zirconia",
		Status:      "pending",
		CreatedBy:   creator.ID,
		IsActive:    true,
		Version:     1,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	return order
}

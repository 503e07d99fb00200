package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/models"
)

// setupServiceTestDB creates a fresh in-memory database with all models
// migrated and both stage catalogs seeded with realistic defaults.
func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

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

	seedTestStages(t, db)
	return db
}

func seedTestStages(t *testing.T, db *gorm.DB) {
	t.Helper()

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
}

// createTestUser inserts a user with the given role and returns it
func createTestUser(t *testing.T, db *gorm.DB, name, role string) models.User {
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

// createTestOrder inserts a pending order created by the given user
func createTestOrder(t *testing.T, db *gorm.DB, creator models.User) models.Order {
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

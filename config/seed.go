package config

import (
	"log"

	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/models"
)

func strPtr(s string) *string { return &s }

// SeedStages populates both stage catalogs with the lab's defaults when the
// tables are empty. Existing catalogs are never touched.
func SeedStages(db *gorm.DB) error {
	var kanbanCount int64
	if err := db.Model(&models.KanbanStage{}).Count(&kanbanCount).Error; err != nil {
		return err
	}
	if kanbanCount == 0 {
		kanban := []models.KanbanStage{
			{ID: "pending", Name: "Pending", SortOrder: 1, Color: "#E2E8F0", TextColor: "#1A202C"},
			{ID: "in_progress", Name: "Em Produção", SortOrder: 2, Color: "#BEE3F8", TextColor: "#1A365D",
				TriggersProduction: true, ProductionStageID: strPtr("iniciado")},
			{ID: "quality_check", Name: "Controle de Qualidade", SortOrder: 3, Color: "#FEFCBF", TextColor: "#744210"},
			{ID: "completed", Name: "Concluído", SortOrder: 4, Color: "#C6F6D5", TextColor: "#22543D"},
			{ID: "delivered", Name: "Entregue", SortOrder: 5, Color: "#E9D8FD", TextColor: "#44337A"},
		}
		if err := db.Create(&kanban).Error; err != nil {
			return err
		}
		log.Println("Seeded default Kanban stages")
	}

	var productionCount int64
	if err := db.Model(&models.ProductionStage{}).Count(&productionCount).Error; err != nil {
		return err
	}
	if productionCount == 0 {
		production := []models.ProductionStage{
			{ID: "iniciado", Name: "Iniciado", SortOrder: 1, Color: "#E2E8F0", TextColor: "#1A202C"},
			{ID: "modelos", Name: "Modelos", SortOrder: 2, Color: "#BEE3F8", TextColor: "#1A365D"},
			{ID: "desenho", Name: "Desenho", SortOrder: 3, Color: "#FEFCBF", TextColor: "#744210"},
			{ID: "fabricacao", Name: "Fabricação", SortOrder: 4, Color: "#FED7D7", TextColor: "#742A2A"},
			{ID: "acabamento", Name: "Acabamento", SortOrder: 5, Color: "#C6F6D5", TextColor: "#22543D"},
			{ID: "finalizado", Name: "Finalizado", SortOrder: 6, Color: "#E9D8FD", TextColor: "#44337A"},
		}
		if err := db.Create(&production).Error; err != nil {
			return err
		}
		log.Println("Seeded default production stages")
	}

	return nil
}

package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/dentalops/dentallab-api/models"
)

// Historical orders carry status values that predate the stage catalogs
// ("Em Produção", "EM PRODUCAO", raw stage names typed by hand). Resolution
// is therefore lenient: case- and diacritic-insensitive, never a hard
// failure. All of that leniency lives here and nowhere else.

var stageNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeStageToken lowercases a stage id or name and strips diacritics,
// so "Em Produção" and "em producao" compare equal.
func NormalizeStageToken(s string) string {
	folded, _, err := transform.String(stageNormalizer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ResolveKanbanStage maps a raw order status onto a Kanban stage.
// Resolution order: exact id match, exact name match, first catalog entry.
// When the catalog is empty the raw value is echoed back as a synthetic stage.
func ResolveKanbanStage(db *gorm.DB, raw string) models.KanbanStage {
	var stages []models.KanbanStage
	if err := db.Order("sort_order ASC").Find(&stages).Error; err != nil || len(stages) == 0 {
		return models.KanbanStage{ID: raw, Name: raw}
	}

	token := NormalizeStageToken(raw)
	for _, s := range stages {
		if NormalizeStageToken(s.ID) == token {
			return s
		}
	}
	for _, s := range stages {
		if NormalizeStageToken(s.Name) == token {
			return s
		}
	}
	return stages[0]
}

// ResolveProductionStage maps a raw job stage id onto a Production stage,
// with the same leniency as ResolveKanbanStage.
func ResolveProductionStage(db *gorm.DB, raw string) models.ProductionStage {
	var stages []models.ProductionStage
	if err := db.Order("sort_order ASC").Find(&stages).Error; err != nil || len(stages) == 0 {
		return models.ProductionStage{ID: raw, Name: raw}
	}

	token := NormalizeStageToken(raw)
	for _, s := range stages {
		if NormalizeStageToken(s.ID) == token {
			return s
		}
	}
	for _, s := range stages {
		if NormalizeStageToken(s.Name) == token {
			return s
		}
	}
	return stages[0]
}

// KanbanStageDisplayName returns the display name for a raw status, falling
// back to the raw value when no catalog entry matches. Used for notification
// text, where echoing the stored value beats guessing.
func KanbanStageDisplayName(db *gorm.DB, raw string) string {
	var stages []models.KanbanStage
	if err := db.Find(&stages).Error; err != nil {
		return raw
	}

	token := NormalizeStageToken(raw)
	for _, s := range stages {
		if NormalizeStageToken(s.ID) == token || NormalizeStageToken(s.Name) == token {
			return s.Name
		}
	}
	return raw
}

// IsInProduction reports whether a raw order status means the order is on the
// manufacturing floor. Cataloged stages answer through their
// triggers_production flag; uncataloged historical values fall back to name
// matching against the known production spellings.
func IsInProduction(db *gorm.DB, rawStatus string) bool {
	token := NormalizeStageToken(rawStatus)

	var stages []models.KanbanStage
	if err := db.Find(&stages).Error; err == nil {
		for _, s := range stages {
			if NormalizeStageToken(s.ID) == token || NormalizeStageToken(s.Name) == token {
				return s.TriggersProduction
			}
		}
	}

	// Legacy values only from here on.
	switch token {
	case "in_progress", "in progress", "em producao":
		return true
	}
	return strings.Contains(token, "produ") || strings.Contains(token, "progress")
}

// BridgeToProductionStage maps a Kanban stage into the production catalog:
// the explicit mapping column when set, name resolution otherwise.
func BridgeToProductionStage(db *gorm.DB, stage models.KanbanStage) models.ProductionStage {
	if stage.ProductionStageID != nil && *stage.ProductionStageID != "" {
		var ps models.ProductionStage
		if err := db.First(&ps, "id = ?", *stage.ProductionStageID).Error; err == nil {
			return ps
		}
	}
	return ResolveProductionStage(db, stage.Name)
}

// InitialJobStage picks the production stage a freshly created job starts in
// when its order enters rawStatus. A cataloged triggering stage answers
// through its bridge; anything else starts at the default initial stage.
func InitialJobStage(db *gorm.DB, rawStatus string) string {
	stage := ResolveKanbanStage(db, rawStatus)
	if stage.TriggersProduction {
		return BridgeToProductionStage(db, stage).ID
	}
	return InitialProductionStage
}

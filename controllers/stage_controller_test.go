package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/models"
)

func TestListStages(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/stages", ListStages)

	req, _ := http.NewRequest(http.MethodGet, "/stages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	data := response["data"].([]interface{})
	assert.Len(t, data, 3)

	// Board order, not insertion order.
	first := data[0].(map[string]interface{})
	assert.Equal(t, "pending", first["id"])
}

func TestCreateStage(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/stages", CreateStage)

	body := `{"id":"quality_check","name":"Controle de Qualidade","order":4,"color":"#f59e0b"}`
	req, _ := http.NewRequest(http.MethodPost, "/stages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var stage models.KanbanStage
	assert.NoError(t, db.First(&stage, "id = ?", "quality_check").Error)
	assert.Equal(t, "Controle de Qualidade", stage.Name)
	assert.Equal(t, 4, stage.SortOrder)
	assert.False(t, stage.TriggersProduction)
}

func TestReorderStages(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.PUT("/stages", ReorderStages)

	body := `{"stages":[{"id":"completed","order":1},{"id":"pending","order":2},{"id":"in_progress","order":3}]}`
	req, _ := http.NewRequest(http.MethodPut, "/stages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "completed", first["id"])
}

func TestReorderStagesUnknownStageRollsBack(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.PUT("/stages", ReorderStages)

	// The second entry does not exist; the first must not stick.
	body := `{"stages":[{"id":"pending","order":9},{"id":"ghost","order":1}]}`
	req, _ := http.NewRequest(http.MethodPut, "/stages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "STAGE_NOT_FOUND", errorData["code"])

	var pending models.KanbanStage
	assert.NoError(t, db.First(&pending, "id = ?", "pending").Error)
	assert.Equal(t, 1, pending.SortOrder, "batch reorder must be all-or-nothing")
}

func TestUpdateStage(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.PATCH("/stages/:id", UpdateStage)

	body := `{"name":"Aguardando","triggers_production":true,"production_stage_id":"modelos"}`
	req, _ := http.NewRequest(http.MethodPatch, "/stages/pending", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stage models.KanbanStage
	assert.NoError(t, db.First(&stage, "id = ?", "pending").Error)
	assert.Equal(t, "Aguardando", stage.Name)
	assert.True(t, stage.TriggersProduction)
	assert.Equal(t, "modelos", *stage.ProductionStageID)
}

func TestUpdateStageNotFound(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.PATCH("/stages/:id", UpdateStage)

	req, _ := http.NewRequest(http.MethodPatch, "/stages/ghost", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteStage(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.DELETE("/stages/:id", DeleteStage)

	req, _ := http.NewRequest(http.MethodDelete, "/stages/completed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.KanbanStage{}).Where("id = ?", "completed").Count(&count)
	assert.Zero(t, count)

	req, _ = http.NewRequest(http.MethodDelete, "/stages/completed", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProductionStage(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.PATCH("/production/stages/:id", UpdateProductionStage)

	body := `{"name":"Modelos de Gesso","order":5}`
	req, _ := http.NewRequest(http.MethodPatch, "/production/stages/modelos", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stage models.ProductionStage
	assert.NoError(t, db.First(&stage, "id = ?", "modelos").Error)
	assert.Equal(t, "Modelos de Gesso", stage.Name)
	assert.Equal(t, 5, stage.SortOrder)
}

func TestReorderProductionStages(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.PUT("/production/stages", ReorderProductionStages)

	body := `{"stages":[{"id":"desenho","order":1},{"id":"iniciado","order":2},{"id":"modelos","order":3}]}`
	req, _ := http.NewRequest(http.MethodPut, "/production/stages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var desenho models.ProductionStage
	assert.NoError(t, db.First(&desenho, "id = ?", "desenho").Error)
	assert.Equal(t, 1, desenho.SortOrder)
}

package boardclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeAPI is a minimal in-memory stand-in for the lab API. Each handler
// counts its calls so tests can assert how chatty a board interaction was.
type fakeAPI struct {
	orders           []Order
	jobs             []Job
	stages           []Stage
	productionStages []Stage

	failPatch   bool
	failReorder bool
	failFetch   bool

	orderPatches     int
	jobPatches       int
	stageReorders    int
	prodReorders     int
	fetches          int
	lastPatchedStage string
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()

	ok := func(w http.ResponseWriter, data interface{}) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
	}
	fail := func(w http.ResponseWriter, status int, code string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": code, "message": "injected failure"},
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.fetches++
			if f.failFetch {
				fail(w, http.StatusInternalServerError, "DATABASE_ERROR")
				return
			}
			ok(w, f.orders)
		case http.MethodPatch:
			f.orderPatches++
			if f.failPatch {
				fail(w, http.StatusConflict, "CONFLICT")
				return
			}
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.lastPatchedStage = body["status"]
			ok(w, nil)
		}
	})
	mux.HandleFunc("/api/v1/production", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.fetches++
			ok(w, f.jobs)
		case http.MethodPatch:
			f.jobPatches++
			if f.failPatch {
				fail(w, http.StatusNotFound, "JOB_NOT_FOUND")
				return
			}
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.lastPatchedStage = body["stage_id"]
			ok(w, nil)
		}
	})
	mux.HandleFunc("/api/v1/stages", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ok(w, f.stages)
		case http.MethodPut:
			f.stageReorders++
			if f.failReorder {
				fail(w, http.StatusNotFound, "STAGE_NOT_FOUND")
				return
			}
			ok(w, f.stages)
		}
	})
	mux.HandleFunc("/api/v1/production/stages", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ok(w, f.productionStages)
		case http.MethodPut:
			f.prodReorders++
			if f.failReorder {
				fail(w, http.StatusNotFound, "STAGE_NOT_FOUND")
				return
			}
			ok(w, f.productionStages)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func defaultFakeAPI() *fakeAPI {
	return &fakeAPI{
		orders: []Order{
			{ID: 1, OrderNumber: "COR-ZIR-0001", PatientName: "Maria", Status: "pending"},
			{ID: 2, OrderNumber: "PRO-RES-0002", PatientName: "João", Status: "in_progress"},
		},
		jobs: []Job{
			{ID: 10, OrderID: 1, OrderNumber: "COR-ZIR-0001", StageID: "iniciado"},
			{ID: 11, OrderID: 2, OrderNumber: "PRO-RES-0002", StageID: "iniciado"},
			{ID: 12, OrderID: 3, OrderNumber: "FAC-CER-0003", StageID: "modelos"},
		},
		stages: []Stage{
			{ID: "pending", Name: "Pending", SortOrder: 1},
			{ID: "in_progress", Name: "Em Produção", SortOrder: 2},
			{ID: "completed", Name: "Concluído", SortOrder: 3},
		},
		productionStages: []Stage{
			{ID: "iniciado", Name: "Iniciado", SortOrder: 1},
			{ID: "modelos", Name: "Modelos", SortOrder: 2},
			{ID: "desenho", Name: "Desenho", SortOrder: 3},
		},
	}
}

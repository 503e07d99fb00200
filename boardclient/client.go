// Package boardclient is the client-side companion of the board UIs: it
// holds local column state for the Kanban and production boards, applies
// drag-and-drop moves optimistically, and issues exactly one persistence
// call per cross-column move against the API.
package boardclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError is a structured error response from the server
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Order is the slice of an order the boards care about
type Order struct {
	ID          uint   `json:"id"`
	OrderNumber string `json:"order_number"`
	PatientName string `json:"patient_name"`
	Status      string `json:"status"`
	AssignedTo  *uint  `json:"assigned_to"`
}

// Job is the slice of a production job the task board cares about
type Job struct {
	ID           uint   `json:"id"`
	OrderID      uint   `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	StageID      string `json:"stage_id"`
	OperatorName string `json:"operator_name"`
}

// Stage is a board column definition
type Stage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"order"`
}

// StagePosition is one entry of a batch reorder payload
type StagePosition struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Client talks to the dental lab API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an API client for the given base URL and bearer token
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

// do executes a request and decodes the response envelope into out (if
// non-nil). Server-side errors come back as *APIError.
func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &APIError{Code: "UNKNOWN", Message: "request failed"}
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// FetchOrders returns all active orders
func (c *Client) FetchOrders() ([]Order, error) {
	var orders []Order
	if err := c.do(http.MethodGet, "/api/v1/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FetchJobs returns all active production jobs
func (c *Client) FetchJobs() ([]Job, error) {
	var jobs []Job
	if err := c.do(http.MethodGet, "/api/v1/production", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FetchStages returns the Kanban stage catalog in board order
func (c *Client) FetchStages() ([]Stage, error) {
	var stages []Stage
	if err := c.do(http.MethodGet, "/api/v1/stages", nil, &stages); err != nil {
		return nil, err
	}
	return stages, nil
}

// FetchProductionStages returns the production stage catalog in board order
func (c *Client) FetchProductionStages() ([]Stage, error) {
	var stages []Stage
	if err := c.do(http.MethodGet, "/api/v1/production/stages", nil, &stages); err != nil {
		return nil, err
	}
	return stages, nil
}

// UpdateOrderStatus issues the single PATCH behind a Kanban card move
func (c *Client) UpdateOrderStatus(orderID uint, status string) error {
	path := fmt.Sprintf("/api/v1/orders?id=%d", orderID)
	return c.do(http.MethodPatch, path, map[string]string{"status": status}, nil)
}

// UpdateJobStage issues the single PATCH behind a task-board card move
func (c *Client) UpdateJobStage(jobID uint, stageID string) error {
	path := fmt.Sprintf("/api/v1/production?id=%d", jobID)
	return c.do(http.MethodPatch, path, map[string]string{"stage_id": stageID}, nil)
}

// ReorderStages writes a full column ordering in one batch call
func (c *Client) ReorderStages(positions []StagePosition) error {
	body := map[string]interface{}{"stages": positions}
	return c.do(http.MethodPut, "/api/v1/stages", body, nil)
}

// ReorderProductionStages writes the production catalog ordering in one batch call
func (c *Client) ReorderProductionStages(positions []StagePosition) error {
	body := map[string]interface{}{"stages": positions}
	return c.do(http.MethodPut, "/api/v1/production/stages", body, nil)
}

package models

import "github.com/google/uuid"

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	Step     int    `json:"step"`
	StepName string `json:"step_name"`
}

type CompletedEvent struct {
	ResultID   uuid.UUID `json:"result_id"`
	ResultType string    `json:"result_type"`
	Source     string    `json:"source"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

package api

import (
	"time"

	"indentdesk/pkg/contracts/domain"
)

// Envelope wraps every successful response
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      domain.Profile `json:"user"`
}

// IndentResponse reports the rows touched by a workflow action
type IndentResponse struct {
	IndentNumber string          `json:"indentNumber"`
	Rows         []domain.Indent `json:"rows"`
}

// UploadResponse carries the stored file's URL
type UploadResponse struct {
	FileURL string `json:"fileUrl"`
}

// HealthResponse is the body of the liveness and readiness probes
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

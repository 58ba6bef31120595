// Package events contains the messages pushed to dashboard clients over the
// websocket.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeSheetUpdated tells clients that rows of a sheet changed
	// and cached views should be refetched
	MessageTypeSheetUpdated MessageType = "sheet.updated"

	MessageTypeNotifications MessageType = "indent.notifications"

	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// SheetUpdated describes a write made through the API
type SheetUpdated struct {
	Sheet        string `json:"sheet"`
	Action       string `json:"action"` // insert|update|delete
	Stage        string `json:"stage,omitempty"`
	IndentNumber string `json:"indentNumber,omitempty"`
	Rows         int    `json:"rows"`
	By           string `json:"by,omitempty"`
}

// Notifications carries the per-stage pending counts shown as badges
type Notifications struct {
	Counts map[string]int `json:"counts"`
}

// ConnectMessage greets a freshly connected client
type ConnectMessage struct {
	ClientID string `json:"clientId"`
	Username string `json:"username,omitempty"`
	Version  string `json:"version"`
}

// ErrorData is the payload of an error message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

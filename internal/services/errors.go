package services

import (
	"errors"

	"indentdesk/internal/workflow"
)

// Service errors. Handlers map them to HTTP problems with errors.Is.
var (
	// Indent errors
	ErrIndentNotFound         = workflow.ErrIndentNotFound
	ErrInvalidStage           = workflow.ErrUnknownStage
	ErrNotPending             = workflow.ErrNotPending
	ErrInvalidVendorSelection = workflow.ErrInvalidVendorSelection
	ErrNoProducts             = workflow.ErrNoProducts
	ErrInvalidDecision        = workflow.ErrInvalidDecision

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("permission denied")

	// Store errors
	ErrStoreUnavailable = errors.New("row store unavailable")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

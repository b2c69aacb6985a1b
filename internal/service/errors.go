package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrResearchUnavailable is returned when no research data source is configured
	ErrResearchUnavailable = errors.New("no research data source is configured")

	// ErrConversionFailed is returned when the markdown to PDF conversion fails
	ErrConversionFailed = errors.New("report conversion failed")

	// ErrQueueFull is returned when the background job queue cannot accept more work
	ErrQueueFull = errors.New("job queue is full")
)

// Package events contains the WebSocket message contracts used to stream
// search progress to connected clients.
package events

import (
	"time"
)

// Message types pushed over the progress socket.
const (
	TypeConnection = "connection"
	TypeProgress   = "search:progress"
	TypeComplete   = "search:complete"
	TypeError      = "search:error"
)

// Message levels
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// ProgressEvent is one progress update emitted while a search runs.
type ProgressEvent struct {
	Type      string    `json:"type"`
	Mode      string    `json:"mode,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
	TraceID   string    `json:"trace_id,omitempty"`
}

// NewProgress builds an info-level progress event for a search stage.
func NewProgress(mode, stage, message string) ProgressEvent {
	return ProgressEvent{
		Type:      TypeProgress,
		Mode:      mode,
		Stage:     stage,
		Message:   message,
		Level:     LevelInfo,
		Timestamp: time.Now().UTC(),
	}
}

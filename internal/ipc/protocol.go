package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/edgedock/internal/daemon"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus CommandType = "GET_STATUS"
	CommandShow      CommandType = "SHOW"
	CommandHide      CommandType = "HIDE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Policy         string  `json:"policy"`
	Visibility     string  `json:"visibility"`
	EdgeHits       uint32  `json:"edge_hits"`
	OutsideHits    uint32  `json:"outside_hits"`
	LastAction     string  `json:"last_action"`
	WindowX        float64 `json:"window_x"`
	WindowY        float64 `json:"window_y"`
	Ticks          uint64  `json:"ticks"`
	SampleFailures uint64  `json:"sample_failures"`
	WindowFailures uint64  `json:"window_failures"`
	IntervalMillis float64 `json:"interval_ms"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
	DaemonRunning  bool    `json:"daemon_running"`
}

// NewStatusData converts a loop snapshot for the wire.
func NewStatusData(s daemon.Status, now time.Time) StatusData {
	var uptime int64
	if !s.StartedAt.IsZero() {
		uptime = int64(now.Sub(s.StartedAt).Seconds())
	}
	return StatusData{
		Policy:         s.Policy,
		Visibility:     s.Visibility,
		EdgeHits:       s.EdgeHits,
		OutsideHits:    s.OutsideHits,
		LastAction:     s.LastAction,
		WindowX:        s.WindowX,
		WindowY:        s.WindowY,
		Ticks:          s.Ticks,
		SampleFailures: s.SampleFailures,
		WindowFailures: s.WindowFailures,
		IntervalMillis: float64(s.Interval) / float64(time.Millisecond),
		UptimeSeconds:  uptime,
		DaemonRunning:  true,
	}
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different control command types
type CommandType string

const (
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandFreeze     CommandType = "FREEZE"
	CommandResume     CommandType = "RESUME"
	CommandRefocus    CommandType = "REFOCUS"
	CommandGetFocused CommandType = "GET_FOCUSED"
)

// Request represents a control request from client to daemon
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents a control response from daemon to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Phase         string `json:"phase"`
	Frozen        bool   `json:"frozen"`
	FocusMarker   string `json:"focus_marker"`
	FocusedID     string `json:"focused_id,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// FocusedData represents the data returned by GET_FOCUSED
type FocusedData struct {
	FocusedID string `json:"focused_id"`
	Tracked   bool   `json:"tracked"`
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

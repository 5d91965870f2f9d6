package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandAction   CommandType = "ACTION"
	CommandGetState CommandType = "GET_STATE"
	CommandReload   CommandType = "RELOAD"
	CommandStop     CommandType = "STOP"
	CommandPing     CommandType = "PING"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server. ID correlates
// client and daemon log lines.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	ID     string          `json:"id,omitempty"`
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ActionPayload is the payload of ACTION. Action uses the wire vocabulary,
// e.g. "focus-left" or "go-to-workspace-3".
type ActionPayload struct {
	Action string `json:"action"`
}

// PingData is returned by PING.
type PingData struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	PID           int   `json:"pid"`
}

// NewRequest builds a request with a fresh id.
func NewRequest(cmd CommandType, payload any) (*Request, error) {
	req := &Request{
		ID:      uuid.NewString(),
		Command: cmd,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return req, nil
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

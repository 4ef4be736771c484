package domain

import "time"

// MaxMessageLength is the hard cap the webhook accepts.
const MaxMessageLength = 2000

// Message is one chat transcript entry.
type Message struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	IsUser       bool      `json:"isUser"`
	Timestamp    time.Time `json:"timestamp"`
	IsError      bool      `json:"isError,omitempty"`
	RetryContent string    `json:"retryContent,omitempty"` // original input, kept for resubmission
}

// ChatRequest is the webhook request body.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// ChatResponse is the webhook response envelope. Failures still carry the
// envelope with Success=false and an error string.
type ChatResponse struct {
	Success bool     `json:"success"`
	Data    ChatData `json:"data"`
	Error   string   `json:"error,omitempty"`
}

// ChatData is the successful reply payload.
type ChatData struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"` // ISO-8601
}

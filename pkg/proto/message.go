package proto

import "ctchen222/Starter-Kit/internal/store"

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type       string `json:"type" validate:"required,oneof=move reset_round reset_stats reset_all hint"`
	Cell       *int   `json:"cell,omitempty" validate:"omitempty,cell"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type       string          `json:"type" validate:"required"`
	Action     string          `json:"action,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	State      *store.Snapshot `json:"state,omitempty"`
	Hint       *int            `json:"hint,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
}

package store

import (
	"encoding/json"
	"fmt"

	"ctchen222/Starter-Kit/internal/counter"
	"ctchen222/Starter-Kit/internal/game"
)

// Snapshot is the whole persisted aggregate: the counter slice next to the
// tic-tac-toe slice, serialized together under one storage key.
type Snapshot struct {
	counter.Counter
	TicTacToe game.Match `json:"ticTacToe"`
}

// NewSnapshot returns the initial aggregate.
func NewSnapshot() Snapshot {
	return Snapshot{TicTacToe: game.NewMatch()}
}

// Encode serializes the snapshot for the repository.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses and validates a stored snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	snap := NewSnapshot()
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := snap.TicTacToe.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

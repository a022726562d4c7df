package models

import "ctchen222/Starter-Kit/internal/game"

// MoveRequest defines the structure for a move request.
type MoveRequest struct {
	Cell *int `json:"cell" binding:"required,min=0,max=8"`
}

// HintQuery holds the query parameters of a hint request.
type HintQuery struct {
	Difficulty string `form:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// TicTacToeResponse is the game slice with the values a client shows next to it.
type TicTacToeResponse struct {
	game.Match
	Status game.Phase `json:"status"`
	Leader game.Mark  `json:"leader"`
	Tied   bool       `json:"tied"`
}

// NewTicTacToeResponse derives the display values from m.
func NewTicTacToeResponse(m game.Match) TicTacToeResponse {
	return TicTacToeResponse{
		Match:  m,
		Status: m.Phase(),
		Leader: m.Leader(),
		Tied:   m.Tied(),
	}
}

// HintResponse defines the structure for a suggested move.
type HintResponse struct {
	Cell       int       `json:"cell"`
	Player     game.Mark `json:"player"`
	Difficulty string    `json:"difficulty"`
}

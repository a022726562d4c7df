package bot

import (
	"math/rand/v2"
	"sync"

	"ctchen222/Starter-Kit/internal/game"
)

// Difficulty selects how clever the suggested move is.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	corners = []int{0, 2, 6, 8}
	sides   = []int{1, 3, 5, 7}
)

const center = 4

// MoveCalculator suggests the next cell for a player.
type MoveCalculator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMoveCalculator creates a calculator drawing its random choices from src.
func NewMoveCalculator(src rand.Source) *MoveCalculator {
	return &MoveCalculator{rng: rand.New(src)}
}

// CalculateNextMove determines the next move based on the specified difficulty.
// It returns -1 when the board has no empty cell.
func (c *MoveCalculator) CalculateNextMove(board game.Board, mark game.Mark, difficulty Difficulty) int {
	switch difficulty {
	case Easy:
		return c.easyMove(board)
	case Medium:
		return c.mediumMove(board, mark)
	default:
		return c.hardMove(board, mark)
	}
}

// easyMove makes a completely random move.
func (c *MoveCalculator) easyMove(board game.Board) int {
	return c.pick(game.EmptyCells(board))
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func (c *MoveCalculator) mediumMove(board game.Board, mark game.Mark) int {
	if cell, ok := findWinningMove(board, mark); ok {
		return cell
	}
	if cell, ok := findWinningMove(board, mark.Opponent()); ok {
		return cell
	}
	return c.easyMove(board)
}

// hardMove: win, block, centre, a corner, then a side.
func (c *MoveCalculator) hardMove(board game.Board, mark game.Mark) int {
	if cell, ok := findWinningMove(board, mark); ok {
		return cell
	}
	if cell, ok := findWinningMove(board, mark.Opponent()); ok {
		return cell
	}
	if board[center] == game.None {
		return center
	}
	if cell := c.pick(available(board, corners)); cell != -1 {
		return cell
	}
	return c.pick(available(board, sides))
}

func (c *MoveCalculator) pick(cells []int) int {
	if len(cells) == 0 {
		return -1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return cells[c.rng.IntN(len(cells))]
}

func available(board game.Board, cells []int) []int {
	free := make([]int, 0, len(cells))
	for _, cell := range cells {
		if board[cell] == game.None {
			free = append(free, cell)
		}
	}
	return free
}

// findWinningMove looks for a line holding two of mark and one empty cell.
func findWinningMove(board game.Board, mark game.Mark) (int, bool) {
	if mark == game.None {
		return -1, false
	}

	for _, combo := range game.WinCombos {
		owned, empty := 0, -1
		for _, cell := range combo {
			switch board[cell] {
			case mark:
				owned++
			case game.None:
				empty = cell
			}
		}
		if owned == 2 && empty != -1 {
			return empty, true
		}
	}
	return -1, false
}

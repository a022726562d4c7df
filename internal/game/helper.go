package game

// Phase is where a round sits in its lifecycle.
type Phase string

const (
	InProgress Phase = "in_progress"
	Won        Phase = "won"
	Drawn      Phase = "drawn"
)

// Opponent returns the other player's mark. None stays None.
func (m Mark) Opponent() Mark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// Phase reports whether the round is still running, won or drawn.
func (r Round) Phase() Phase {
	switch {
	case r.Winner != None:
		return Won
	case r.IsDraw:
		return Drawn
	default:
		return InProgress
	}
}

// EmptyCells returns the indices of the empty cells in ascending order.
func EmptyCells(board Board) []int {
	cells := make([]int, 0, CellCount)
	for i, cell := range board {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

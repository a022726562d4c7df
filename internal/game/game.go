package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Mark represents the mark of a player (X, O) or an empty cell.
type Mark string

const (
	// Player marks
	None    Mark = ""
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	// CellCount is the number of cells on the board.
	CellCount = 9
)

var (
	ErrGameFinished = errors.New("game already finished")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrCorruptState = errors.New("corrupt game state")
)

// WinCombos lists every line of three: rows, then columns, then diagonals.
// CheckWinner walks it in this order and the first full line wins.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid stored row-major.
type Board [CellCount]Mark

// Round is the live state of a single playthrough.
type Round struct {
	Board         Board `json:"board"`
	CurrentPlayer Mark  `json:"currentPlayer"`
	Winner        Mark  `json:"winner"`
	IsOver        bool  `json:"isGameOver"`
	IsDraw        bool  `json:"isDraw"`
}

// Statistics are the cumulative results that survive across rounds.
type Statistics struct {
	GamesPlayed int `json:"gamesPlayed"`
	XWins       int `json:"xWins"`
	OWins       int `json:"oWins"`
	Draws       int `json:"draws"`
}

// Match is the tic-tac-toe slice of the persisted state: the current round
// together with the running statistics. It is plain data and safe to copy.
type Match struct {
	Round
	Statistics
}

// NewRound returns an empty board with X to move.
func NewRound() Round {
	return Round{CurrentPlayer: PlayerX}
}

// NewStatistics returns zeroed statistics.
func NewStatistics() Statistics {
	return Statistics{}
}

// NewMatch returns a fresh round with zeroed statistics.
func NewMatch() Match {
	return Match{Round: NewRound(), Statistics: NewStatistics()}
}

// ApplyMove places the current player's mark at cell. Moves on a finished
// round, on an occupied cell or outside the board leave m unchanged.
func ApplyMove(m Match, cell int) Match {
	next, err := TryMove(m, cell)
	if err != nil {
		return m
	}
	return next
}

// TryMove is ApplyMove that reports why a move was rejected. On error the
// returned match is m itself.
func TryMove(m Match, cell int) (Match, error) {
	if m.IsOver {
		return m, ErrGameFinished
	}
	if cell < 0 || cell >= CellCount {
		return m, fmt.Errorf("%w: %d", ErrInvalidCell, cell)
	}
	if m.Board[cell] != None {
		return m, fmt.Errorf("%w: %d", ErrCellOccupied, cell)
	}
	if m.CurrentPlayer != PlayerX && m.CurrentPlayer != PlayerO {
		return m, fmt.Errorf("%w: current player %q", ErrCorruptState, m.CurrentPlayer)
	}

	m.Board[cell] = m.CurrentPlayer
	m.Winner = CheckWinner(m.Board)
	m.IsDraw = m.Winner == None && IsBoardFull(m.Board)
	m.IsOver = m.Winner != None || m.IsDraw

	if !m.IsOver {
		m.CurrentPlayer = m.CurrentPlayer.Opponent()
		return m, nil
	}

	m.Statistics = m.Statistics.record(m.Winner)
	return m, nil
}

// ResetRound starts a new round and keeps the statistics.
func ResetRound(m Match) Match {
	m.Round = NewRound()
	return m
}

// ResetStatistics clears the statistics and keeps the board.
func ResetStatistics(m Match) Match {
	m.Statistics = NewStatistics()
	return m
}

// CheckWinner returns the mark owning the first complete line, or None.
func CheckWinner(board Board) Mark {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != None && a == b && b == c {
			return a
		}
	}
	return None
}

// IsBoardFull reports whether no empty cell is left.
func IsBoardFull(board Board) bool {
	for _, cell := range board {
		if cell == None {
			return false
		}
	}
	return true
}

func (s Statistics) record(winner Mark) Statistics {
	s.GamesPlayed++
	switch winner {
	case PlayerX:
		s.XWins++
	case PlayerO:
		s.OWins++
	default:
		s.Draws++
	}
	return s
}

// Leader returns the side with strictly more wins, or None.
func (s Statistics) Leader() Mark {
	switch {
	case s.XWins > s.OWins:
		return PlayerX
	case s.OWins > s.XWins:
		return PlayerO
	default:
		return None
	}
}

// Tied reports equal, non-zero win counts.
func (s Statistics) Tied() bool {
	return s.XWins == s.OWins && s.XWins > 0
}

// Validate checks a match restored from storage for internal consistency.
func (m Match) Validate() error {
	if m.CurrentPlayer != PlayerX && m.CurrentPlayer != PlayerO {
		return fmt.Errorf("%w: current player %q", ErrCorruptState, m.CurrentPlayer)
	}
	for i, cell := range m.Board {
		if cell != None && cell != PlayerX && cell != PlayerO {
			return fmt.Errorf("%w: cell %d holds %q", ErrCorruptState, i, cell)
		}
	}

	s := m.Statistics
	if s.GamesPlayed < 0 || s.XWins < 0 || s.OWins < 0 || s.Draws < 0 {
		return fmt.Errorf("%w: negative statistics", ErrCorruptState)
	}
	if s.GamesPlayed != s.XWins+s.OWins+s.Draws {
		return fmt.Errorf("%w: %d games played but %d results recorded",
			ErrCorruptState, s.GamesPlayed, s.XWins+s.OWins+s.Draws)
	}

	winner := CheckWinner(m.Board)
	isDraw := winner == None && IsBoardFull(m.Board)
	if m.Winner != winner || m.IsDraw != isDraw || m.IsOver != (winner != None || isDraw) {
		return fmt.Errorf("%w: round flags disagree with the board", ErrCorruptState)
	}
	return nil
}

// MarshalJSON encodes None as null.
func (m Mark) MarshalJSON() ([]byte, error) {
	if m == None {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

// UnmarshalJSON accepts null, "X" and "O".
func (m *Mark) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = None
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode mark: %w", err)
	}

	switch mark := Mark(s); mark {
	case None, PlayerX, PlayerO:
		*m = mark
		return nil
	default:
		return fmt.Errorf("%w: unknown mark %q", ErrCorruptState, s)
	}
}

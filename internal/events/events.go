package events

// Message types sent by websocket clients.
const (
	Move       = "move"
	ResetRound = "reset_round"
	ResetStats = "reset_stats"
	ResetAll   = "reset_all"
	Hint       = "hint"
)

// Message types sent to websocket clients.
const (
	State = "state"
	Error = "error"
)

// Rejection reasons sent with an Error message.
const (
	ReasonMalformed     = "malformed message"
	ReasonCellRequired  = "cell is required"
	ReasonNoEmptyCell   = "no empty cell left"
	ReasonUnknownAction = "unknown message type"
)

package controller

import (
	"net/http"

	"ctchen222/Starter-Kit/internal/api/models"
	"ctchen222/Starter-Kit/internal/api/response"
	"ctchen222/Starter-Kit/internal/bot"
	"ctchen222/Starter-Kit/internal/game"
	"ctchen222/Starter-Kit/internal/store"

	"github.com/gin-gonic/gin"
)

// StateController exposes the store over HTTP.
type StateController struct {
	store      *store.Store
	bot        *bot.MoveCalculator
	difficulty bot.Difficulty
}

// NewStateController creates a new StateController. difficulty is used for
// hints that do not ask for one.
func NewStateController(st *store.Store, calc *bot.MoveCalculator, difficulty bot.Difficulty) *StateController {
	return &StateController{
		store:      st,
		bot:        calc,
		difficulty: difficulty,
	}
}

// State returns the whole aggregate.
func (sc *StateController) State(c *gin.Context) {
	response.SuccessResponse(c, sc.store.Snapshot())
}

func (sc *StateController) Increase(c *gin.Context) {
	response.SuccessResponse(c, sc.store.Increase(c.Request.Context()).Counter)
}

func (sc *StateController) Decrease(c *gin.Context) {
	response.SuccessResponse(c, sc.store.Decrease(c.Request.Context()).Counter)
}

func (sc *StateController) ResetCounter(c *gin.Context) {
	response.SuccessResponse(c, sc.store.ResetCounter(c.Request.Context()).Counter)
}

// TicTacToe returns the game slice.
func (sc *StateController) TicTacToe(c *gin.Context) {
	response.SuccessResponse(c, models.NewTicTacToeResponse(sc.store.Snapshot().TicTacToe))
}

// Move handles the move endpoint. Rejected moves answer with the unchanged game.
func (sc *StateController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := sc.store.MakeMove(c.Request.Context(), *req.Cell)
	if err != nil {
		e := response.FromGameError(err)
		response.RejectedResponse(c, e.Code, e.Extras, models.NewTicTacToeResponse(snap.TicTacToe))
		return
	}

	response.SuccessResponse(c, models.NewTicTacToeResponse(snap.TicTacToe))
}

func (sc *StateController) ResetRound(c *gin.Context) {
	snap := sc.store.ResetGame(c.Request.Context())
	response.SuccessResponse(c, models.NewTicTacToeResponse(snap.TicTacToe))
}

func (sc *StateController) ResetStats(c *gin.Context) {
	snap := sc.store.ResetStats(c.Request.Context())
	response.SuccessResponse(c, models.NewTicTacToeResponse(snap.TicTacToe))
}

// ResetAll resets the game, its statistics and the counter.
func (sc *StateController) ResetAll(c *gin.Context) {
	response.SuccessResponse(c, sc.store.ResetAll(c.Request.Context()))
}

// Hint suggests a cell for the player to move.
func (sc *StateController) Hint(c *gin.Context) {
	var query models.HintQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	difficulty := sc.difficulty
	if query.Difficulty != "" {
		difficulty = bot.Difficulty(query.Difficulty)
	}

	match := sc.store.Snapshot().TicTacToe
	if match.IsOver {
		response.ErrorResponse(c, http.StatusConflict, game.ErrGameFinished.Error())
		return
	}

	cell := sc.bot.CalculateNextMove(match.Board, match.CurrentPlayer, difficulty)
	response.SuccessResponse(c, models.HintResponse{
		Cell:       cell,
		Player:     match.CurrentPlayer,
		Difficulty: string(difficulty),
	})
}
